package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/storyarc/storyarc/internal/entities"
)

// DashboardController serves the admin overview.
type DashboardController struct {
	books   BookCounter
	users   RoleCounter
	reviews ReviewCounter
}

func NewDashboardController(books BookCounter, users RoleCounter, reviews ReviewCounter) *DashboardController {
	return &DashboardController{books: books, users: users, reviews: reviews}
}

// DashboardStats is the response of GET /api/dashboard/stats.
type DashboardStats struct {
	TotalBooks     int64 `json:"total_books"`
	TotalUsers     int64 `json:"total_users"`
	PendingReviews int64 `json:"pending_reviews"`
}

// Stats handles GET /api/dashboard/stats
func (dc *DashboardController) Stats(c *gin.Context) {
	var stats DashboardStats
	var g errgroup.Group

	g.Go(func() (err error) {
		stats.TotalBooks, err = dc.books.Count()
		return err
	})
	g.Go(func() (err error) {
		stats.TotalUsers, err = dc.users.CountByRole(entities.UserRoleUser)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingReviews, err = dc.reviews.CountByStatus(entities.ReviewStatusPending)
		return err
	})

	if err := g.Wait(); err != nil {
		respondInternalError(c, err, "dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Charts handles GET /api/dashboard/charts
func (dc *DashboardController) Charts(c *gin.Context) {
	genreData, err := dc.books.CountByGenre()
	if err != nil {
		respondInternalError(c, err, "dashboard charts")
		return
	}
	if genreData == nil {
		genreData = []entities.GenreCount{}
	}
	c.JSON(http.StatusOK, gin.H{"genre_data": genreData})
}
