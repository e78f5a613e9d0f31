package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyarc/storyarc/internal/entities"
	"github.com/storyarc/storyarc/internal/services"
)

// ShelfController serves a user's reading shelf, stats and goal.
// Routes are mounted behind RequireSelfOrAdmin on :id.
type ShelfController struct {
	service *services.ShelfService
}

func NewShelfController(service *services.ShelfService) *ShelfController {
	return &ShelfController{service: service}
}

type addToShelfRequest struct {
	BookID uint                 `json:"book_id" binding:"required"`
	Status entities.ShelfStatus `json:"status"`
}

type updateProgressRequest struct {
	Progress   *int                 `json:"progress"`
	TotalPages int                  `json:"total_pages"`
	Status     entities.ShelfStatus `json:"status"`
}

type setGoalRequest struct {
	Goal int `json:"goal" binding:"required"`
	Year int `json:"year"`
}

// AddToShelf handles POST /api/users/:id/shelf
func (sc *ShelfController) AddToShelf(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addToShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	item, created, err := sc.service.Add(userID, req.BookID, req.Status)
	if err != nil {
		respondShelfError(c, err, "add to shelf")
		return
	}

	if created {
		respondCreated(c, gin.H{
			"message": "Book added to shelf successfully",
			"item":    item,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Book status updated",
		"item":    item,
	})
}

// UpdateProgress handles PATCH /api/users/:id/shelf/:bookId
func (sc *ShelfController) UpdateProgress(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	item, err := sc.service.UpdateProgress(userID, bookID, services.ProgressUpdate{
		Progress:   req.Progress,
		TotalPages: req.TotalPages,
		Status:     req.Status,
	})
	if err != nil {
		respondShelfError(c, err, "update progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Progress updated",
		"status":   item.Status,
		"progress": item.Progress,
	})
}

// ListShelf handles GET /api/users/:id/shelf
func (sc *ShelfController) ListShelf(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	status := entities.ShelfStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		respondBadRequest(c, services.ErrInvalidShelfStatus.Error())
		return
	}

	items, err := sc.service.List(userID, status)
	if err != nil {
		respondInternalError(c, err, "list shelf")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetStats handles GET /api/users/:id/stats
func (sc *ShelfController) GetStats(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := sc.service.Stats(userID)
	if err != nil {
		respondShelfError(c, err, "reading stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SetGoal handles POST /api/users/:id/goal
func (sc *ShelfController) SetGoal(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req setGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := sc.service.SetGoal(userID, req.Goal, req.Year)
	if err != nil {
		respondShelfError(c, err, "set goal")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Reading goal updated",
		"goal":    user.ReadingGoal,
		"year":    user.GoalYear,
	})
}

// Recommendations handles GET /api/users/:id/recommendations
func (sc *ShelfController) Recommendations(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", services.DefaultRecommendations)
	if !ok {
		return
	}

	recs, err := sc.service.Recommend(userID, limit)
	if err != nil {
		respondInternalError(c, err, "recommendations")
		return
	}
	c.JSON(http.StatusOK, recs)
}

// respondShelfError maps shelf service errors onto HTTP statuses.
func respondShelfError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondNotFound(c, "user")
	case errors.Is(err, services.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, services.ErrNotOnShelf):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidShelfStatus),
		errors.Is(err, services.ErrInvalidProgress),
		errors.Is(err, services.ErrInvalidGoal):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}
