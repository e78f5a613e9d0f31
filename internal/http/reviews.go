package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/audit"
	"github.com/storyarc/storyarc/internal/auth"
	"github.com/storyarc/storyarc/internal/entities"
	"github.com/storyarc/storyarc/internal/services"
)

// UserGetter resolves the profile of the authenticated caller.
type UserGetter interface {
	GetUserByID(id uint) (*entities.User, error)
}

type ReviewsController struct {
	reader  ReviewReader
	service *services.ReviewService
	users   UserGetter
	auditor Auditor
}

func NewReviewsController(reader ReviewReader, service *services.ReviewService, users UserGetter, auditor Auditor) *ReviewsController {
	return &ReviewsController{
		reader:  reader,
		service: service,
		users:   users,
		auditor: auditorOrNoop(auditor),
	}
}

type submitReviewRequest struct {
	BookID     uint   `json:"book_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	BookCover  string `json:"book_cover"`
}

// ListBookReviews handles GET /api/reviews/:bookId
func (rc *ReviewsController) ListBookReviews(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	reviews, err := rc.reader.ApprovedForBook(bookID)
	if err != nil {
		respondInternalError(c, err, "list book reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// ListAllReviews handles GET /api/reviews/admin/all
func (rc *ReviewsController) ListAllReviews(c *gin.Context) {
	status := entities.ReviewStatus(c.Query("status"))
	if status != "" && status != entities.ReviewStatusPending && status != entities.ReviewStatusApproved {
		respondBadRequest(c, "status must be pending or approved")
		return
	}

	reviews, err := rc.reader.List(status)
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// SubmitReview handles POST /api/reviews
func (rc *ReviewsController) SubmitReview(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	reviewer := services.Reviewer{ID: auth.GetUserID(c), Email: auth.GetUserEmail(c)}
	user, err := rc.users.GetUserByID(reviewer.ID)
	switch {
	case err == nil:
		reviewer.Name, reviewer.Image = user.Name, user.Image
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusUnauthorized, "unauthorized access")
		return
	default:
		respondInternalError(c, err, "load reviewer")
		return
	}

	review, err := rc.service.Submit(reviewer, services.ReviewSubmission{
		BookID:     req.BookID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		BookTitle:  req.BookTitle,
		BookAuthor: req.BookAuthor,
		BookCover:  req.BookCover,
	})
	if err != nil {
		if errors.Is(err, services.ErrBookIDRequired) ||
			errors.Is(err, services.ErrRatingOutOfRange) ||
			errors.Is(err, services.ErrCommentRequired) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "submit review")
		return
	}

	respondCreated(c, gin.H{
		"message":   "Review submitted for moderation",
		"review_id": review.ID,
	})
}

// ApproveReview handles PATCH /api/reviews/:id/approve
func (rc *ReviewsController) ApproveReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := rc.service.Approve(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "review")
		return
	}
	var bookID uint
	if review != nil {
		bookID = review.BookID
	}
	rc.auditor.LogAction(auditActor(c), entities.AuditEventReview, "review_approve", "review", id,
		"Approved review "+audit.FormatID(id), map[string]any{"book_id": bookID}, err)
	if err != nil {
		respondInternalError(c, err, "approve review")
		return
	}

	respondSuccess(c, "Review approved and ratings updated")
}

// DeleteReview handles DELETE /api/reviews/:id
func (rc *ReviewsController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := rc.service.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "review")
		return
	}
	var metadata map[string]any
	if review != nil {
		metadata = map[string]any{"book_id": review.BookID, "status": review.Status}
	}
	rc.auditor.LogAction(auditActor(c), entities.AuditEventReview, "review_delete", "review", id,
		"Deleted review "+audit.FormatID(id), metadata, err)
	if err != nil {
		respondInternalError(c, err, "delete review")
		return
	}

	respondSuccess(c, "Review deleted successfully")
}
