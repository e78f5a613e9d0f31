package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/audit"
	"github.com/storyarc/storyarc/internal/database/tutorials"
	"github.com/storyarc/storyarc/internal/entities"
	"github.com/storyarc/storyarc/internal/services"
)

type TutorialsController struct {
	store   TutorialReader
	service *services.TutorialService
	auditor Auditor
}

func NewTutorialsController(store TutorialReader, service *services.TutorialService, auditor Auditor) *TutorialsController {
	return &TutorialsController{store: store, service: service, auditor: auditorOrNoop(auditor)}
}

type createTutorialRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

type updateTutorialRequest struct {
	Title    *string `json:"title"`
	URL      *string `json:"url"`
	Category *string `json:"category"`
}

// ListTutorials handles GET /api/tutorials
func (tc *TutorialsController) ListTutorials(c *gin.Context) {
	page, limit, ok := parsePagination(c, tutorials.DefaultLimit, tutorials.MaxLimit)
	if !ok {
		return
	}

	list, total, err := tc.store.List(page, limit)
	if err != nil {
		respondInternalError(c, err, "list tutorials")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tutorials":       list,
		"total_tutorials": total,
		"total_pages":     totalPages(total, limit),
		"current_page":    page,
	})
}

// CreateTutorial handles POST /api/tutorials
func (tc *TutorialsController) CreateTutorial(c *gin.Context) {
	var req createTutorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	tutorial, err := tc.service.Create(req.Title, req.URL, req.Category)
	if err != nil {
		if isTutorialInputError(err) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create tutorial")
		return
	}

	respondCreated(c, gin.H{"message": "Tutorial created", "id": tutorial.ID, "tutorial": tutorial})
}

// UpdateTutorial handles PUT /api/tutorials/:id
func (tc *TutorialsController) UpdateTutorial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateTutorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	tutorial, err := tc.service.Update(id, services.TutorialPatch{
		Title:    req.Title,
		URL:      req.URL,
		Category: req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTutorialNotFound):
			respondNotFound(c, "tutorial")
		case isTutorialInputError(err):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update tutorial")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tutorial updated successfully", "tutorial": tutorial})
}

// DeleteTutorial handles DELETE /api/tutorials/:id
func (tc *TutorialsController) DeleteTutorial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := tc.store.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "tutorial")
		return
	}
	tc.auditor.LogAction(auditActor(c), entities.AuditEventTutorial, "tutorial_delete", "tutorial", id,
		"Deleted tutorial "+audit.FormatID(id), nil, err)
	if err != nil {
		respondInternalError(c, err, "delete tutorial")
		return
	}

	respondSuccess(c, "Tutorial deleted successfully")
}

func isTutorialInputError(err error) bool {
	return errors.Is(err, services.ErrTutorialFieldsRequired) || errors.Is(err, services.ErrInvalidVideoURL)
}
