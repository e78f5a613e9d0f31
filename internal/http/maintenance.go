package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/storyarc/storyarc/internal/entities"
	"github.com/storyarc/storyarc/internal/tasks"
)

// TaskQueue is the part of tasks.Client used by MaintenanceController.
type TaskQueue interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// MaintenanceController lets admins trigger background maintenance.
type MaintenanceController struct {
	queue   TaskQueue
	auditor Auditor
}

func NewMaintenanceController(queue TaskQueue, auditor Auditor) *MaintenanceController {
	return &MaintenanceController{queue: queue, auditor: auditorOrNoop(auditor)}
}

type recomputeRatingsRequest struct {
	// BookID limits the recompute to one book; zero means the whole catalog.
	BookID uint `json:"book_id,omitempty" form:"book_id"`
}

// RecomputeRatings handles POST /api/admin/maintenance/ratings
func (mc *MaintenanceController) RecomputeRatings(c *gin.Context) {
	if mc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}

	var req recomputeRatingsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
	}

	ids, err := mc.queue.Enqueue(c.Request.Context(), tasks.RecomputeBookRatingsTask{BookID: req.BookID})
	mc.auditor.LogAction(auditActor(c), entities.AuditEventMaintenance, "ratings_recompute", "book", req.BookID,
		"Enqueued rating recompute", nil, err)
	if err != nil {
		respondInternalError(c, err, "enqueue rating recompute")
		return
	}

	respondAccepted(c, "Rating recompute enqueued", gin.H{
		"task_id": ids[0],
		"queue":   tasks.RecomputeBookRatingsTask{}.Config().Name,
	})
}

// GetTaskStatus handles GET /api/admin/tasks/:id
func (mc *MaintenanceController) GetTaskStatus(c *gin.Context) {
	if mc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := mc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusName(status),
	})
}
