package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	auditdb "github.com/storyarc/storyarc/internal/database/audit"
	"github.com/storyarc/storyarc/internal/entities"
)

const maxAuditLimit = 200

// AuditReader lists stored audit events.
type AuditReader interface {
	ListEvents(q auditdb.Query) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	events AuditReader
}

func NewAuditController(events AuditReader) *AuditController {
	return &AuditController{events: events}
}

// GetAuditEvents returns audit events, newest first.
// GET /api/admin/audit?type=&actor=&limit=&offset=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", auditdb.DefaultLimit)
	if !ok {
		return
	}
	offset, ok := parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}
	actor, ok := parseIntQuery(c, "actor", 0)
	if !ok {
		return
	}
	if limit < 1 {
		limit = auditdb.DefaultLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	if offset < 0 {
		offset = 0
	}
	if actor < 0 {
		actor = 0
	}

	events, total, err := ac.events.ListEvents(auditdb.Query{
		EventType: entities.AuditEventType(c.Query("type")),
		ActorID:   uint(actor),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"total_events": total,
		"limit":        limit,
		"offset":       offset,
	})
}
