package audit

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/storyarc/storyarc/internal/database/audit"
	"github.com/storyarc/storyarc/internal/entities"
)

// Actor identifies who performed an audited action and from where.
type Actor struct {
	UserID    uint
	RequestID string
	IPAddress string
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records an audit event synchronously.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event %s: %v", event.Action, err)
		}
	}()
}

// Wait blocks until every event handed to LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogAuth records a login attempt. The email is kept in metadata so failed
// attempts against unknown accounts are still traceable.
func (s *Service) LogAuth(actor Actor, action, email string, success bool) {
	event := s.newEvent(actor, entities.AuditEventAuth, action)
	event.Description = "Login attempt for " + truncate(email, 200)
	event.Metadata = encodeMetadata(map[string]any{"email": email})
	if !success {
		event.Status = entities.AuditStatusFailed
	}
	s.LogAsync(event)
}

// LogAction records an administrative change to an entity. A non-nil err
// marks the event as failed.
func (s *Service) LogAction(actor Actor, eventType entities.AuditEventType, action, entityType string, entityID uint, description string, metadata map[string]any, err error) {
	event := s.newEvent(actor, eventType, action)
	event.Description = truncate(description, 500)
	event.EntityType = entityType
	if entityID != 0 {
		event.EntityID = &entityID
	}
	if len(metadata) > 0 {
		event.Metadata = encodeMetadata(metadata)
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// LogMaintenance records the outcome of a background maintenance job.
func (s *Service) LogMaintenance(action, description string, err error) {
	s.LogAction(Actor{}, entities.AuditEventMaintenance, action, "", 0, description, nil, err)
}

func (s *Service) newEvent(actor Actor, eventType entities.AuditEventType, action string) *entities.AuditEvent {
	return &entities.AuditEvent{
		UserID:    actor.UserID,
		EventType: eventType,
		Action:    action,
		RequestID: actor.RequestID,
		IPAddress: actor.IPAddress,
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().UTC(),
	}
}

// ListEvents retrieves paginated audit events.
func (s *Service) ListEvents(q audit.Query) ([]entities.AuditEvent, int64, error) {
	return s.repo.ListEvents(q)
}

// DeleteOldEvents removes events older than the retention window.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	return s.repo.DeleteOldEvents(time.Now().Add(-retention))
}

// RetentionFromDays converts the configured retention in days to a duration.
func RetentionFromDays(days int) time.Duration {
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// FormatID renders an entity ID for descriptions.
func FormatID(id uint) string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

func encodeMetadata(md map[string]any) string {
	b, err := json.Marshal(md)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
