package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.AuditEvent{
		UserID:      1,
		EventType:   entities.AuditEventReview,
		Action:      "review_approve",
		Description: "Approved review #4",
		Status:      entities.AuditStatusSuccess,
	}

	require.NoError(t, repo.LogEvent(event))
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_ListEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for i := 0; i < 12; i++ {
		require.NoError(t, repo.LogEvent(&entities.AuditEvent{
			UserID:    1,
			EventType: entities.AuditEventGenre,
			Action:    "genre_rename",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.LogEvent(&entities.AuditEvent{
			UserID:    2,
			EventType: entities.AuditEventAuth,
			Action:    "login_failed",
			Status:    entities.AuditStatusFailed,
		}))
	}

	tests := []struct {
		name      string
		query     Query
		wantTotal int64
		wantLen   int
	}{
		{"everything", Query{}, 15, 15},
		{"by type", Query{EventType: entities.AuditEventAuth}, 3, 3},
		{"by actor", Query{ActorID: 1}, 12, 12},
		{"paged", Query{ActorID: 1, Limit: 5, Offset: 10}, 12, 2},
		{"negative offset", Query{Limit: 4, Offset: -1}, 15, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, total, err := repo.ListEvents(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, events, tt.wantLen)
		})
	}

	t.Run("newest first", func(t *testing.T) {
		events, _, err := repo.ListEvents(Query{ActorID: 1})
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].CreatedAt.Before(events[i].CreatedAt))
		}
	})
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	now := time.Now()

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventBook,
		Action:    "book_delete",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventUser,
		Action:    "role_change",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-1 * time.Hour),
	}))

	deleted, err := repo.DeleteOldEvents(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.ListEvents(Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "role_change", events[0].Action)
}

func TestRepository_GetEventByID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.AuditEvent{EventType: entities.AuditEventTutorial, Action: "tutorial_delete", Status: entities.AuditStatusSuccess}
	require.NoError(t, repo.LogEvent(event))

	found, err := repo.GetEventByID(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "tutorial_delete", found.Action)

	_, err = repo.GetEventByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
