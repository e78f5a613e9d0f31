package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// RatingRecomputer refreshes book ratings from approved reviews.
type RatingRecomputer interface {
	Recompute(bookID uint) (float64, int, error)
	RecomputeAll(ctx context.Context) (int, error)
}

// RecomputeBookRatingsTask rebuilds rating aggregates. A zero BookID means
// every book in the catalog.
type RecomputeBookRatingsTask struct {
	BookID uint `json:"book_id,omitempty"`
}

func (t RecomputeBookRatingsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "recompute_book_ratings",
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     15 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func RecomputeBookRatingsProcessor(ratings RatingRecomputer, recorder MaintenanceRecorder) backlite.QueueProcessor[RecomputeBookRatingsTask] {
	return func(ctx context.Context, task RecomputeBookRatingsTask) error {
		if ratings == nil {
			return fmt.Errorf("rating service not configured")
		}

		if task.BookID != 0 {
			rating, total, err := ratings.Recompute(task.BookID)
			if err != nil {
				return fmt.Errorf("recompute rating of book %d: %w", task.BookID, err)
			}
			log.Printf("[TASK] Book %d rated %.1f from %d reviews", task.BookID, rating, total)
			return nil
		}

		started := time.Now()
		n, err := ratings.RecomputeAll(ctx)
		if err != nil {
			err = fmt.Errorf("recompute book ratings: %w", err)
			record(recorder, "recompute_book_ratings",
				fmt.Sprintf("Rating recompute stopped after %d books", n), err)
			return err
		}

		log.Printf("[TASK] Recomputed ratings of %d books in %v", n, time.Since(started).Round(time.Millisecond))
		record(recorder, "recompute_book_ratings", fmt.Sprintf("Recomputed ratings of %d books", n), nil)
		return nil
	}
}

func NewRecomputeBookRatingsQueue(ratings RatingRecomputer, recorder MaintenanceRecorder) backlite.Queue {
	return backlite.NewQueue(RecomputeBookRatingsProcessor(ratings, recorder))
}
