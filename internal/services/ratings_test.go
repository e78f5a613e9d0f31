package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyarc/storyarc/internal/entities"
)

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{4, 4},
		{4.25, 4.3},
		{4.24, 4.2},
		{3.3333333, 3.3},
		{4.6666666, 4.7},
		{5, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round1(tt.in), "Round1(%v)", tt.in)
	}
}

func TestRatingService_Recompute(t *testing.T) {
	f := setupFixture(t)
	svc := NewRatingService(f.books, f.reviews)
	book := f.book(t, "Piranesi", "Fantasy", 272)

	for _, r := range []entities.Review{
		{BookID: book.ID, Rating: 5, Status: entities.ReviewStatusApproved},
		{BookID: book.ID, Rating: 4, Status: entities.ReviewStatusApproved},
		{BookID: book.ID, Rating: 4, Status: entities.ReviewStatusApproved},
		{BookID: book.ID, Rating: 1, Status: entities.ReviewStatusPending},
	} {
		require.NoError(t, f.reviews.Create(&r))
	}

	rating, total, err := svc.Recompute(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, rating)
	assert.Equal(t, 3, total)

	stored, err := f.books.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, stored.Rating)
	assert.Equal(t, 3, stored.TotalRatings)

	t.Run("no approved reviews resets to zero", func(t *testing.T) {
		other := f.book(t, "Jonathan Strange", "Fantasy", 800)
		require.NoError(t, f.books.UpdateRating(other.ID, 3.2, 9))

		rating, total, err := svc.Recompute(other.ID)
		require.NoError(t, err)
		assert.Zero(t, rating)
		assert.Zero(t, total)
	})

	t.Run("missing book is skipped", func(t *testing.T) {
		_, _, err := svc.Recompute(9999)
		assert.NoError(t, err)
	})
}

func TestRatingService_RecomputeAll(t *testing.T) {
	f := setupFixture(t)
	svc := NewRatingService(f.books, f.reviews)

	a := f.book(t, "A", "", 0)
	b := f.book(t, "B", "", 0)
	require.NoError(t, f.reviews.Create(&entities.Review{BookID: a.ID, Rating: 2, Status: entities.ReviewStatusApproved}))
	require.NoError(t, f.books.UpdateRating(b.ID, 5, 10))

	n, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, _ := f.books.GetByID(a.ID)
	assert.Equal(t, 2.0, got.Rating)
	got, _ = f.books.GetByID(b.ID)
	assert.Zero(t, got.Rating)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.RecomputeAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
