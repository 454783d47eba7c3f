package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"apero/internal/microservices/http-api/dto"
	"apero/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReview(t *testing.T) {
	ctx := context.Background()

	t.Run("SeedsUnratedDishAndReturnsAnchoredPair", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", nil)
		store.addDish(2, "omelet", ptr(1000))
		store.addDish(3, "waffles", ptr(1100))
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		resp, err := svc.SubmitReview(ctx, "user-1", "alice", 1, dto.CreateReviewDTO{
			Sentiment: "LOVE",
			Note:      "crispy edges",
			Tags:      []string{"taste", "portion"},
		})
		require.NoError(t, err)

		assert.True(t, resp.Seeded)
		require.NotNil(t, store.dishes[1].Rating)
		assert.GreaterOrEqual(t, *store.dishes[1].Rating, 1050.0)
		assert.LessOrEqual(t, *store.dishes[1].Rating, 1200.0)

		// The follow-up pair anchors the reviewed dish in first position.
		require.NotNil(t, resp.NextPair)
		require.Equal(t, dto.PairStatusFound, resp.NextPair.Status)
		assert.EqualValues(t, 1, resp.NextPair.DishA.ID)

		assert.Equal(t, "alice", resp.Review.Username)
		assert.Equal(t, []string{"taste", "portion"}, resp.Review.Tags)
	})

	t.Run("SecondReviewNeverReseeds", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", ptr(1120))
		store.addDish(2, "omelet", ptr(1000))
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		resp, err := svc.SubmitReview(ctx, "user-2", "bob", 1, dto.CreateReviewDTO{Sentiment: "BAD"})
		require.NoError(t, err)

		assert.False(t, resp.Seeded)
		assert.Equal(t, 1120.0, *store.dishes[1].Rating)
		// The stored review carries no initial rating either.
		require.Len(t, store.reviews, 1)
		assert.Nil(t, store.reviews[0].InitialRating)
	})

	t.Run("InvalidSentimentRejectedBeforeAnyWrite", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", nil)
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		_, err := svc.SubmitReview(ctx, "user-1", "alice", 1, dto.CreateReviewDTO{Sentiment: "AMAZING"})
		assert.ErrorIs(t, err, ranking.ErrInvalidSentiment)
		assert.Nil(t, store.dishes[1].Rating)
		assert.Empty(t, store.reviews)
	})

	t.Run("UnknownDish", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		_, err := svc.SubmitReview(ctx, "user-1", "alice", 99, dto.CreateReviewDTO{Sentiment: "MID"})
		assert.ErrorIs(t, err, ErrDishNotFound)
	})
}

func TestNextPair(t *testing.T) {
	ctx := context.Background()

	t.Run("InsufficientPopulation", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", ptr(1050))
		store.addDish(2, "omelet", nil) // unrated, not eligible
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		resp, err := svc.NextPair(ctx, "user-1", 0)
		require.NoError(t, err)
		assert.Equal(t, dto.PairStatusInsufficientPopulation, resp.Status)
		assert.Nil(t, resp.DishA)
	})

	t.Run("ExhaustedWhenEverythingJudged", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", ptr(1050))
		store.addDish(2, "omelet", ptr(1000))
		store.addDish(3, "waffles", ptr(950))
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		// user-1 judges all three pairs.
		for _, pair := range [][2]int64{{1, 2}, {1, 3}, {2, 3}} {
			_, err := svc.RecordPreference(ctx, "user-1", pair[0], pair[1])
			require.NoError(t, err)
		}

		resp, err := svc.NextPair(ctx, "user-1", 0)
		require.NoError(t, err)
		assert.Equal(t, dto.PairStatusExhausted, resp.Status)

		// Another user's history is untouched.
		resp, err = svc.NextPair(ctx, "user-2", 0)
		require.NoError(t, err)
		assert.Equal(t, dto.PairStatusFound, resp.Status)
	})
}

func TestRecordPreference(t *testing.T) {
	ctx := context.Background()

	t.Run("KnownEloMovement", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", ptr(1150))
		store.addDish(2, "omelet", ptr(1000))
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		resp, err := svc.RecordPreference(ctx, "user-1", 1, 2)
		require.NoError(t, err)

		assert.InDelta(t, 1157.55, *store.dishes[1].Rating, 0.01)
		assert.InDelta(t, 992.45, *store.dishes[2].Rating, 0.01)
		// 1157.55 → 1 + 9*357.55/600 = 6.36 → 6.4
		assert.InDelta(t, 6.4, resp.WinnerDisplayScore, 0.01)

		require.Len(t, store.comparisons, 1)
		assert.Equal(t, ranking.PairKey(1, 2), store.comparisons[0].PairKey)
		assert.EqualValues(t, 1, store.comparisons[0].WinnerID)
	})

	t.Run("SelfComparisonRejected", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", ptr(1000))
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		_, err := svc.RecordPreference(ctx, "user-1", 1, 1)
		assert.ErrorIs(t, err, ErrSelfComparison)
	})

	t.Run("DuplicateJudgmentRejected", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", ptr(1000))
		store.addDish(2, "omelet", ptr(1000))
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		_, err := svc.RecordPreference(ctx, "user-1", 1, 2)
		require.NoError(t, err)
		// Same unordered pair, either orientation.
		_, err = svc.RecordPreference(ctx, "user-1", 2, 1)
		assert.ErrorIs(t, err, ErrPairAlreadyJudged)
	})

	t.Run("RetriesThroughTransientConflicts", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", ptr(1000))
		store.addDish(2, "omelet", ptr(1000))
		store.conflicts = 2 // fewer than the retry budget
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		_, err := svc.RecordPreference(ctx, "user-1", 1, 2)
		require.NoError(t, err)
		require.Len(t, store.comparisons, 1)
	})

	t.Run("SurfacesExhaustedRetries", func(t *testing.T) {
		store := newFakeStore()
		store.addDish(1, "pancakes", ptr(1000))
		store.addDish(2, "omelet", ptr(1000))
		store.conflicts = 10
		svc := newTestRankingService(store, rand.New(rand.NewSource(7)))

		_, err := svc.RecordPreference(ctx, "user-1", 1, 2)
		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		assert.Empty(t, store.comparisons)
	})
}

// TestRecordPreferenceConcurrency drives many concurrent judgments that all
// involve dish 1. Every update must be computed from a freshly read rating
// inside the transaction, so no update may be lost: each Elo update
// conserves the sum of the two ratings, hence the population total must be
// exactly what it started as.
func TestRecordPreferenceConcurrency(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	const others = 20
	store.addDish(1, "pancakes", ptr(1000))
	for i := int64(0); i < others; i++ {
		store.addDish(2+i, fmt.Sprintf("dish-%d", i), ptr(900+float64(i)*20))
	}

	var initialSum float64
	for _, dish := range store.dishes {
		initialSum += *dish.Rating
	}

	svc := newTestRankingService(store, ranking.DefaultSource())

	var wg sync.WaitGroup
	for i := int64(0); i < others; i++ {
		wg.Add(1)
		go func(other int64) {
			defer wg.Done()
			// Each goroutine is a distinct user judging dish 1 vs its
			// own opponent, all racing on dish 1's rating.
			userID := fmt.Sprintf("user-%d", other)
			_, err := svc.RecordPreference(ctx, userID, 1, 2+other)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var finalSum float64
	for _, dish := range store.dishes {
		finalSum += *dish.Rating
	}
	assert.InDelta(t, initialSum, finalSum, 1e-6)
	assert.Len(t, store.comparisons, others)
	assert.Equal(t, others, store.dishes[1].TotalRatings)
}
