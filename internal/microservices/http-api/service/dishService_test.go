package service

import (
	"context"
	"testing"

	"apero/internal/microservices/http-api/repository"
	"apero/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDishService(store *fakeStore) DishService {
	return NewDishService(
		&fakeDishRepo{store: store},
		nil, // dining hall repo unused by these paths
		&fakeReviewRepo{store: store},
		nil, // nil cache degrades to cache misses
		ranking.DefaultPolicy(),
	)
}

func TestDishServiceGet(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDish(1, "pancakes", ptr(1150))
	store.addDish(2, "omelet", ptr(1000)) // neutral default
	store.addDish(3, "waffles", nil)      // never seeded
	svc := newTestDishService(store)

	t.Run("FixedRangeScore", func(t *testing.T) {
		dish, err := svc.Get(ctx, 1)
		require.NoError(t, err)
		// 1 + 9*(1150-800)/600 = 6.25 → 6.3
		assert.Equal(t, 6.3, dish.DisplayScore)
		assert.True(t, dish.Ranked)
	})

	t.Run("NeutralAndUnseededPinToFive", func(t *testing.T) {
		dish, err := svc.Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 5.0, dish.DisplayScore)

		dish, err = svc.Get(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 5.0, dish.DisplayScore)
		assert.False(t, dish.Ranked)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := svc.Get(ctx, 42)
		assert.ErrorIs(t, err, ErrDishNotFound)
	})
}

func TestDishServiceList(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDish(1, "pancakes", ptr(950))
	store.addDish(2, "omelet", ptr(1025))
	store.addDish(3, "waffles", ptr(1100))
	svc := newTestDishService(store)

	resp, err := svc.List(ctx, repository.DishFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, resp.Data, 3)

	// Population-relative: the displayed set is stretched over 1-10.
	scores := map[string]float64{}
	for _, d := range resp.Data {
		scores[d.Name] = d.DisplayScore
	}
	assert.Equal(t, 1.0, scores["pancakes"])
	assert.Equal(t, 5.5, scores["omelet"])
	assert.Equal(t, 10.0, scores["waffles"])
}

func TestDishServiceLeaderboard(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDish(1, "pancakes", ptr(950))
	store.addDish(2, "omelet", ptr(1200))
	store.addDish(3, "waffles", ptr(1100))
	store.addDish(4, "toast", nil) // unranked, excluded
	svc := newTestDishService(store)

	rows, err := svc.Leaderboard(ctx, 50)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "omelet", rows[0].Name)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 10.0, rows[0].DisplayScore)
	assert.Equal(t, "pancakes", rows[2].Name)
	assert.Equal(t, 1.0, rows[2].DisplayScore)
}
