package service

import (
	"context"
	"sort"
	"sync"

	"apero/internal/microservices/http-api/models"
	"apero/internal/microservices/http-api/repository"
	"apero/internal/ranking"

	"gorm.io/gorm"
)

// In-memory doubles for the gorm repositories. fakeStore serializes every
// ApplyComparison under one mutex, which models the database's transactional
// boundary: each judgment reads fresh ratings and commits atomically.
type fakeStore struct {
	mu          sync.Mutex
	dishes      map[int64]*models.Dish
	comparisons []*models.Comparison
	reviews     []*models.Review

	// conflicts injects this many ErrRatingConflict failures before
	// ApplyComparison succeeds.
	conflicts int
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{dishes: make(map[int64]*models.Dish)}
}

func (f *fakeStore) addDish(id int64, name string, rating *float64) *models.Dish {
	dish := &models.Dish{
		ID:         id,
		Slug:       name,
		Name:       name,
		Category:   "dining_court",
		Rating:     rating,
		DiningHall: models.DiningHall{ID: 1, Name: "Ford Dining Court"},
	}
	f.dishes[id] = dish
	return dish
}

func ptr(v float64) *float64 { return &v }

// --- DishRepository ---

type fakeDishRepo struct{ store *fakeStore }

func (r *fakeDishRepo) GetByID(_ context.Context, id int64) (*models.Dish, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	dish, ok := r.store.dishes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *dish
	return &copied, nil
}

func (r *fakeDishRepo) List(_ context.Context, filter repository.DishFilter) ([]models.Dish, int64, error) {
	dishes, err := r.ListEligible(context.Background())
	if err != nil {
		return nil, 0, err
	}
	return dishes, int64(len(dishes)), nil
}

func (r *fakeDishRepo) ListEligible(_ context.Context) ([]models.Dish, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Dish
	for _, dish := range r.store.dishes {
		if dish.Rating != nil {
			out = append(out, *dish)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDishRepo) ListRanked(_ context.Context, limit int) ([]models.Dish, error) {
	dishes, err := r.ListEligible(context.Background())
	if err != nil {
		return nil, err
	}
	sort.Slice(dishes, func(i, j int) bool { return *dishes[i].Rating > *dishes[j].Rating })
	if len(dishes) > limit {
		dishes = dishes[:limit]
	}
	return dishes, nil
}

func (r *fakeDishRepo) Create(_ context.Context, dish *models.Dish) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextID++
	dish.ID = r.store.nextID + 1000
	r.store.dishes[dish.ID] = dish
	return nil
}

func (r *fakeDishRepo) UpsertMenuItem(ctx context.Context, dish *models.Dish) error {
	return r.Create(ctx, dish)
}

func (r *fakeDishRepo) SeedRating(_ context.Context, dishID int64, rating float64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	dish, ok := r.store.dishes[dishID]
	if !ok || dish.Rating != nil {
		return false, nil
	}
	dish.Rating = &rating
	dish.RatingVersion++
	dish.TotalRatings = 1
	return true, nil
}

func (r *fakeDishRepo) ApplyComparison(_ context.Context, winnerID, loserID int64, userID, pairKey string, compute repository.RatingUpdateFunc) (*repository.ComparisonResult, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	winner, ok := r.store.dishes[winnerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loser, ok := r.store.dishes[loserID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	if r.store.conflicts > 0 {
		r.store.conflicts--
		return nil, repository.ErrRatingConflict
	}

	for _, cmp := range r.store.comparisons {
		if cmp.UserID == userID && cmp.PairKey == pairKey {
			return nil, gorm.ErrDuplicatedKey
		}
	}

	newWinner, newLoser := compute(winner.Rating, loser.Rating)
	winner.Rating = &newWinner
	winner.RatingVersion++
	winner.TotalRatings++
	loser.Rating = &newLoser
	loser.RatingVersion++
	loser.TotalRatings++

	cmp := &models.Comparison{
		UserID:   userID,
		PairKey:  pairKey,
		WinnerID: winnerID,
		LoserID:  loserID,
	}
	r.store.comparisons = append(r.store.comparisons, cmp)

	return &repository.ComparisonResult{
		WinnerRating: newWinner,
		LoserRating:  newLoser,
		Comparison:   cmp,
	}, nil
}

// --- ComparisonRepository ---

type fakeComparisonRepo struct{ store *fakeStore }

func (r *fakeComparisonRepo) ListPairKeys(_ context.Context, userID string) (map[string]struct{}, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	set := make(map[string]struct{})
	for _, cmp := range r.store.comparisons {
		if cmp.UserID == userID {
			set[cmp.PairKey] = struct{}{}
		}
	}
	return set, nil
}

func (r *fakeComparisonRepo) CountForUser(_ context.Context, userID string) (int64, error) {
	keys, _ := r.ListPairKeys(context.Background(), userID)
	return int64(len(keys)), nil
}

func (r *fakeComparisonRepo) ListForUser(_ context.Context, userID string, page, pageSize int) ([]models.Comparison, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Comparison
	for _, cmp := range r.store.comparisons {
		if cmp.UserID == userID {
			out = append(out, *cmp)
		}
	}
	return out, int64(len(out)), nil
}

// --- ReviewRepository ---

type fakeReviewRepo struct{ store *fakeStore }

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	review.ID = int64(len(r.store.reviews) + 1)
	r.store.reviews = append(r.store.reviews, review)
	return nil
}

func (r *fakeReviewRepo) ListByDish(_ context.Context, dishID int64, page, pageSize int) ([]models.Review, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Review
	for _, rev := range r.store.reviews {
		if rev.DishID == dishID {
			out = append(out, *rev)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) ListByUser(_ context.Context, userID string, page, pageSize int) ([]models.Review, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Review
	for _, rev := range r.store.reviews {
		if rev.UserID == userID {
			out = append(out, *rev)
		}
	}
	return out, int64(len(out)), nil
}

// --- UserRepository ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// newTestRankingService wires a ranking service over a fresh fake store with
// a deterministic random source.
func newTestRankingService(store *fakeStore, rng ranking.Source) RankingService {
	return NewRankingService(
		&fakeDishRepo{store: store},
		&fakeComparisonRepo{store: store},
		&fakeReviewRepo{store: store},
		ranking.DefaultPolicy(),
		rng,
	)
}
