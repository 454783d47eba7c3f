package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"apero/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ErrRatingConflict is returned when a rating write loses an optimistic
// concurrency race (another transaction bumped the dish's rating_version
// between our read and write). Callers re-read and retry.
var ErrRatingConflict = errors.New("rating version conflict")

type DishRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Dish, error)
	List(ctx context.Context, filter DishFilter) ([]models.Dish, int64, error)
	ListEligible(ctx context.Context) ([]models.Dish, error)
	ListRanked(ctx context.Context, limit int) ([]models.Dish, error)
	Create(ctx context.Context, dish *models.Dish) error
	UpsertMenuItem(ctx context.Context, dish *models.Dish) error
	SeedRating(ctx context.Context, dishID int64, rating float64) (bool, error)
	ApplyComparison(ctx context.Context, winnerID, loserID int64, userID, pairKey string, compute RatingUpdateFunc) (*ComparisonResult, error)
}

// DishFilter narrows List queries. Zero values mean "no filter".
type DishFilter struct {
	Query        string
	Category     string
	DiningHallID int64
	Page         int
	PageSize     int
}

// RatingUpdateFunc computes both new ratings from the freshly read current
// ones. Nil means the dish has never been seeded.
type RatingUpdateFunc func(winner, loser *float64) (newWinner, newLoser float64)

// ComparisonResult is what ApplyComparison committed.
type ComparisonResult struct {
	WinnerRating float64
	LoserRating  float64
	Comparison   *models.Comparison
}

type dishRepository struct {
	db *gorm.DB
}

func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) GetByID(ctx context.Context, id int64) (*models.Dish, error) {
	var dish models.Dish
	if err := r.db.WithContext(ctx).Preload("DiningHall").First(&dish, id).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) List(ctx context.Context, filter DishFilter) ([]models.Dish, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Dish{})

	if filter.Query != "" {
		for _, token := range strings.Fields(filter.Query) {
			q = q.Where("name ILIKE ?", "%"+token+"%")
		}
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.DiningHallID != 0 {
		q = q.Where("dining_hall_id = ?", filter.DiningHallID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dishes []models.Dish
	offset := (filter.Page - 1) * filter.PageSize
	err := q.Preload("DiningHall").
		Order("name ASC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&dishes).Error
	if err != nil {
		return nil, 0, err
	}
	return dishes, total, nil
}

// ListEligible returns dishes that can appear in comparisons: anything with
// an initialized rating.
func (r *dishRepository) ListEligible(ctx context.Context) ([]models.Dish, error) {
	var dishes []models.Dish
	err := r.db.WithContext(ctx).
		Preload("DiningHall").
		Where("rating IS NOT NULL").
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

// ListRanked returns rated dishes ordered best-first for the leaderboard.
func (r *dishRepository) ListRanked(ctx context.Context, limit int) ([]models.Dish, error) {
	var dishes []models.Dish
	err := r.db.WithContext(ctx).
		Preload("DiningHall").
		Where("rating IS NOT NULL").
		Order("rating DESC").
		Limit(limit).
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

func (r *dishRepository) Create(ctx context.Context, dish *models.Dish) error {
	if err := r.db.WithContext(ctx).Create(dish).Error; err != nil {
		return fmt.Errorf("create dish: %w", err)
	}
	return nil
}

// UpsertMenuItem registers a dish from menu ingestion without touching an
// existing row's rating state.
func (r *dishRepository) UpsertMenuItem(ctx context.Context, dish *models.Dish) error {
	var existing models.Dish
	err := r.db.WithContext(ctx).
		Where("dining_hall_id = ? AND slug = ?", dish.DiningHallID, dish.Slug).
		First(&existing).Error
	if err == nil {
		dish.ID = existing.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := r.db.WithContext(ctx).Create(dish).Error; err != nil {
		return fmt.Errorf("upsert dish %q: %w", dish.Slug, err)
	}
	return nil
}

// SeedRating installs a dish's first rating. Only a dish whose rating is
// still NULL is written, so concurrent or repeated reviews can never
// reseed; the return value reports whether this call did the seeding.
func (r *dishRepository) SeedRating(ctx context.Context, dishID int64, rating float64) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Dish{}).
		Where("id = ? AND rating IS NULL", dishID).
		Updates(map[string]any{
			"rating":           rating,
			"rating_version":   gorm.Expr("rating_version + 1"),
			"total_ratings":    1,
			"last_reviewed_at": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("seed rating for dish %d: %w", dishID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ApplyComparison commits one preference judgment atomically: re-reads both
// dishes inside the transaction, computes their new ratings, writes each
// back guarded by its rating_version, and inserts the user's comparison
// record. Either all three writes land or none do. A missed version check
// aborts with ErrRatingConflict so the caller can retry against fresh state.
func (r *dishRepository) ApplyComparison(ctx context.Context, winnerID, loserID int64, userID, pairKey string, compute RatingUpdateFunc) (*ComparisonResult, error) {
	var result ComparisonResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var winner, loser models.Dish
		if err := tx.First(&winner, winnerID).Error; err != nil {
			return err
		}
		if err := tx.First(&loser, loserID).Error; err != nil {
			return err
		}

		newWinner, newLoser := compute(winner.Rating, loser.Rating)
		now := time.Now()

		if err := r.updateRating(tx, &winner, newWinner, now); err != nil {
			return err
		}
		if err := r.updateRating(tx, &loser, newLoser, now); err != nil {
			return err
		}

		cmp := &models.Comparison{
			UserID:   userID,
			PairKey:  pairKey,
			WinnerID: winner.ID,
			LoserID:  loser.ID,
		}
		if err := tx.Create(cmp).Error; err != nil {
			return fmt.Errorf("record comparison %s: %w", pairKey, err)
		}

		result = ComparisonResult{
			WinnerRating: newWinner,
			LoserRating:  newLoser,
			Comparison:   cmp,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *dishRepository) updateRating(tx *gorm.DB, dish *models.Dish, rating float64, now time.Time) error {
	res := tx.Model(&models.Dish{}).
		Where("id = ? AND rating_version = ?", dish.ID, dish.RatingVersion).
		Updates(map[string]any{
			"rating":           rating,
			"rating_version":   dish.RatingVersion + 1,
			"total_ratings":    gorm.Expr("total_ratings + 1"),
			"last_reviewed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRatingConflict
	}
	return nil
}
