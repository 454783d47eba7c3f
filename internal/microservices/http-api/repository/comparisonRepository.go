package repository

import (
	"context"

	"apero/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ComparisonRepository reads a user's judged-pair history. Writes happen
// inside DishRepository.ApplyComparison so the pair record commits in the
// same transaction as the rating updates.
type ComparisonRepository interface {
	ListPairKeys(ctx context.Context, userID string) (map[string]struct{}, error)
	CountForUser(ctx context.Context, userID string) (int64, error)
	ListForUser(ctx context.Context, userID string, page, pageSize int) ([]models.Comparison, int64, error)
}

type comparisonRepository struct {
	db *gorm.DB
}

func NewComparisonRepository(db *gorm.DB) ComparisonRepository {
	return &comparisonRepository{db: db}
}

// ListPairKeys returns the canonical keys of every pair the user has judged,
// as a set for O(1) exclusion lookups during pair selection.
func (r *comparisonRepository) ListPairKeys(ctx context.Context, userID string) (map[string]struct{}, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&models.Comparison{}).
		Where("user_id = ?", userID).
		Pluck("pair_key", &keys).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}

func (r *comparisonRepository) CountForUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comparison{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *comparisonRepository) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]models.Comparison, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&models.Comparison{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comparisons []models.Comparison
	offset := (page - 1) * pageSize
	err := q.Preload("Winner").Preload("Loser").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&comparisons).Error
	if err != nil {
		return nil, 0, err
	}
	return comparisons, total, nil
}
