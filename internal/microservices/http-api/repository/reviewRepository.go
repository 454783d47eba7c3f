package repository

import (
	"context"
	"fmt"

	"apero/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByDish(ctx context.Context, dishID int64, page, pageSize int) ([]models.Review, int64, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) ListByDish(ctx context.Context, dishID int64, page, pageSize int) ([]models.Review, int64, error) {
	return r.list(ctx, "dish_id = ?", dishID, page, pageSize, "User")
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Review, int64, error) {
	return r.list(ctx, "user_id = ?", userID, page, pageSize, "Dish")
}

func (r *reviewRepository) list(ctx context.Context, cond string, arg any, page, pageSize int, preload string) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where(cond, arg)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	offset := (page - 1) * pageSize
	err := q.Preload(preload).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}
