package repository

import (
	"context"
	"errors"
	"fmt"

	"apero/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type DiningHallRepository interface {
	List(ctx context.Context) ([]models.DiningHall, error)
	GetBySlug(ctx context.Context, slug string) (*models.DiningHall, error)
	Upsert(ctx context.Context, hall *models.DiningHall) error
}

type diningHallRepository struct {
	db *gorm.DB
}

func NewDiningHallRepository(db *gorm.DB) DiningHallRepository {
	return &diningHallRepository{db: db}
}

func (r *diningHallRepository) List(ctx context.Context) ([]models.DiningHall, error) {
	var halls []models.DiningHall
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&halls).Error; err != nil {
		return nil, err
	}
	return halls, nil
}

func (r *diningHallRepository) GetBySlug(ctx context.Context, slug string) (*models.DiningHall, error) {
	var hall models.DiningHall
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&hall).Error; err != nil {
		return nil, err
	}
	return &hall, nil
}

// Upsert creates the hall if its slug is new, otherwise fills in the
// existing row's ID so callers can attach dishes to it.
func (r *diningHallRepository) Upsert(ctx context.Context, hall *models.DiningHall) error {
	var existing models.DiningHall
	err := r.db.WithContext(ctx).Where("slug = ?", hall.Slug).First(&existing).Error
	if err == nil {
		hall.ID = existing.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := r.db.WithContext(ctx).Create(hall).Error; err != nil {
		return fmt.Errorf("upsert dining hall %q: %w", hall.Slug, err)
	}
	return nil
}
