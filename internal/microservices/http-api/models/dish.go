package models

import "time"

type Dish struct {
	ID           int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug         string `json:"slug" gorm:"uniqueIndex:idx_dish_hall_slug;size:200;not null"`
	DiningHallID int64  `json:"dining_hall_id" gorm:"uniqueIndex:idx_dish_hall_slug;not null;index"`
	Name         string `json:"name" gorm:"not null"`
	Category     string `json:"category" gorm:"not null;check:category IN ('dining_court','retail')"`

	// Rating is the internal pairwise-ranking score. NULL until the dish
	// receives its first review; only the ranking engine writes it after
	// that. RatingVersion is the optimistic-lock counter guarding
	// concurrent rating updates.
	Rating        *float64 `json:"rating,omitempty"`
	RatingVersion int64    `json:"-" gorm:"not null;default:0"`
	TotalRatings  int      `json:"total_ratings" gorm:"not null;default:0"`

	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	DiningHall DiningHall `json:"dining_hall,omitempty" gorm:"foreignKey:DiningHallID;constraint:OnDelete:CASCADE;"`
}

func (Dish) TableName() string {
	return "dishes"
}
