package models

import "time"

type DiningHall struct {
	ID         int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug       string  `json:"slug" gorm:"uniqueIndex;size:200;not null"`
	Name       string  `json:"name" gorm:"not null"`
	CampusArea *string `json:"campus_area,omitempty"`
	// Kind distinguishes all-you-care-to-eat dining courts from retail
	// locations; dishes inherit it as their display category.
	Kind      string    `json:"kind" gorm:"not null;default:'dining_court';check:kind IN ('dining_court','retail')"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Dishes []Dish `json:"dishes,omitempty" gorm:"foreignKey:DiningHallID"`
}

func (DiningHall) TableName() string {
	return "dining_halls"
}
