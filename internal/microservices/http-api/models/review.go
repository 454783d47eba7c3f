package models

import "time"

// Review is a user's qualitative take on a dish. The first review of a dish
// carries the seed rating the ranking engine derived from its sentiment;
// later reviews leave InitialRating nil and only add color.
type Review struct {
	ID        int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string  `json:"user_id" gorm:"type:uuid;not null;index"`
	DishID    int64   `json:"dish_id" gorm:"not null;index"`
	Sentiment string  `json:"sentiment" gorm:"size:10;not null;check:sentiment IN ('LOVE','MID','BAD')"`
	Note      *string `json:"note,omitempty"`
	// Tags is a comma-separated list of "why" tags (taste, value, portion...).
	Tags          string   `json:"tags,omitempty"`
	InitialRating *float64 `json:"initial_rating,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Dish Dish `json:"dish,omitempty" gorm:"foreignKey:DishID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
