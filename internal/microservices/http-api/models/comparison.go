package models

import "time"

// Comparison records that a user judged one unordered dish pair. PairKey is
// the canonical sorted "a_b" form of the two dish IDs; the unique index on
// (user_id, pair_key) enforces at-most-once per user. Rows are append-only.
type Comparison struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_pair"`
	PairKey  string `json:"pair_key" gorm:"size:64;not null;uniqueIndex:idx_user_pair"`
	WinnerID int64  `json:"winner_id" gorm:"not null;index"`
	LoserID  int64  `json:"loser_id" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User   User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Winner Dish `json:"winner,omitempty" gorm:"foreignKey:WinnerID;constraint:OnDelete:CASCADE;"`
	Loser  Dish `json:"loser,omitempty" gorm:"foreignKey:LoserID;constraint:OnDelete:CASCADE;"`
}

func (Comparison) TableName() string {
	return "comparisons"
}
