package dto

import (
	"time"

	"apero/internal/microservices/http-api/models"
)

// CreateDishDTO for manually adding a dish that the menu sync missed.
type CreateDishDTO struct {
	Name           string `json:"name" binding:"required,min=2,max=200"`
	DiningHallSlug string `json:"dining_hall_slug" binding:"required"`
}

// DishResponse is the dish detail payload. DisplayScore is the 1-10
// fixed-range normalization of the internal rating; the raw rating is not
// exposed.
type DishResponse struct {
	ID             int64      `json:"id"`
	Slug           string     `json:"slug"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	DiningHall     string     `json:"dining_hall"`
	DisplayScore   float64    `json:"display_score"`
	Ranked         bool       `json:"ranked"`
	TotalRatings   int        `json:"total_ratings"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// FromModelToDishResponse converts a Dish model; the caller supplies the
// already-normalized display score.
func FromModelToDishResponse(dish *models.Dish, displayScore float64) *DishResponse {
	return &DishResponse{
		ID:             dish.ID,
		Slug:           dish.Slug,
		Name:           dish.Name,
		Category:       dish.Category,
		DiningHall:     dish.DiningHall.Name,
		DisplayScore:   displayScore,
		Ranked:         dish.Rating != nil,
		TotalRatings:   dish.TotalRatings,
		LastReviewedAt: dish.LastReviewedAt,
	}
}

// RankedDishResponse is one leaderboard row.
type RankedDishResponse struct {
	Rank         int     `json:"rank"`
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	DiningHall   string  `json:"dining_hall"`
	DisplayScore float64 `json:"display_score"`
}

// PaginatedDishResponse for returning paginated dish lists
type PaginatedDishResponse struct {
	Data       []DishResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func NewPaginatedDishResponse(data []DishResponse, total, page, pageSize int) *PaginatedDishResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return &PaginatedDishResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// DiningHallResponse for the locations list
type DiningHallResponse struct {
	ID         int64   `json:"id"`
	Slug       string  `json:"slug"`
	Name       string  `json:"name"`
	CampusArea *string `json:"campus_area,omitempty"`
	Kind       string  `json:"kind"`
}

func FromModelToDiningHallResponse(hall *models.DiningHall) *DiningHallResponse {
	return &DiningHallResponse{
		ID:         hall.ID,
		Slug:       hall.Slug,
		Name:       hall.Name,
		CampusArea: hall.CampusArea,
		Kind:       hall.Kind,
	}
}
