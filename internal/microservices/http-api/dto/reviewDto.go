package dto

import (
	"time"

	"apero/internal/microservices/http-api/models"
)

// CreateReviewDTO for submitting a first impression of a dish.
type CreateReviewDTO struct {
	Sentiment string   `json:"sentiment" binding:"required"`
	Note      string   `json:"note,omitempty" binding:"max=500"`
	Tags      []string `json:"tags,omitempty"`
}

// ReviewResponse for returning review information
type ReviewResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Sentiment string    `json:"sentiment"`
	Note      *string   `json:"note,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	var tags []string
	if review.Tags != "" {
		tags = splitTags(review.Tags)
	}
	return &ReviewResponse{
		ID:        review.ID,
		Username:  review.User.Username,
		Sentiment: review.Sentiment,
		Note:      review.Note,
		Tags:      tags,
		CreatedAt: review.CreatedAt,
	}
}

// SubmitReviewResponse is returned from the review endpoint: the stored
// review plus the follow-up comparison that anchors a freshly seeded dish.
type SubmitReviewResponse struct {
	Review   ReviewResponse    `json:"review"`
	Seeded   bool              `json:"seeded"`
	NextPair *NextPairResponse `json:"next_pair,omitempty"`
}

// PaginatedReviewResponse for returning paginated reviews
type PaginatedReviewResponse struct {
	Data       []ReviewResponse `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

func NewPaginatedReviewResponse(data []ReviewResponse, total, page, pageSize int) *PaginatedReviewResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return &PaginatedReviewResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
