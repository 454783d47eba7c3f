package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"apero/internal/microservices/http-api/dto"
	"apero/internal/microservices/http-api/models"
	"apero/internal/microservices/http-api/repository"
	"apero/internal/ranking"

	"gorm.io/gorm"
)

var ErrDiningHallNotFound = errors.New("dining hall not found")

// DishService is the read/browse side of the catalog plus manual dish
// creation. Display scores come from the ranking package: list views
// normalize against the displayed set, the detail view against the fixed
// assumed range.
type DishService interface {
	List(ctx context.Context, filter repository.DishFilter) (*dto.PaginatedDishResponse, error)
	Get(ctx context.Context, id int64) (*dto.DishResponse, error)
	Create(ctx context.Context, req dto.CreateDishDTO) (*dto.DishResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.RankedDishResponse, error)
	ListReviews(ctx context.Context, dishID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	ListDiningHalls(ctx context.Context) ([]dto.DiningHallResponse, error)
	GetDiningHall(ctx context.Context, slug string) (*dto.DiningHallResponse, error)
}

type dishService struct {
	dishRepo   repository.DishRepository
	hallRepo   repository.DiningHallRepository
	reviewRepo repository.ReviewRepository
	cache      *repository.RankingsCache
	policy     ranking.Policy
}

func NewDishService(
	dishRepo repository.DishRepository,
	hallRepo repository.DiningHallRepository,
	reviewRepo repository.ReviewRepository,
	cache *repository.RankingsCache,
	policy ranking.Policy,
) DishService {
	return &dishService{
		dishRepo:   dishRepo,
		hallRepo:   hallRepo,
		reviewRepo: reviewRepo,
		cache:      cache,
		policy:     policy,
	}
}

// List returns a dish page with population-relative display scores: the
// rated dishes on the page are stretched over the 1-10 scale, unrated ones
// pin to the neutral 5.0.
func (s *dishService) List(ctx context.Context, filter repository.DishFilter) (*dto.PaginatedDishResponse, error) {
	dishes, total, err := s.dishRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	minR, maxR := ratingSpread(dishes)
	responses := make([]dto.DishResponse, 0, len(dishes))
	for i := range dishes {
		dish := &dishes[i]
		score := 5.0
		if dish.Rating != nil {
			score = ranking.NormalizePopulation(*dish.Rating, minR, maxR)
		}
		responses = append(responses, *dto.FromModelToDishResponse(dish, score))
	}

	return dto.NewPaginatedDishResponse(responses, int(total), filter.Page, filter.PageSize), nil
}

// Get returns dish detail with the fixed-range display score, comparable
// across screens.
func (s *dishService) Get(ctx context.Context, id int64) (*dto.DishResponse, error) {
	dish, err := s.dishRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}
	return dto.FromModelToDishResponse(dish, s.policy.NormalizeFixed(dish.Rating)), nil
}

// Create manually registers a dish the menu sync does not know about. It
// starts unrated and joins the ranking pool once someone reviews it.
func (s *dishService) Create(ctx context.Context, req dto.CreateDishDTO) (*dto.DishResponse, error) {
	hall, err := s.hallRepo.GetBySlug(ctx, req.DiningHallSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiningHallNotFound
		}
		return nil, err
	}

	dish := &models.Dish{
		Slug:         slugify(req.Name),
		DiningHallID: hall.ID,
		Name:         req.Name,
		Category:     hall.Kind,
	}
	if err := s.dishRepo.Create(ctx, dish); err != nil {
		return nil, err
	}
	dish.DiningHall = *hall

	return dto.FromModelToDishResponse(dish, s.policy.NormalizeFixed(nil)), nil
}

// Leaderboard returns the ranked list, population-relative like the My List
// screen, cached in Redis for its TTL.
func (s *dishService) Leaderboard(ctx context.Context, limit int) ([]dto.RankedDishResponse, error) {
	if payload, hit, err := s.cache.Get(ctx); err == nil && hit {
		var cached []dto.RankedDishResponse
		if err := json.Unmarshal(payload, &cached); err == nil && len(cached) <= limit {
			return cached, nil
		}
	}

	dishes, err := s.dishRepo.ListRanked(ctx, limit)
	if err != nil {
		return nil, err
	}

	minR, maxR := ratingSpread(dishes)
	rows := make([]dto.RankedDishResponse, 0, len(dishes))
	for i := range dishes {
		dish := &dishes[i]
		rows = append(rows, dto.RankedDishResponse{
			Rank:         i + 1,
			ID:           dish.ID,
			Name:         dish.Name,
			DiningHall:   dish.DiningHall.Name,
			DisplayScore: ranking.NormalizePopulation(*dish.Rating, minR, maxR),
		})
	}

	if payload, err := json.Marshal(rows); err == nil {
		// Cache write failures only cost the next request a DB round trip.
		_ = s.cache.Set(ctx, payload)
	}
	return rows, nil
}

func (s *dishService) ListReviews(ctx context.Context, dishID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if _, err := s.dishRepo.GetByID(ctx, dishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByDish(ctx, dishID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedReviewResponse(responses, int(total), page, pageSize), nil
}

func (s *dishService) ListDiningHalls(ctx context.Context) ([]dto.DiningHallResponse, error) {
	halls, err := s.hallRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.DiningHallResponse, 0, len(halls))
	for i := range halls {
		responses = append(responses, *dto.FromModelToDiningHallResponse(&halls[i]))
	}
	return responses, nil
}

func (s *dishService) GetDiningHall(ctx context.Context, slug string) (*dto.DiningHallResponse, error) {
	hall, err := s.hallRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiningHallNotFound
		}
		return nil, err
	}
	return dto.FromModelToDiningHallResponse(hall), nil
}

// ratingSpread finds the min/max rating across the displayed set, ignoring
// unrated dishes.
func ratingSpread(dishes []models.Dish) (minR, maxR float64) {
	first := true
	for i := range dishes {
		r := dishes[i].Rating
		if r == nil {
			continue
		}
		if first {
			minR, maxR = *r, *r
			first = false
			continue
		}
		if *r < minR {
			minR = *r
		}
		if *r > maxR {
			maxR = *r
		}
	}
	return minR, maxR
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
