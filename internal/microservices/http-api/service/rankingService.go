package service

import (
	"context"
	"errors"
	"time"

	"apero/internal/microservices/http-api/dto"
	"apero/internal/microservices/http-api/models"
	"apero/internal/microservices/http-api/repository"
	"apero/internal/ranking"

	"gorm.io/gorm"
)

var (
	ErrDishNotFound      = errors.New("dish not found")
	ErrSelfComparison    = errors.New("winner and loser must be different dishes")
	ErrPairAlreadyJudged = errors.New("pair already judged by this user")
	// ErrConcurrentUpdate surfaces after the bounded retry budget for
	// optimistic rating conflicts is spent; clients just retry the action.
	ErrConcurrentUpdate = errors.New("comparison lost repeated concurrent updates")
)

// RankingService is the write path of the ranking engine: seeding a dish
// from its first review, handing out comparison pairs, and applying
// preference judgments.
type RankingService interface {
	SubmitReview(ctx context.Context, userID, username string, dishID int64, req dto.CreateReviewDTO) (*dto.SubmitReviewResponse, error)
	NextPair(ctx context.Context, userID string, mustInclude int64) (*dto.NextPairResponse, error)
	RecordPreference(ctx context.Context, userID string, winnerID, loserID int64) (*dto.PreferenceResponse, error)
}

type rankingService struct {
	dishRepo       repository.DishRepository
	comparisonRepo repository.ComparisonRepository
	reviewRepo     repository.ReviewRepository
	policy         ranking.Policy
	rng            ranking.Source
}

func NewRankingService(
	dishRepo repository.DishRepository,
	comparisonRepo repository.ComparisonRepository,
	reviewRepo repository.ReviewRepository,
	policy ranking.Policy,
	rng ranking.Source,
) RankingService {
	return &rankingService{
		dishRepo:       dishRepo,
		comparisonRepo: comparisonRepo,
		reviewRepo:     reviewRepo,
		policy:         policy,
		rng:            rng,
	}
}

// SubmitReview records a user's first impression of a dish. The first
// review a dish ever receives seeds its rating from the sentiment; every
// later review only adds a note, and the dish's position keeps moving
// through comparisons instead. The response carries a comparison pair that
// includes the reviewed dish so the user's next action anchors it against
// the population.
func (s *rankingService) SubmitReview(ctx context.Context, userID, username string, dishID int64, req dto.CreateReviewDTO) (*dto.SubmitReviewResponse, error) {
	sentiment, err := ranking.ParseSentiment(req.Sentiment)
	if err != nil {
		return nil, err
	}

	dish, err := s.dishRepo.GetByID(ctx, dishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}

	var (
		seeded        bool
		initialRating *float64
	)
	if dish.Rating == nil {
		seed, err := s.policy.SeedRating(sentiment, s.rng)
		if err != nil {
			return nil, err
		}
		// The guarded update only lands while the rating is still NULL,
		// so a racing review cannot reseed.
		seeded, err = s.dishRepo.SeedRating(ctx, dishID, seed)
		if err != nil {
			return nil, err
		}
		if seeded {
			initialRating = &seed
		}
	}

	review := &models.Review{
		UserID:        userID,
		DishID:        dishID,
		Sentiment:     string(sentiment),
		Tags:          dto.JoinTags(req.Tags),
		InitialRating: initialRating,
	}
	if req.Note != "" {
		note := req.Note
		review.Note = &note
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	nextPair, err := s.NextPair(ctx, userID, dishID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromModelToReviewResponse(review)
	resp.Username = username
	return &dto.SubmitReviewResponse{
		Review:   *resp,
		Seeded:   seeded,
		NextPair: nextPair,
	}, nil
}

// NextPair selects an unjudged comparison pair for the user. mustInclude
// (0 = none) forces the pair to contain a specific dish, used right after
// seeding. Empty outcomes are reported in the response status, not as
// errors.
func (s *rankingService) NextPair(ctx context.Context, userID string, mustInclude int64) (*dto.NextPairResponse, error) {
	eligible, err := s.dishRepo.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	judged, err := s.comparisonRepo.ListPairKeys(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(eligible))
	byID := make(map[int64]*models.Dish, len(eligible))
	for i := range eligible {
		ids[i] = eligible[i].ID
		byID[eligible[i].ID] = &eligible[i]
	}

	pair, outcome := s.policy.SelectPair(ids, judged, mustInclude, s.rng)
	switch outcome {
	case ranking.InsufficientPopulation:
		return &dto.NextPairResponse{Status: dto.PairStatusInsufficientPopulation}, nil
	case ranking.NoUnjudgedPair:
		return &dto.NextPairResponse{Status: dto.PairStatusExhausted}, nil
	}

	return &dto.NextPairResponse{
		Status: dto.PairStatusFound,
		DishA:  comparisonDish(byID[pair.First]),
		DishB:  comparisonDish(byID[pair.Second]),
	}, nil
}

// RecordPreference applies one judgment: both ratings move by the logistic
// expected-outcome model and the pair is recorded against the user, all in
// one transaction. Conflicting concurrent updates are retried against
// freshly read ratings up to the policy budget.
func (s *rankingService) RecordPreference(ctx context.Context, userID string, winnerID, loserID int64) (*dto.PreferenceResponse, error) {
	if winnerID == loserID {
		return nil, ErrSelfComparison
	}
	pairKey := ranking.PairKey(winnerID, loserID)

	var result *repository.ComparisonResult
	for attempt := 0; ; attempt++ {
		var err error
		result, err = s.dishRepo.ApplyComparison(ctx, winnerID, loserID, userID, pairKey,
			func(winner, loser *float64) (float64, float64) {
				u := s.policy.ApplyPreference(
					ratingOrDefault(winner, s.policy.BaseRating),
					ratingOrDefault(loser, s.policy.BaseRating),
				)
				return u.Winner, u.Loser
			})
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrRatingConflict) {
			if attempt+1 >= s.policy.ConflictRetries {
				return nil, ErrConcurrentUpdate
			}
			time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
			continue
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPairAlreadyJudged
		}
		return nil, err
	}

	resp := &dto.PreferenceResponse{
		WinnerID:           winnerID,
		LoserID:            loserID,
		WinnerDisplayScore: s.policy.NormalizeFixed(&result.WinnerRating),
		LoserDisplayScore:  s.policy.NormalizeFixed(&result.LoserRating),
	}

	// Chain the next pair; failing to find one should not fail the judgment.
	if next, err := s.NextPair(ctx, userID, 0); err == nil {
		resp.NextPair = next
	}
	return resp, nil
}

func comparisonDish(dish *models.Dish) *dto.ComparisonDishDTO {
	return &dto.ComparisonDishDTO{
		ID:         dish.ID,
		Name:       dish.Name,
		Category:   dish.Category,
		DiningHall: dish.DiningHall.Name,
	}
}

func ratingOrDefault(r *float64, def float64) float64 {
	if r == nil {
		return def
	}
	return *r
}
