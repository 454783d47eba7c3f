package dining

import (
	"context"
	"log"
	"strings"
	"sync/atomic"

	"apero/internal/microservices/http-api/models"
	"apero/internal/microservices/http-api/repository"
)

// SyncService pulls daily menus from the campus dining API and registers
// their dishes in the catalog. Ingested dishes arrive unrated; they join the
// ranking pool only once a user reviews one.
type SyncService struct {
	client   *Client
	hallRepo repository.DiningHallRepository
	dishRepo repository.DishRepository

	courts      []string
	workerCount int
}

type SyncConfig struct {
	APIURL      string
	Courts      []string
	WorkerCount int
}

func NewSyncService(cfg SyncConfig, hallRepo repository.DiningHallRepository, dishRepo repository.DishRepository) *SyncService {
	workerCount := cfg.WorkerCount
	if workerCount == 0 {
		workerCount = 5
	}
	return &SyncService{
		client:      NewClient(cfg.APIURL),
		hallRepo:    hallRepo,
		dishRepo:    dishRepo,
		courts:      cfg.Courts,
		workerCount: workerCount,
	}
}

// SyncDate ingests every configured dining court's menu for one date
// (YYYY-MM-DD) and reports how many dishes were seen.
func (s *SyncService) SyncDate(ctx context.Context, date string) (int64, error) {
	var dishCount atomic.Int64

	pool := NewWorkerPool(s.workerCount)
	pool.Start()

	for _, court := range s.courts {
		court := court
		pool.Submit(func(taskCtx context.Context) error {
			n, err := s.syncCourt(taskCtx, court, date)
			if err != nil {
				return err
			}
			dishCount.Add(n)
			log.Printf("[MenuSync] %s: %d menu items", court, n)
			return nil
		})
	}

	pool.Wait()
	select {
	case <-ctx.Done():
		return dishCount.Load(), ctx.Err()
	default:
	}
	return dishCount.Load(), nil
}

func (s *SyncService) syncCourt(ctx context.Context, court, date string) (int64, error) {
	menu, err := s.client.GetLocationMenu(ctx, court, date)
	if err != nil {
		return 0, err
	}

	hall := &models.DiningHall{
		Slug: slugify(court) + "-dining-court",
		Name: court + " Dining Court",
		Kind: "dining_court",
	}
	if err := s.hallRepo.Upsert(ctx, hall); err != nil {
		return 0, err
	}

	if menu.DailyMenu == nil {
		return 0, nil
	}

	// The same item often shows up at several meals and stations; dedupe
	// per court so the upsert path is hit once per dish.
	seen := make(map[string]struct{})
	var count int64
	for _, meal := range menu.DailyMenu.Meals {
		for _, station := range meal.Stations {
			for _, item := range station.Items {
				if item.Item == nil || item.Item.Name == "" {
					continue
				}
				slug := slugify(item.Item.Name)
				if slug == "" {
					continue
				}
				if _, ok := seen[slug]; ok {
					continue
				}
				seen[slug] = struct{}{}

				dish := &models.Dish{
					Slug:         slug,
					DiningHallID: hall.ID,
					Name:         item.Item.Name,
					Category:     hall.Kind,
				}
				if err := s.dishRepo.UpsertMenuItem(ctx, dish); err != nil {
					return count, err
				}
				count++
			}
		}
	}
	return count, nil
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
