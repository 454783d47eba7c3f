package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"apero/database"
	"apero/internal/config"
	"apero/internal/ingestion/dining"
	"apero/internal/microservices/http-api/repository"
)

func main() {
	date := flag.String("date", time.Now().Format("2006-01-02"), "menu date to sync (YYYY-MM-DD)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall sync timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	syncService := dining.NewSyncService(dining.SyncConfig{
		APIURL:      cfg.DiningAPIURL,
		Courts:      cfg.DiningCourts,
		WorkerCount: cfg.SyncWorkers,
	}, repository.NewDiningHallRepository(db), repository.NewDishRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	count, err := syncService.SyncDate(ctx, *date)
	if err != nil {
		log.Fatalf("menu sync failed: %v", err)
	}
	logger.Info("menu sync complete", "date", *date, "dishes", count, "took", time.Since(start).String())
}
