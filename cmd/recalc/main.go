// cmd/recalc/main.go
// Replays a whole season through the rating engine: wipes the season's
// rating history, resets its participants to the base rating and processes
// every match again in entry order.
//
// Usage:
//
//	go run ./cmd/recalc -season 1
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/ligavoley/voleyapi/config"
	bundb "github.com/ligavoley/voleyapi/db"
	applog "github.com/ligavoley/voleyapi/logger"
	"github.com/ligavoley/voleyapi/models"
	"github.com/ligavoley/voleyapi/rating"
	"github.com/ligavoley/voleyapi/store"
)

func main() {
	seasonID := flag.Int64("season", 0, "season id to recalculate (required)")
	flag.Parse()

	if *seasonID <= 0 {
		log.Fatal("-season is required")
	}

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	formula, err := cfg.Formula()
	if err != nil {
		logger.Fatal("rating formula config", zap.Error(err))
	}

	db := bundb.Setup(cfg)
	defer db.Close()

	st := store.New(db)
	engine := rating.NewEngine(formula, cfg.RosterSize, st, st, st, st, logger)
	recalc := rating.NewRecalculator(engine, st, models.BaseRating, logger)

	if err := recalc.Recalculate(context.Background(), *seasonID); err != nil {
		logger.Fatal("recalculation failed", zap.Int64("season", *seasonID), zap.Error(err))
	}
}
