package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/ligavoley/voleyapi/config"
	"github.com/ligavoley/voleyapi/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Player)(nil),
		(*models.Season)(nil),
		(*models.Match)(nil),
		(*models.Team)(nil),
		(*models.TeamPlayer)(nil),
		(*models.Set)(nil),
		(*models.RatingChange)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'teams_one_number_per_match') THEN ALTER TABLE teams ADD CONSTRAINT teams_one_number_per_match UNIQUE (match_id, team_number); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'team_player_no_dupes') THEN ALTER TABLE team_player ADD CONSTRAINT team_player_no_dupes UNIQUE (team_id, player_id); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'sets_one_order_per_match') THEN ALTER TABLE sets ADD CONSTRAINT sets_one_order_per_match UNIQUE (match_id, set_order); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'rating_history_no_dupes') THEN ALTER TABLE rating_history ADD CONSTRAINT rating_history_no_dupes UNIQUE (player_id, set_id); END IF; END $$`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
