// Package store implements the rating repositories on PostgreSQL via bun.
package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/ligavoley/voleyapi/models"
	"github.com/ligavoley/voleyapi/rating"
)

// Store adapts a bun connection to every repository interface the rating
// package consumes.
type Store struct {
	db *bun.DB
}

// New creates a Store on the given database handle.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// TeamsWithRoster loads a match's teams ordered by team number, each with
// its lineup in slot order and every player's current stored rating.
func (s *Store) TeamsWithRoster(ctx context.Context, matchID int64) ([]rating.TeamRoster, error) {
	var teams []models.Team
	err := s.db.NewSelect().Model(&teams).
		Where("t.match_id = ?", matchID).
		Order("t.team_number").
		Relation("Roster", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("tp.slot")
		}).
		Relation("Roster.Player").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]rating.TeamRoster, 0, len(teams))
	for _, t := range teams {
		tr := rating.TeamRoster{Number: t.Number}
		for _, tp := range t.Roster {
			if tp.Player == nil {
				return nil, fmt.Errorf("team %d slot %d references missing player %d", t.ID, tp.Slot, tp.PlayerID)
			}
			tr.Players = append(tr.Players, rating.RosterPlayer{
				ID:     tp.Player.ID,
				Name:   tp.Player.Name,
				Rating: tp.Player.Rating,
			})
		}
		out = append(out, tr)
	}
	return out, nil
}

// SetsOrdered loads a match's sets ascending by order index, then id.
func (s *Store) SetsOrdered(ctx context.Context, matchID int64) ([]rating.SetResult, error) {
	var sets []models.Set
	err := s.db.NewSelect().Model(&sets).
		Where("s.match_id = ?", matchID).
		Order("s.set_order", "s.id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]rating.SetResult, 0, len(sets))
	for _, set := range sets {
		out = append(out, rating.SetResult{
			ID:              set.ID,
			Team1Score:      set.Team1Score,
			Team2Score:      set.Team2Score,
			Winner:          set.Winner,
			IgnoreForRating: set.IgnoreForRating,
			Order:           set.Order,
		})
	}
	return out, nil
}

// AppendHistory bulk-inserts rating history rows.
func (s *Store) AppendHistory(ctx context.Context, rows []rating.Change) error {
	if len(rows) == 0 {
		return nil
	}
	records := make([]models.RatingChange, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.RatingChange{
			PlayerID: row.PlayerID,
			SetID:    row.SetID,
			Delta:    row.Delta,
		})
	}
	_, err := s.db.NewInsert().Model(&records).Exec(ctx)
	return err
}

// DeleteHistory removes every history row belonging to the given sets.
func (s *Store) DeleteHistory(ctx context.Context, setIDs []int64) error {
	if len(setIDs) == 0 {
		return nil
	}
	_, err := s.db.NewDelete().Model((*models.RatingChange)(nil)).
		Where("set_id IN (?)", bun.In(setIDs)).
		Exec(ctx)
	return err
}

// UpsertRatings writes end-of-match ratings. Players are created at
// registration time, so the upsert degenerates to per-player updates
// inside one transaction.
func (s *Store) UpsertRatings(ctx context.Context, rows []rating.PlayerRating) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx,
			`UPDATE players SET rating = ? WHERE id = ?`, row.Rating, row.PlayerID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ResetRatings sets the given players back to the base rating. Players
// already at base are left untouched.
func (s *Store) ResetRatings(ctx context.Context, base float64, playerIDs []int64) error {
	if len(playerIDs) == 0 {
		return nil
	}
	_, err := s.db.NewUpdate().Model((*models.Player)(nil)).
		Set("rating = ?", base).
		Where("id IN (?)", bun.In(playerIDs)).
		Where("rating <> ?", base).
		Exec(ctx)
	return err
}

// MatchIDsForSeason lists a season's match ids ascending.
func (s *Store) MatchIDsForSeason(ctx context.Context, seasonID int64) ([]int64, error) {
	var ids []int64
	err := s.db.NewSelect().Model((*models.Match)(nil)).
		Column("id").
		Where("season_id = ?", seasonID).
		Order("id").
		Scan(ctx, &ids)
	return ids, err
}

// SetIDsForMatches lists every set id belonging to the given matches.
func (s *Store) SetIDsForMatches(ctx context.Context, matchIDs []int64) ([]int64, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := s.db.NewSelect().Model((*models.Set)(nil)).
		Column("id").
		Where("match_id IN (?)", bun.In(matchIDs)).
		Order("id").
		Scan(ctx, &ids)
	return ids, err
}

// PlayerIDsForMatches lists the distinct players rostered in the given
// matches.
func (s *Store) PlayerIDsForMatches(ctx context.Context, matchIDs []int64) ([]int64, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := s.db.NewSelect().Model((*models.TeamPlayer)(nil)).
		ColumnExpr("DISTINCT tp.player_id").
		Join("JOIN teams AS t ON t.id = tp.team_id").
		Where("t.match_id IN (?)", bun.In(matchIDs)).
		Scan(ctx, &ids)
	return ids, err
}
