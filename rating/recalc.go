package rating

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// SeasonSource lists a season's matches and the rows that hang off them.
type SeasonSource interface {
	MatchIDsForSeason(ctx context.Context, seasonID int64) ([]int64, error)
	SetIDsForMatches(ctx context.Context, matchIDs []int64) ([]int64, error)
	PlayerIDsForMatches(ctx context.Context, matchIDs []int64) ([]int64, error)
}

// Recalculator rebuilds a season's ratings and history from scratch by
// replaying every match of the season through the engine.
type Recalculator struct {
	engine  *Engine
	seasons SeasonSource
	base    float64
	log     *zap.Logger
}

// NewRecalculator wires a recalculator. base is the rating participants are
// reset to before the replay.
func NewRecalculator(engine *Engine, seasons SeasonSource, base float64, log *zap.Logger) *Recalculator {
	return &Recalculator{engine: engine, seasons: seasons, base: base, log: log}
}

// Recalculate wipes the season's rating history, resets every player who
// appears in the season back to the base rating, and replays the season's
// matches in ascending match-id order (the order they were entered).
//
// The engine lock is held for the whole replay, so no other match can be
// processed mid-recalculation. Running it twice with no intervening match
// additions yields identical ratings and history. A failure partway through
// leaves a mix of reset and replayed ratings; the only recovery is a
// successful re-run.
func (r *Recalculator) Recalculate(ctx context.Context, seasonID int64) error {
	r.engine.mu.Lock()
	defer r.engine.mu.Unlock()

	matchIDs, err := r.seasons.MatchIDsForSeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("load matches for season %d: %w", seasonID, err)
	}
	if len(matchIDs) == 0 {
		return fmt.Errorf("season %d has no matches: %w", seasonID, ErrNoData)
	}
	sort.Slice(matchIDs, func(i, j int) bool { return matchIDs[i] < matchIDs[j] })

	setIDs, err := r.seasons.SetIDsForMatches(ctx, matchIDs)
	if err != nil {
		return fmt.Errorf("load sets for season %d: %w", seasonID, err)
	}
	if err := r.engine.history.DeleteHistory(ctx, setIDs); err != nil {
		return fmt.Errorf("wipe history for season %d: %w: %v", seasonID, ErrPersistence, err)
	}

	playerIDs, err := r.seasons.PlayerIDsForMatches(ctx, matchIDs)
	if err != nil {
		return fmt.Errorf("load participants for season %d: %w", seasonID, err)
	}
	if err := r.engine.ratings.ResetRatings(ctx, r.base, playerIDs); err != nil {
		return fmt.Errorf("reset ratings for season %d: %w: %v", seasonID, ErrPersistence, err)
	}

	for _, matchID := range matchIDs {
		if err := r.engine.processMatchLocked(ctx, matchID); err != nil {
			return fmt.Errorf("replay season %d: %w", seasonID, err)
		}
	}

	r.log.Info("season recalculated",
		zap.Int64("season", seasonID),
		zap.Int("matches", len(matchIDs)),
		zap.Int("players", len(playerIDs)))
	return nil
}
