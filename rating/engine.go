package rating

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// RosterPlayer is one player as loaded for a match: the rating is the
// player's current stored value at load time.
type RosterPlayer struct {
	ID     int64
	Name   string
	Rating float64
}

// TeamRoster is one side of a match with its lineup in slot order.
type TeamRoster struct {
	Number  int
	Players []RosterPlayer
}

// SetResult is one set as loaded for a match. Scores may be nil for
// historical entries that recorded only the winner.
type SetResult struct {
	ID              int64
	Team1Score      *int
	Team2Score      *int
	Winner          int
	IgnoreForRating bool
	Order           int
}

// Change is one history row: the signed delta a player received for a set.
type Change struct {
	PlayerID int64
	SetID    int64
	Delta    float64
}

// PlayerRating is one final rating to persist after a match.
type PlayerRating struct {
	PlayerID int64
	Rating   float64
}

// RosterSource loads the two teams of a match with their lineups and each
// player's current rating.
type RosterSource interface {
	TeamsWithRoster(ctx context.Context, matchID int64) ([]TeamRoster, error)
}

// SetSource loads a match's sets ascending by order index, then id.
type SetSource interface {
	SetsOrdered(ctx context.Context, matchID int64) ([]SetResult, error)
}

// HistoryWriter persists and wipes append-only rating history rows.
type HistoryWriter interface {
	AppendHistory(ctx context.Context, rows []Change) error
	DeleteHistory(ctx context.Context, setIDs []int64) error
}

// RatingStore persists final player ratings and resets them for a replay.
type RatingStore interface {
	UpsertRatings(ctx context.Context, rows []PlayerRating) error
	ResetRatings(ctx context.Context, base float64, playerIDs []int64) error
}

// Engine runs the rating update for one match at a time.
type Engine struct {
	mu         sync.Mutex
	formula    FormulaConfig
	rosterSize int
	roster     RosterSource
	sets       SetSource
	history    HistoryWriter
	ratings    RatingStore
	log        *zap.Logger
}

// NewEngine wires an engine. rosterSize is the fixed number of players per
// team; every loaded roster is validated against it.
func NewEngine(formula FormulaConfig, rosterSize int, roster RosterSource, sets SetSource, history HistoryWriter, ratings RatingStore, log *zap.Logger) *Engine {
	return &Engine{
		formula:    formula,
		rosterSize: rosterSize,
		roster:     roster,
		sets:       sets,
		history:    history,
		ratings:    ratings,
		log:        log,
	}
}

// ProcessMatch loads a match's rosters and sets, applies the per-set rating
// update in set order, appends one history row per player per processed set
// and upserts the end-of-match rating of every involved player.
//
// Set processing is strictly sequential: each set's team averages are taken
// from ratings already mutated by the previous sets of the same match. Sets
// flagged ignore-for-rating are skipped completely (no mutation, no history,
// no effect on averages).
//
// Calls are serialized on the engine, so overlapping ProcessMatch or
// Recalculate invocations cannot interleave. Writes happen after all sets
// are computed; if the rating upsert fails after the history append
// succeeded, stored history and stored ratings disagree until the next
// season recalculation.
func (e *Engine) ProcessMatch(ctx context.Context, matchID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processMatchLocked(ctx, matchID)
}

func (e *Engine) processMatchLocked(ctx context.Context, matchID int64) error {
	teams, err := e.roster.TeamsWithRoster(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load roster for match %d: %w", matchID, err)
	}
	if len(teams) == 0 {
		return fmt.Errorf("match %d has no teams: %w", matchID, ErrNoData)
	}
	team1, team2, err := e.splitTeams(matchID, teams)
	if err != nil {
		return err
	}

	sets, err := e.sets.SetsOrdered(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load sets for match %d: %w", matchID, err)
	}
	if len(sets) == 0 {
		return fmt.Errorf("match %d has no sets: %w", matchID, ErrNoData)
	}

	// Working set of current ratings, separate from the loaded snapshot.
	// All mutation during the match happens here.
	current := make(map[int64]float64, 2*e.rosterSize)
	for _, p := range team1.Players {
		current[p.ID] = p.Rating
	}
	for _, p := range team2.Players {
		current[p.ID] = p.Rating
	}

	history := make([]Change, 0, len(sets)*2*e.rosterSize)
	processed := 0
	for _, s := range sets {
		if s.IgnoreForRating {
			e.log.Debug("set ignored for rating",
				zap.Int64("match", matchID), zap.Int64("set", s.ID))
			continue
		}
		if s.Winner != 1 && s.Winner != 2 {
			return fmt.Errorf("match %d set %d winner %d: %w", matchID, s.ID, s.Winner, ErrValidation)
		}

		avg1 := teamAverage(team1.Players, current)
		avg2 := teamAverage(team2.Players, current)
		d1, d2 := e.formula.SetDeltas(avg1, avg2, s.Team1Score, s.Team2Score, s.Winner)

		for _, p := range team1.Players {
			current[p.ID] += d1
			history = append(history, Change{PlayerID: p.ID, SetID: s.ID, Delta: d1})
		}
		for _, p := range team2.Players {
			current[p.ID] += d2
			history = append(history, Change{PlayerID: p.ID, SetID: s.ID, Delta: d2})
		}
		processed++
	}

	if len(history) > 0 {
		if err := e.history.AppendHistory(ctx, history); err != nil {
			return fmt.Errorf("append history for match %d: %w: %v", matchID, ErrPersistence, err)
		}
	}

	final := make([]PlayerRating, 0, len(current))
	for _, p := range team1.Players {
		final = append(final, PlayerRating{PlayerID: p.ID, Rating: current[p.ID]})
	}
	for _, p := range team2.Players {
		final = append(final, PlayerRating{PlayerID: p.ID, Rating: current[p.ID]})
	}
	if err := e.ratings.UpsertRatings(ctx, final); err != nil {
		return fmt.Errorf("upsert ratings for match %d: %w: %v", matchID, ErrPersistence, err)
	}

	e.log.Info("match processed",
		zap.Int64("match", matchID),
		zap.Int("sets", processed),
		zap.Int("skipped", len(sets)-processed))
	return nil
}

// splitTeams validates the loaded teams and returns them as (team1, team2).
func (e *Engine) splitTeams(matchID int64, teams []TeamRoster) (TeamRoster, TeamRoster, error) {
	var none TeamRoster
	if len(teams) != 2 {
		return none, none, fmt.Errorf("match %d has %d teams, want 2: %w", matchID, len(teams), ErrValidation)
	}
	team1, team2 := teams[0], teams[1]
	if team1.Number == 2 && team2.Number == 1 {
		team1, team2 = team2, team1
	}
	if team1.Number != 1 || team2.Number != 2 {
		return none, none, fmt.Errorf("match %d team numbers %d/%d, want 1/2: %w",
			matchID, teams[0].Number, teams[1].Number, ErrValidation)
	}
	for _, t := range []TeamRoster{team1, team2} {
		if len(t.Players) != e.rosterSize {
			return none, none, fmt.Errorf("match %d team %d has %d players, want %d: %w",
				matchID, t.Number, len(t.Players), e.rosterSize, ErrValidation)
		}
	}
	return team1, team2, nil
}

// teamAverage is the mean of the team's current (possibly already mutated
// within this match) ratings.
func teamAverage(players []RosterPlayer, current map[int64]float64) float64 {
	sum := 0.0
	for _, p := range players {
		sum += current[p.ID]
	}
	return sum / float64(len(players))
}
