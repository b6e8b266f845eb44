package rating

import "errors"

// Sentinel error kinds. Callers match them with errors.Is; the wrapped
// message carries the match/set specifics.
var (
	// ErrNoData marks a match with no roster or no sets. Fatal for that
	// match, nothing was written.
	ErrNoData = errors.New("no data for match")

	// ErrValidation marks malformed input: wrong team count, wrong roster
	// size, or a winner that is neither team.
	ErrValidation = errors.New("invalid match data")

	// ErrPersistence marks a failed history or rating write. Processing of
	// the current match stops; in-memory work already done is discarded.
	ErrPersistence = errors.New("persistence failed")
)
