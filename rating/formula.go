// Package rating implements the league's Elo-style skill model: the pure
// per-set formula, the match engine that applies it, and the season
// recalculation that replays matches from a clean slate.
//
// The formula follows the standard logistic expectation
//
//	E_a = 1 / (1 + 10^((avg_b - avg_a)/D))
//
// over team average ratings, with a configurable update magnitude (K).
// Two K strategies exist in the league's history and both are kept as
// named configurations rather than picking one silently.
package rating

import (
	"fmt"
	"math"
)

// KStrategy selects how the update magnitude for a set is computed.
type KStrategy string

const (
	// KMargin scales a fixed K by the set's score ratio: a 25-10 blowout
	// moves ratings more than a 25-23 squeaker. Both sides get the same K.
	KMargin KStrategy = "margin"

	// KRatingGap starts from a base K when the team averages are level and
	// saturates toward a bound as the gap grows: an underdog win is worth
	// more, a favorite win less.
	KRatingGap KStrategy = "gap"
)

// FormulaConfig holds every parameter of the per-set update. It is plain
// data so a config file or test can describe a formula completely.
type FormulaConfig struct {
	// Divisor is D in the logistic expectation. The league has used 400
	// and 600; larger values flatten the win probability curve.
	Divisor  float64
	Strategy KStrategy

	// KMargin parameters: K = MarginK * (winnerScore/loserScore)^MarginExponent.
	MarginK        float64
	MarginExponent float64

	// KRatingGap parameters. GapKBase applies at zero gap; the factor
	// 1 - exp(-GapDecay*gap) moves K toward GapKMax (underdog won) or
	// GapKMin (favorite won).
	GapKMin  float64
	GapKBase float64
	GapKMax  float64
	GapDecay float64
}

// MarginFormula returns the score-margin variant with the league's
// historical constants.
func MarginFormula() FormulaConfig {
	return FormulaConfig{
		Divisor:        400,
		Strategy:       KMargin,
		MarginK:        20,
		MarginExponent: 0.20,
	}
}

// RatingGapFormula returns the rating-gap variant with the league's
// historical constants.
func RatingGapFormula() FormulaConfig {
	return FormulaConfig{
		Divisor:  400,
		Strategy: KRatingGap,
		GapKMin:  7,
		GapKBase: 13.5,
		GapKMax:  20,
		GapDecay: 0.01,
	}
}

// Validate reports the first structural problem with the config.
func (c FormulaConfig) Validate() error {
	if c.Divisor <= 0 {
		return fmt.Errorf("divisor must be positive, got %v", c.Divisor)
	}
	switch c.Strategy {
	case KMargin:
		if c.MarginK <= 0 {
			return fmt.Errorf("margin K must be positive, got %v", c.MarginK)
		}
		if c.MarginExponent < 0 {
			return fmt.Errorf("margin exponent must not be negative, got %v", c.MarginExponent)
		}
	case KRatingGap:
		if c.GapKMin <= 0 || c.GapKBase < c.GapKMin || c.GapKMax < c.GapKBase {
			return fmt.Errorf("gap K bounds must satisfy 0 < min <= base <= max, got %v/%v/%v",
				c.GapKMin, c.GapKBase, c.GapKMax)
		}
		if c.GapDecay <= 0 {
			return fmt.Errorf("gap decay must be positive, got %v", c.GapDecay)
		}
	default:
		return fmt.Errorf("unknown K strategy %q", c.Strategy)
	}
	return nil
}

// Expected returns the logistic win expectations for both teams given
// their average ratings. The two values always sum to 1; equal averages
// give 0.5 each.
func (c FormulaConfig) Expected(avg1, avg2 float64) (e1, e2 float64) {
	e1 = 1 / (1 + math.Pow(10, (avg2-avg1)/c.Divisor))
	return e1, 1 - e1
}

// SetDeltas returns the signed rating delta for every player on team 1 and
// team 2 for one set. Every player on a side receives that side's delta:
// K*(1-E) for the winners, K*(0-E) for the losers.
func (c FormulaConfig) SetDeltas(avg1, avg2 float64, score1, score2 *int, winner int) (d1, d2 float64) {
	e1, e2 := c.Expected(avg1, avg2)
	k := c.kFactor(avg1, avg2, score1, score2, winner)
	if winner == 1 {
		return k * (1 - e1), k * (0 - e2)
	}
	return k * (0 - e1), k * (1 - e2)
}

func (c FormulaConfig) kFactor(avg1, avg2 float64, score1, score2 *int, winner int) float64 {
	switch c.Strategy {
	case KMargin:
		s1, s2 := scoreOrOne(score1), scoreOrOne(score2)
		ratio := s1 / s2
		if winner == 2 {
			ratio = s2 / s1
		}
		return c.MarginK * math.Pow(ratio, c.MarginExponent)
	case KRatingGap:
		gap := math.Abs(avg1 - avg2)
		saturation := 1 - math.Exp(-c.GapDecay*gap)
		favorite := 1
		if avg2 > avg1 {
			favorite = 2
		}
		if winner == favorite || gap == 0 {
			return c.GapKBase - (c.GapKBase-c.GapKMin)*saturation
		}
		return c.GapKBase + (c.GapKMax-c.GapKBase)*saturation
	}
	return 0
}

// scoreOrOne guards the margin ratio: a missing or non-positive score
// counts as 1 so the ratio stays defined.
func scoreOrOne(s *int) float64 {
	if s == nil || *s <= 0 {
		return 1
	}
	return float64(*s)
}
