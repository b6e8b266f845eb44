package rating_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"

	"github.com/ligavoley/voleyapi/rating"
)

func newTestRecalculator(f *fakeLeague, cfg rating.FormulaConfig) *rating.Recalculator {
	return rating.NewRecalculator(newTestEngine(f, cfg), f, base, zap.NewNop())
}

func copyRatings(m map[int64]float64) map[int64]float64 {
	out := make(map[int64]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// twoMatchSeason builds season 1 with matches 1 and 2 over the same twelve
// players, so ratings compound across the season.
func twoMatchSeason() *fakeLeague {
	league := newFakeLeague()
	league.addMatch(1, 1, 1,
		rating.SetResult{ID: 10, Team1Score: intp(25), Team2Score: intp(18), Winner: 1, Order: 1},
		rating.SetResult{ID: 11, Team1Score: intp(20), Team2Score: intp(25), Winner: 2, Order: 2})
	league.addMatch(2, 1, 1,
		rating.SetResult{ID: 20, Team1Score: intp(25), Team2Score: intp(22), Winner: 1, Order: 1})
	return league
}

func TestRecalculate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a season of two matches over the same players", t, func() {
		Convey("When the season is recalculated twice with no new matches", func() {
			league := twoMatchSeason()
			recalc := newTestRecalculator(league, rating.MarginFormula())

			So(recalc.Recalculate(ctx, 1), ShouldBeNil)
			firstRatings := copyRatings(league.ratings)
			firstHistory := append([]rating.Change{}, league.history...)

			So(recalc.Recalculate(ctx, 1), ShouldBeNil)

			Convey("Then ratings and history are identical", func() {
				So(league.ratings, ShouldResemble, firstRatings)
				So(league.history, ShouldResemble, firstHistory)
			})
		})

		Convey("When stale history exists from an earlier run", func() {
			league := twoMatchSeason()
			league.history = []rating.Change{{PlayerID: 1, SetID: 10, Delta: 999}}
			recalc := newTestRecalculator(league, rating.MarginFormula())

			So(recalc.Recalculate(ctx, 1), ShouldBeNil)

			Convey("Then the wipe removed it and only recomputed rows remain", func() {
				// 12 players × 3 processed sets
				So(league.history, ShouldHaveLength, 36)
				for _, row := range league.history {
					So(row.Delta, ShouldNotAlmostEqual, 999, 1)
				}
			})
		})

		Convey("When participants drifted and outsiders exist", func() {
			league := twoMatchSeason()
			league.ratings[1] = 1500 // participant with a stale rating
			league.ratings[99] = 1234
			recalc := newTestRecalculator(league, rating.MarginFormula())

			reference := twoMatchSeason()
			refRecalc := newTestRecalculator(reference, rating.MarginFormula())
			So(refRecalc.Recalculate(ctx, 1), ShouldBeNil)

			So(recalc.Recalculate(ctx, 1), ShouldBeNil)

			Convey("Then participants were reset to base before the replay", func() {
				So(league.ratings[1], ShouldAlmostEqual, reference.ratings[1], 1e-9)
			})

			Convey("And players outside the season keep their rating", func() {
				So(league.ratings[99], ShouldEqual, 1234)
			})
		})

		Convey("When match ids arrive out of order", func() {
			league := twoMatchSeason()
			league.seasons[1] = []int64{2, 1}
			recalc := newTestRecalculator(league, rating.MarginFormula())

			reference := twoMatchSeason()
			refRecalc := newTestRecalculator(reference, rating.MarginFormula())
			So(refRecalc.Recalculate(ctx, 1), ShouldBeNil)

			So(recalc.Recalculate(ctx, 1), ShouldBeNil)

			Convey("Then the replay still runs in ascending match-id order", func() {
				So(league.ratings, ShouldResemble, reference.ratings)
			})
		})

		Convey("When the season has no matches", func() {
			league := newFakeLeague()
			recalc := newTestRecalculator(league, rating.MarginFormula())
			err := recalc.Recalculate(ctx, 7)

			Convey("Then it fails with the no-data kind", func() {
				So(errors.Is(err, rating.ErrNoData), ShouldBeTrue)
			})
		})

		Convey("When a replayed match is broken mid-season", func() {
			league := twoMatchSeason()
			league.teams[2][1].Players = league.teams[2][1].Players[:4]
			recalc := newTestRecalculator(league, rating.MarginFormula())
			err := recalc.Recalculate(ctx, 1)

			Convey("Then the error propagates with its kind intact", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, rating.ErrValidation), ShouldBeTrue)
			})
		})
	})
}
