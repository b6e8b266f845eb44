package rating_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ligavoley/voleyapi/rating"
)

func intp(v int) *int { return &v }

func TestExpectedScore(t *testing.T) {
	Convey("Given the margin formula with divisor 400", t, func() {
		f := rating.MarginFormula()

		Convey("When the team averages are exactly equal", func() {
			e1, e2 := f.Expected(1000, 1000)

			Convey("Then both sides expect 0.5", func() {
				So(e1, ShouldEqual, 0.5)
				So(e2, ShouldEqual, 0.5)
			})
		})

		Convey("When team 1 is rated 400 points higher", func() {
			e1, e2 := f.Expected(1400, 1000)

			Convey("Then team 1 has 10-to-1 odds", func() {
				So(e1, ShouldAlmostEqual, 10.0/11.0, 1e-12)
				So(e1+e2, ShouldAlmostEqual, 1, 1e-12)
			})
		})

		Convey("When the divisor is raised to 600", func() {
			wide := f
			wide.Divisor = 600
			e400, _ := f.Expected(1200, 1000)
			e600, _ := wide.Expected(1200, 1000)

			Convey("Then the same gap yields an expectation closer to 0.5", func() {
				So(e600, ShouldBeGreaterThan, 0.5)
				So(e600, ShouldBeLessThan, e400)
			})
		})
	})
}

func TestMarginKStrategy(t *testing.T) {
	Convey("Given the margin formula", t, func() {
		f := rating.MarginFormula()

		Convey("When equal teams play a 21-10 set won by team 1", func() {
			d1, d2 := f.SetDeltas(1000, 1000, intp(21), intp(10), 1)

			Convey("Then the deltas are +K/2 and -K/2 with K = K0*(21/10)^p", func() {
				k := f.MarginK * math.Pow(21.0/10.0, f.MarginExponent)
				So(d1, ShouldAlmostEqual, k*0.5, 1e-12)
				So(d2, ShouldAlmostEqual, -k*0.5, 1e-12)
			})
		})

		Convey("When team 2 wins by the same margin", func() {
			d1, d2 := f.SetDeltas(1000, 1000, intp(10), intp(21), 2)

			Convey("Then the deltas mirror", func() {
				k := f.MarginK * math.Pow(21.0/10.0, f.MarginExponent)
				So(d1, ShouldAlmostEqual, -k*0.5, 1e-12)
				So(d2, ShouldAlmostEqual, k*0.5, 1e-12)
			})
		})

		Convey("When scores are missing", func() {
			d1, _ := f.SetDeltas(1000, 1000, nil, nil, 1)

			Convey("Then the ratio counts as 1 and K falls back to K0", func() {
				So(d1, ShouldAlmostEqual, f.MarginK*0.5, 1e-12)
			})
		})

		Convey("When the loser scored zero points", func() {
			d1, _ := f.SetDeltas(1000, 1000, intp(25), intp(0), 1)

			Convey("Then the zero counts as 1 and the delta stays finite", func() {
				k := f.MarginK * math.Pow(25.0, f.MarginExponent)
				So(d1, ShouldAlmostEqual, k*0.5, 1e-12)
			})
		})

		Convey("When a wider margin is played", func() {
			narrow1, _ := f.SetDeltas(1000, 1000, intp(25), intp(23), 1)
			wide1, _ := f.SetDeltas(1000, 1000, intp(25), intp(10), 1)

			Convey("Then the blowout moves ratings more", func() {
				So(wide1, ShouldBeGreaterThan, narrow1)
			})
		})
	})
}

func TestRatingGapKStrategy(t *testing.T) {
	Convey("Given the rating-gap formula", t, func() {
		f := rating.RatingGapFormula()

		Convey("When the averages are tied", func() {
			d1, d2 := f.SetDeltas(1000, 1000, intp(21), intp(15), 1)

			Convey("Then K is the base value", func() {
				So(d1, ShouldAlmostEqual, f.GapKBase*0.5, 1e-12)
				So(d2, ShouldAlmostEqual, -f.GapKBase*0.5, 1e-12)
			})
		})

		Convey("When the underdog wins versus when the favorite wins", func() {
			// Team 1 is the favorite in both sets; identical score margins.
			favD1, _ := f.SetDeltas(1100, 1000, intp(21), intp(15), 1)
			_, underD2 := f.SetDeltas(1100, 1000, intp(15), intp(21), 2)

			Convey("Then the underdog win moves ratings more", func() {
				So(math.Abs(underD2), ShouldBeGreaterThan, math.Abs(favD1))
			})
		})

		Convey("When the gap grows without bound", func() {
			_, d2 := f.SetDeltas(2500, 1000, intp(10), intp(21), 2)
			e1, _ := f.Expected(2500, 1000)

			Convey("Then K saturates below the upper bound", func() {
				// underdog won: delta2 = K*(1-E2) = K*E1
				k := d2 / e1
				So(k, ShouldBeLessThan, f.GapKMax)
				So(k, ShouldBeGreaterThan, f.GapKBase)
			})
		})
	})
}

func TestFormulaDeterminism(t *testing.T) {
	Convey("Given any formula config", t, func() {
		for _, f := range []rating.FormulaConfig{rating.MarginFormula(), rating.RatingGapFormula()} {
			Convey("When the same inputs are evaluated twice with strategy "+string(f.Strategy), func() {
				a1, a2 := f.SetDeltas(1042.375, 987.25, intp(25), intp(19), 1)
				b1, b2 := f.SetDeltas(1042.375, 987.25, intp(25), intp(19), 1)

				Convey("Then the results are bit-identical", func() {
					So(a1, ShouldEqual, b1)
					So(a2, ShouldEqual, b2)
				})
			})
		}
	})
}

func TestFormulaValidate(t *testing.T) {
	Convey("Given formula configs", t, func() {
		Convey("The shipped variants validate", func() {
			So(rating.MarginFormula().Validate(), ShouldBeNil)
			So(rating.RatingGapFormula().Validate(), ShouldBeNil)
		})

		Convey("A non-positive divisor is rejected", func() {
			f := rating.MarginFormula()
			f.Divisor = 0
			So(f.Validate(), ShouldNotBeNil)
		})

		Convey("Inverted gap bounds are rejected", func() {
			f := rating.RatingGapFormula()
			f.GapKMax = f.GapKMin - 1
			So(f.Validate(), ShouldNotBeNil)
		})

		Convey("An unknown strategy is rejected", func() {
			f := rating.MarginFormula()
			f.Strategy = "glicko"
			So(f.Validate(), ShouldNotBeNil)
		})
	})
}
