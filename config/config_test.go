package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ligavoley/voleyapi/rating"
)

func TestFormula(t *testing.T) {
	Convey("Given a config naming the margin formula", t, func() {
		c := &Config{RatingFormula: "margin"}

		Convey("When no overrides are set", func() {
			f, err := c.Formula()

			Convey("Then the historical constants apply", func() {
				So(err, ShouldBeNil)
				So(f, ShouldResemble, rating.MarginFormula())
			})
		})

		Convey("When a divisor override is set", func() {
			c.RatingDivisor = 600
			f, err := c.Formula()

			Convey("Then only the divisor changes", func() {
				So(err, ShouldBeNil)
				So(f.Divisor, ShouldEqual, 600)
				So(f.MarginK, ShouldEqual, rating.MarginFormula().MarginK)
			})
		})
	})

	Convey("Given a config naming the gap formula with overrides", t, func() {
		c := &Config{
			RatingFormula: "gap",
			GapKMax:       25,
			GapDecay:      0.02,
		}
		f, err := c.Formula()

		Convey("Then the overrides land on the gap parameters", func() {
			So(err, ShouldBeNil)
			So(f.Strategy, ShouldEqual, rating.KRatingGap)
			So(f.GapKMax, ShouldEqual, 25)
			So(f.GapDecay, ShouldEqual, 0.02)
			So(f.GapKMin, ShouldEqual, rating.RatingGapFormula().GapKMin)
		})
	})

	Convey("Given an unknown formula name", t, func() {
		c := &Config{RatingFormula: "trueskill"}
		_, err := c.Formula()

		Convey("Then Formula rejects it", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given an override that breaks validation", t, func() {
		c := &Config{RatingFormula: "gap", GapKMin: 50}
		_, err := c.Formula()

		Convey("Then the invalid bounds are rejected", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSplitTrimmed(t *testing.T) {
	Convey("Given a comma list with stray whitespace and empties", t, func() {
		out := splitTrimmed(" ligavoley.app, www.ligavoley.app ,,")

		Convey("Then only trimmed non-empty entries remain", func() {
			So(out, ShouldResemble, []string{"ligavoley.app", "www.ligavoley.app"})
		})
	})
}
