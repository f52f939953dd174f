package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/cricsim/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBattingRecord_Normalize(t *testing.T) {
	Convey("Given a batting record", t, func() {
		Convey("When it is complete", func() {
			r := model.BattingRecord{Player: "  V Kohli ", Average: model.Float(36.2), StrikeRate: model.Float(129.9), StartYear: 2008, EndYear: 2023}
			So(r.Normalize(), ShouldBeNil)

			Convey("Then the name is trimmed and career length derived", func() {
				So(r.Player, ShouldEqual, "V Kohli")
				So(r.CareerLength, ShouldEqual, 16)
			})
		})

		Convey("When career length is given it is kept", func() {
			r := model.BattingRecord{Player: "A", StartYear: 2008, EndYear: 2023, CareerLength: 3}
			So(r.Normalize(), ShouldBeNil)
			So(r.CareerLength, ShouldEqual, 3)
		})

		Convey("When it is invalid", func() {
			cases := []model.BattingRecord{
				{Player: " "},
				{Player: "A", Runs: -1},
				{Player: "A", Average: model.Float(math.NaN())},
				{Player: "A", StrikeRate: model.Float(-3)},
				{Player: "A", StartYear: 2020, EndYear: 2010},
			}
			for _, r := range cases {
				err := r.Normalize()
				So(errors.Is(err, model.ErrInvalidRecord), ShouldBeTrue)
			}
		})
	})
}

func TestBowlingRecord_Normalize(t *testing.T) {
	Convey("Given a bowling record", t, func() {
		Convey("When years are known and career length is not", func() {
			r := model.BowlingRecord{Player: "JJ Bumrah", Wickets: model.Int(195), StartYear: 2013, EndYear: 2023}
			So(r.Normalize(), ShouldBeNil)
			So(*r.CareerLength, ShouldEqual, 11)
		})

		Convey("When years are unknown career length stays missing", func() {
			r := model.BowlingRecord{Player: "X"}
			So(r.Normalize(), ShouldBeNil)
			So(r.CareerLength, ShouldBeNil)
		})

		Convey("When counts are negative", func() {
			r := model.BowlingRecord{Player: "X", Wickets: model.Int(-1)}
			So(errors.Is(r.Normalize(), model.ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("When economy is infinite", func() {
			r := model.BowlingRecord{Player: "X", Economy: model.Float(math.Inf(1))}
			So(errors.Is(r.Normalize(), model.ErrInvalidRecord), ShouldBeTrue)
		})
	})
}
