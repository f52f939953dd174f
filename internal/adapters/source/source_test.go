package source_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/cricsim/internal/adapters/source"
	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeReader struct {
	err     error
	delay   time.Duration
	calls   atomic.Int32
	lastLim atomic.Int32
}

func (f *fakeReader) Batters(ctx context.Context, limit int) ([]model.BattingRecord, error) {
	f.calls.Add(1)
	f.lastLim.Store(int32(limit))
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []model.BattingRecord{{Player: "A", Average: model.Float(30), StrikeRate: model.Float(120)}}, nil
}

func (f *fakeReader) Bowlers(ctx context.Context, limit int) ([]model.BowlingRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []model.BowlingRecord{{Player: "B", Wickets: model.Int(10), Economy: model.Float(7), StrikeRate: model.Float(20)}}, nil
}

func TestSource(t *testing.T) {
	Convey("Given a healthy store", t, func() {
		r := &fakeReader{}
		s := source.New(r, source.WithLogger(logger.Nop()), source.WithLimit(50))

		Convey("Then records are returned", func() {
			batters, ok := s.Batters(context.Background())
			So(ok, ShouldBeTrue)
			So(batters, ShouldHaveLength, 1)
			So(r.lastLim.Load(), ShouldEqual, int32(50))

			bowlers, ok := s.Bowlers(context.Background())
			So(ok, ShouldBeTrue)
			So(bowlers, ShouldHaveLength, 1)
			So(s.BreakerStates()["batting"], ShouldEqual, "closed")
		})
	})

	Convey("Given a failing store", t, func() {
		r := &fakeReader{err: errors.New("connection refused")}
		s := source.New(r, source.WithLogger(logger.Nop()), source.WithBreaker(2, time.Minute))

		Convey("Then the fetch degrades to an empty population", func() {
			batters, ok := s.Batters(context.Background())
			So(ok, ShouldBeFalse)
			So(batters, ShouldBeEmpty)
		})

		Convey("Then the breaker opens after the threshold", func() {
			s.Batters(context.Background())
			s.Batters(context.Background())
			So(s.BreakerStates()["batting"], ShouldEqual, "open")

			s.Batters(context.Background())
			So(r.calls.Load(), ShouldEqual, int32(2))

			Convey("And the bowling breaker is independent", func() {
				So(s.BreakerStates()["bowling"], ShouldEqual, "closed")
			})
		})
	})

	Convey("Given a healthy store and callers that give up", t, func() {
		r := &fakeReader{}
		s := source.New(r, source.WithLogger(logger.Nop()), source.WithBreaker(2, time.Minute))

		Convey("Then cancelled calls do not open the breaker", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			for range 5 {
				batters, ok := s.Batters(ctx)
				So(ok, ShouldBeFalse)
				So(batters, ShouldBeEmpty)
			}
			So(s.BreakerStates()["batting"], ShouldEqual, "closed")

			batters, ok := s.Batters(context.Background())
			So(ok, ShouldBeTrue)
			So(batters, ShouldHaveLength, 1)
		})
	})

	Convey("Given a store call cancelled in flight", t, func() {
		r := &fakeReader{delay: time.Second}
		s := source.New(r, source.WithLogger(logger.Nop()), source.WithBreaker(1, time.Minute))

		Convey("Then the cancellation is not counted as a failure", func() {
			for range 3 {
				ctx, cancel := context.WithCancel(context.Background())
				go func() {
					time.Sleep(10 * time.Millisecond)
					cancel()
				}()
				_, ok := s.Batters(ctx)
				So(ok, ShouldBeFalse)
			}
			So(s.BreakerStates()["batting"], ShouldEqual, "closed")
			So(r.calls.Load(), ShouldEqual, int32(3))
		})
	})

	Convey("Given a slow store", t, func() {
		r := &fakeReader{delay: time.Second}
		s := source.New(r, source.WithLogger(logger.Nop()), source.WithTimeout(20*time.Millisecond))

		Convey("Then the fetch times out", func() {
			start := time.Now()
			_, ok := s.Batters(context.Background())
			So(ok, ShouldBeFalse)
			So(time.Since(start), ShouldBeLessThan, 500*time.Millisecond)
		})
	})
}
