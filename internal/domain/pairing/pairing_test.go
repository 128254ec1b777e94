package pairing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/pairing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNextPair(t *testing.T) {
	Convey("Given a seeded random selector", t, func() {
		ctx := context.Background()
		sel := pairing.NewRandomSelector(pairing.WithSeed(42))

		Convey("When there are no candidates", func() {
			_, _, err := sel.NextPair(ctx, nil, nil)

			Convey("Then it fails with ErrNotEnoughListings", func() {
				So(errors.Is(err, pairing.ErrNotEnoughListings), ShouldBeTrue)
			})
		})

		Convey("When there is a single candidate", func() {
			_, _, err := sel.NextPair(ctx, []string{"only"}, nil)

			Convey("Then it fails with ErrNotEnoughListings", func() {
				So(errors.Is(err, pairing.ErrNotEnoughListings), ShouldBeTrue)
			})
		})

		Convey("When the candidate list repeats one id", func() {
			_, _, err := sel.NextPair(ctx, []string{"dup", "dup", "dup"}, nil)

			Convey("Then duplicates do not count as distinct candidates", func() {
				So(errors.Is(err, pairing.ErrNotEnoughListings), ShouldBeTrue)
			})
		})

		Convey("When exactly two candidates exist", func() {
			Convey("Then it always returns that pair, in either order", func() {
				for i := 0; i < 50; i++ {
					a, b, err := sel.NextPair(ctx, []string{"x", "y"}, nil)
					So(err, ShouldBeNil)
					So(a, ShouldNotEqual, b)
					So(a, ShouldBeIn, []string{"x", "y"})
					So(b, ShouldBeIn, []string{"x", "y"})
				}
			})
		})

		Convey("When exactly two candidates were just compared", func() {
			history := []model.Match{{WinnerID: "x", LoserID: "y"}}

			Convey("Then the selector still terminates and returns them", func() {
				a, b, err := sel.NextPair(ctx, []string{"x", "y"}, history)
				So(err, ShouldBeNil)
				So(a, ShouldNotEqual, b)
			})
		})

		Convey("When many candidates exist", func() {
			candidates := []string{"a", "b", "c", "d", "e", "f"}

			Convey("Then every draw returns two distinct known ids", func() {
				for i := 0; i < 100; i++ {
					a, b, err := sel.NextPair(ctx, candidates, nil)
					So(err, ShouldBeNil)
					So(a, ShouldNotEqual, b)
					So(a, ShouldBeIn, candidates)
					So(b, ShouldBeIn, candidates)
				}
			})
		})
	})
}

func TestRecentPairAvoidance(t *testing.T) {
	Convey("Given a selector with a recent window over three candidates", t, func() {
		ctx := context.Background()
		sel := pairing.NewRandomSelector(
			pairing.WithSeed(7),
			pairing.WithRecentWindow(1),
		)
		candidates := []string{"a", "b", "c"}
		history := []model.Match{{WinnerID: "a", LoserID: "b"}}

		Convey("When drawing many pairs after an a-vs-b match", func() {
			repeats := 0
			const draws = 200
			for i := 0; i < draws; i++ {
				x, y, err := sel.NextPair(ctx, candidates, history)
				So(err, ShouldBeNil)
				if (x == "a" && y == "b") || (x == "b" && y == "a") {
					repeats++
				}
			}

			Convey("Then the just-played pair shows up far less than uniform", func() {
				// Uniform would repeat about a third of the time; the bias
				// needs 8 straight redraws of the same pair to repeat.
				So(repeats, ShouldBeLessThan, draws/10)
			})
		})
	})
}
