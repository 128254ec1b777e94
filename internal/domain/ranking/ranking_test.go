package ranking_test

import (
	"testing"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRankings(t *testing.T) {
	Convey("Given a set of rated listings", t, func() {
		ratings := map[string]float64{
			"mid":  1000,
			"top":  1080,
			"low":  920,
			"tieB": 1000,
		}

		Convey("When the full board is derived", func() {
			entries := ranking.Rankings(ratings)

			Convey("Then entries are ordered best-first with dense ranks", func() {
				So(entries, ShouldHaveLength, 4)
				So(entries[0].ListingID, ShouldEqual, "top")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[3].ListingID, ShouldEqual, "low")
				So(entries[3].Rank, ShouldEqual, 4)
			})

			Convey("Then ties break by listing id ascending", func() {
				So(entries[1].ListingID, ShouldEqual, "mid")
				So(entries[2].ListingID, ShouldEqual, "tieB")
				So(entries[1].Rating, ShouldEqual, entries[2].Rating)
			})

			Convey("Then repeated calls return identical output", func() {
				again := ranking.Rankings(ratings)
				So(again, ShouldResemble, entries)
			})
		})

		Convey("When the ratings map is empty", func() {
			entries := ranking.Rankings(map[string]float64{})

			Convey("Then the board is empty, not nil-panicking", func() {
				So(entries, ShouldBeEmpty)
			})
		})
	})
}

func TestTopN(t *testing.T) {
	Convey("Given a board of three listings", t, func() {
		ratings := map[string]float64{"a": 1, "b": 3, "c": 2}

		Convey("When asking for fewer entries than exist", func() {
			entries := ranking.TopN(ratings, 2)

			Convey("Then only the leaders are returned, ranks intact", func() {
				So(entries, ShouldHaveLength, 2)
				So(entries[0].ListingID, ShouldEqual, "b")
				So(entries[1].ListingID, ShouldEqual, "c")
				So(entries[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When asking for more entries than exist", func() {
			entries := ranking.TopN(ratings, 10)

			Convey("Then the whole board is returned", func() {
				So(entries, ShouldHaveLength, 3)
			})
		})
	})
}
