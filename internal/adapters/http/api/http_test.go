package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agrawalsparsh/housing-ranker/internal/adapters/http/api"
	"github.com/agrawalsparsh/housing-ranker/internal/adapters/repository"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/pairing"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps implements api.Dependencies with canned responses per call.
type fakeDeps struct {
	pairA, pairB   model.Listing
	pairRA, pairRB float64
	pairErr        error

	match     model.Match
	duplicate bool
	matchErr  error

	rankings     []ranking.Entry
	history      []model.Match
	listings     []model.Listing
	gotLimit     int
	gotDecision  model.Decision
	exportErr    error
	exportedBody string
}

func (f *fakeDeps) NextPair(context.Context) (model.Listing, model.Listing, float64, float64, error) {
	return f.pairA, f.pairB, f.pairRA, f.pairRB, f.pairErr
}

func (f *fakeDeps) RecordDecision(_ context.Context, d model.Decision) (model.Match, bool, error) {
	f.gotDecision = d
	return f.match, f.duplicate, f.matchErr
}

func (f *fakeDeps) Rankings(_ context.Context, limit int) []ranking.Entry {
	f.gotLimit = limit
	return f.rankings
}

func (f *fakeDeps) History(_ context.Context, limit int) []model.Match {
	f.gotLimit = limit
	return f.history
}

func (f *fakeDeps) Listings(context.Context) []model.Listing {
	return f.listings
}

func (f *fakeDeps) ExportRankingsCSV(_ context.Context, w io.Writer) error {
	if f.exportErr != nil {
		return f.exportErr
	}
	_, err := io.WriteString(w, f.exportedBody)
	return err
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"listings": 2, "matches": 1}
}

func newTestServer(deps *fakeDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, fakeStats{}, 100).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func getJSON(url string, out any) (int, error) {
	resp, err := http.Get(url) //nolint:gosec // test URL
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func postJSON(url, body string, out any) (int, error) {
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body)) //nolint:gosec // test URL
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func TestGetPair(t *testing.T) {
	Convey("Given a service that can serve pairs", t, func() {
		deps := &fakeDeps{
			pairA:  model.Listing{ID: "a", Link: "https://example.com/a"},
			pairB:  model.Listing{ID: "b", Link: "https://example.com/b"},
			pairRA: 1016,
			pairRB: 984,
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /pair is requested", func() {
			var body struct {
				A struct {
					Listing model.Listing `json:"listing"`
					Rating  float64       `json:"rating"`
				} `json:"a"`
				B struct {
					Listing model.Listing `json:"listing"`
					Rating  float64       `json:"rating"`
				} `json:"b"`
			}
			status, err := getJSON(srv.URL+"/pair", &body)

			Convey("Then both sides carry listing and rating", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(body.A.Listing.ID, ShouldEqual, "a")
				So(body.A.Rating, ShouldEqual, 1016)
				So(body.B.Listing.ID, ShouldEqual, "b")
			})
		})
	})

	Convey("Given a board with fewer than two listings", t, func() {
		deps := &fakeDeps{pairErr: pairing.ErrNotEnoughListings}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /pair is requested", func() {
			var body struct {
				Code string `json:"code"`
			}
			status, err := getJSON(srv.URL+"/pair", &body)

			Convey("Then the UI gets a 409 with a stable code", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusConflict)
				So(body.Code, ShouldEqual, "not_enough_listings")
			})
		})
	})
}

func TestPostMatch(t *testing.T) {
	Convey("Given a service accepting decisions", t, func() {
		deps := &fakeDeps{
			match: model.Match{ID: "m-1", WinnerID: "a", LoserID: "b", WinnerAfter: 1016, LoserAfter: 984},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When a valid decision is posted", func() {
			var ack struct {
				Status    string       `json:"status"`
				Duplicate bool         `json:"duplicate"`
				Match     *model.Match `json:"match"`
			}
			status, err := postJSON(srv.URL+"/matches",
				`{"decision_id":"d-1","winner_id":"a","loser_id":"b"}`, &ack)

			Convey("Then it is recorded with 201 and the match payload", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusCreated)
				So(ack.Status, ShouldEqual, "recorded")
				So(ack.Duplicate, ShouldBeFalse)
				So(ack.Match, ShouldNotBeNil)
				So(ack.Match.WinnerAfter, ShouldEqual, 1016)
				So(deps.gotDecision.DecisionID, ShouldEqual, "d-1")
			})
		})

		Convey("When the body is not valid JSON", func() {
			status, err := postJSON(srv.URL+"/matches", `{broken`, nil)

			Convey("Then it is rejected with 400", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When winner and loser are the same listing", func() {
			var body struct {
				Code string `json:"code"`
			}
			status, err := postJSON(srv.URL+"/matches",
				`{"decision_id":"d-2","winner_id":"a","loser_id":"a"}`, &body)

			Convey("Then it is rejected with 400 before reaching the core", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusBadRequest)
				So(body.Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When the decision id is missing", func() {
			status, err := postJSON(srv.URL+"/matches",
				`{"winner_id":"a","loser_id":"b"}`, nil)

			Convey("Then it is rejected with 400", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given a decision id that was already applied", t, func() {
		deps := &fakeDeps{duplicate: true}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When the same decision is replayed", func() {
			var ack struct {
				Status    string `json:"status"`
				Duplicate bool   `json:"duplicate"`
			}
			status, err := postJSON(srv.URL+"/matches",
				`{"decision_id":"d-1","winner_id":"a","loser_id":"b"}`, &ack)

			Convey("Then it is acknowledged with 200 and duplicate=true", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(ack.Duplicate, ShouldBeTrue)
				So(ack.Status, ShouldEqual, "duplicate")
			})
		})
	})

	Convey("Given a decision naming an unknown listing", t, func() {
		deps := &fakeDeps{matchErr: repository.ErrListingNotFound}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When the decision is posted", func() {
			status, err := postJSON(srv.URL+"/matches",
				`{"decision_id":"d-1","winner_id":"ghost","loser_id":"b"}`, nil)

			Convey("Then it is rejected with 404", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a store that cannot persist", t, func() {
		deps := &fakeDeps{matchErr: repository.ErrSaveFailed}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When the decision is posted", func() {
			var body struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			status, err := postJSON(srv.URL+"/matches",
				`{"decision_id":"d-1","winner_id":"a","loser_id":"b"}`, &body)

			Convey("Then the caller learns the decision was not recorded", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusInternalServerError)
				So(body.Code, ShouldEqual, "not_recorded")
				So(body.Message, ShouldContainSubstring, "retry")
			})
		})
	})
}

func TestGetRankings(t *testing.T) {
	Convey("Given a ranked board", t, func() {
		deps := &fakeDeps{rankings: []ranking.Entry{
			{Rank: 1, ListingID: "a", Rating: 1016},
			{Rank: 2, ListingID: "b", Rating: 984},
		}}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /rankings is requested without a limit", func() {
			var entries []ranking.Entry
			status, err := getJSON(srv.URL+"/rankings", &entries)

			Convey("Then the full board is returned", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(entries, ShouldHaveLength, 2)
				So(deps.gotLimit, ShouldEqual, 0)
			})
		})

		Convey("When a limit is supplied", func() {
			status, err := getJSON(srv.URL+"/rankings?limit=1", nil)

			Convey("Then it is forwarded to the core", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(deps.gotLimit, ShouldEqual, 1)
			})
		})

		Convey("When the limit is not a positive integer", func() {
			status, err := getJSON(srv.URL+"/rankings?limit=zero", nil)

			Convey("Then it is rejected with 400", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the limit exceeds the configured maximum", func() {
			var body struct {
				Code string `json:"code"`
			}
			status, err := getJSON(srv.URL+"/rankings?limit=101", &body)

			Convey("Then it is rejected with a limit_exceeded code", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusBadRequest)
				So(body.Code, ShouldEqual, "limit_exceeded")
			})
		})
	})
}

func TestExportCSV(t *testing.T) {
	Convey("Given a board that exports to CSV", t, func() {
		deps := &fakeDeps{exportedBody: "Rank,Rating,Listing ID,Link\n1,1016.00,a,https://example.com/a\n"}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /rankings/export.csv is requested", func() {
			resp, err := http.Get(srv.URL + "/rankings/export.csv")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			data, readErr := io.ReadAll(resp.Body)

			Convey("Then the response is a CSV attachment", func() {
				So(readErr, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldStartWith, "text/csv")
				So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, "rankings.csv")
				So(string(data), ShouldStartWith, "Rank,Rating,Listing ID,Link")
			})
		})
	})
}

func TestGetHistory(t *testing.T) {
	Convey("Given a recorded match log", t, func() {
		deps := &fakeDeps{history: []model.Match{{ID: "m-1", WinnerID: "a", LoserID: "b"}}}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /history is requested without a limit", func() {
			var matches []model.Match
			status, err := getJSON(srv.URL+"/history", &matches)

			Convey("Then the default limit is applied", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(matches, ShouldHaveLength, 1)
				So(deps.gotLimit, ShouldEqual, 50)
			})
		})

		Convey("When a custom limit is supplied", func() {
			status, err := getJSON(srv.URL+"/history?limit=5", nil)

			Convey("Then it is forwarded to the core", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(deps.gotLimit, ShouldEqual, 5)
			})
		})
	})
}

func TestGetListings(t *testing.T) {
	Convey("Given an ingested candidate set", t, func() {
		deps := &fakeDeps{listings: []model.Listing{
			{ID: "a", Link: "https://example.com/a", Attributes: map[string]string{"Price": "2400"}},
		}}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /listings is requested", func() {
			var listings []model.Listing
			status, err := getJSON(srv.URL+"/listings", &listings)

			Convey("Then the catalogue is returned with attributes", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(listings, ShouldHaveLength, 1)
				So(listings[0].Attributes["Price"], ShouldEqual, "2400")
			})
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		srv := newTestServer(&fakeDeps{})
		defer srv.Close()

		Convey("When GET /stats is requested", func() {
			var stats map[string]interface{}
			status, err := getJSON(srv.URL+"/stats", &stats)

			Convey("Then the provider's snapshot is returned", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(stats["listings"], ShouldEqual, float64(2))
			})
		})
	})
}

func TestMethodRouting(t *testing.T) {
	Convey("Given the registered routes", t, func() {
		srv := newTestServer(&fakeDeps{})
		defer srv.Close()

		Convey("When /matches is hit with GET", func() {
			status, err := getJSON(srv.URL+"/matches", nil)

			Convey("Then the route does not answer", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When /pair is hit with POST", func() {
			resp, err := http.Post(srv.URL+"/pair", "application/json", strings.NewReader("{}"))
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the route does not answer", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
