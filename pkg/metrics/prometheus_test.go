package metrics_test

import (
	"testing"

	"github.com/agrawalsparsh/housing-ranker/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on an isolated registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithRegistry(reg))
		So(m, ShouldNotBeNil)

		Convey("Then all metrics register without collisions", func() {
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			// Vec metrics stay invisible until first use; the plain
			// counters, gauges and histograms show up immediately.
			So(len(families), ShouldBeGreaterThanOrEqualTo, 10)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When the comparison loop helpers fire", func() {
			metrics.RecordMatchApplied()
			metrics.RecordDuplicateDecision()
			metrics.RecordDecisionError()
			metrics.RecordPairServed()
			metrics.RecordStoreSaveError()
			metrics.RecordStoreSaveLatency(1.5)
			metrics.RecordStoreLoadLatency(0.5)
			metrics.UpdateListingCount(2)
			metrics.UpdateHistoryLength(1)
			metrics.UpdateTotalRatingMass(2000)
			metrics.UpdateSystemMemoryUsage(1 << 20)
			metrics.UpdateSystemGoroutineCount(8)
			metrics.RecordHTTPRequest("pair", "GET", "200")
			metrics.RecordHTTPRequestDuration("pair", "GET", "200", 3)
			metrics.RecordErrorByEndpoint("matches", "POST", "client_error")

			Convey("Then the registry exposes the recorded families", func() {
				families, err := metrics.GetRegistry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["ranker_matchups_matches_recorded_total"], ShouldBeTrue)
				So(names["ranker_matchups_total_rating_mass"], ShouldBeTrue)
				So(names["ranker_matchups_http_requests_total"], ShouldBeTrue)
				So(names["ranker_matchups_errors_by_endpoint_total"], ShouldBeTrue)
			})
		})
	})
}
