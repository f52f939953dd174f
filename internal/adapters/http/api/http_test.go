package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/cricsim/internal/adapters/http/api"
	eventqueue "github.com/okian/cricsim/internal/adapters/mq/queue"
	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/internal/domain/types"
	"github.com/okian/cricsim/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithOptions(logger.Options{Output: io.Discard}); err != nil {
		panic(err)
	}
}

// Mock implementations for testing
type mockDependencies struct {
	battingQuery model.BattingQuery
	bowlingQuery model.BowlingQuery
	limit        int
	batter       model.BattingRecord
	bowler       model.BowlingRecord
	rankErr      error
	ingestErr    error
	pingErr      error
}

func (m *mockDependencies) SimilarBatters(_ context.Context, q model.BattingQuery, limit int) (types.BattingResult, error) {
	m.battingQuery, m.limit = q, limit
	if m.rankErr != nil {
		return types.BattingResult{}, m.rankErr
	}
	return types.BattingResult{Results: []types.RankedBatter{
		{Player: "V Kohli", Average: q.Average, StrikeRate: q.StrikeRate},
	}}, nil
}

func (m *mockDependencies) SimilarBowlers(_ context.Context, q model.BowlingQuery, limit int) (types.BowlingResult, error) {
	m.bowlingQuery, m.limit = q, limit
	if m.rankErr != nil {
		return types.BowlingResult{}, m.rankErr
	}
	return types.BowlingResult{Fallback: true}, nil
}

func (m *mockDependencies) IngestBatter(_ context.Context, r model.BattingRecord) (string, error) {
	m.batter = r
	return "job-1", m.ingestErr
}

func (m *mockDependencies) IngestBowler(_ context.Context, r model.BowlingRecord) (string, error) {
	m.bowler = r
	return "job-2", m.ingestErr
}

func (m *mockDependencies) Ping(context.Context) error { return m.pingErr }

type mockStatsProvider struct{}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "workerCount": 2}
}

func newHandler(deps *mockDependencies, opts ...api.Option) http.Handler {
	s := api.NewServer(deps, &mockStatsProvider{}, opts...)
	r := s.NewRouter()
	s.Register(context.Background(), r)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		h := newHandler(deps)

		Convey("Health reports ok when the store answers", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["status"], ShouldEqual, "ok")
			So(w.Header().Get("X-Request-Id"), ShouldNotBeEmpty)
		})

		Convey("Health reports 503 when the store is down", func() {
			deps.pingErr = errors.New("connection refused")
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeBody(w)["status"], ShouldEqual, "degraded")
		})

		Convey("Stats returns the provider's map", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["started"], ShouldEqual, true)
		})

		Convey("Metrics are served in Prometheus text format", func() {
			w := do(h, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Unknown routes return 404", func() {
			w := do(h, http.MethodGet, "/v1/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSimilarHandler(t *testing.T) {
	Convey("Given the similarity endpoints", t, func() {
		deps := &mockDependencies{}
		h := newHandler(deps, api.WithMaxLimit(50))

		Convey("A valid batting query is forwarded with its limit", func() {
			w := do(h, http.MethodPost, "/v1/similar/batters",
				`{"player":"Virat Kohli","average":53.5,"strike_rate":93.2,"limit":5}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.battingQuery.Average, ShouldEqual, 53.5)
			So(deps.battingQuery.StrikeRate, ShouldEqual, 93.2)
			So(deps.limit, ShouldEqual, 5)

			body := decodeBody(w)
			So(body["fallback"], ShouldEqual, false)
			So(body["results"], ShouldHaveLength, 1)
		})

		Convey("A zero average is a valid query value", func() {
			w := do(h, http.MethodPost, "/v1/similar/batters", `{"average":0,"strike_rate":0}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.limit, ShouldEqual, 0)
		})

		Convey("A missing feature is rejected", func() {
			w := do(h, http.MethodPost, "/v1/similar/batters", `{"average":40}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["code"], ShouldEqual, "invalid_request")
		})

		Convey("A negative feature is rejected", func() {
			w := do(h, http.MethodPost, "/v1/similar/batters", `{"average":-1,"strike_rate":80}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Malformed JSON is rejected", func() {
			w := do(h, http.MethodPost, "/v1/similar/batters", `{"average":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A limit above the cap is rejected", func() {
			w := do(h, http.MethodPost, "/v1/similar/batters", `{"average":40,"strike_rate":80,"limit":51}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Bowling queries pass the optional features through", func() {
			w := do(h, http.MethodPost, "/v1/similar/bowlers",
				`{"wickets":150,"economy":4.8,"strike_rate":30,"matches":90}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.bowlingQuery.Wickets, ShouldEqual, 150.0)
			So(deps.bowlingQuery.Matches, ShouldNotBeNil)
			So(*deps.bowlingQuery.Matches, ShouldEqual, 90.0)
			So(deps.bowlingQuery.CareerLength, ShouldBeNil)

			body := decodeBody(w)
			So(body["fallback"], ShouldEqual, true)
			So(body["results"], ShouldNotBeNil)
			So(body["results"], ShouldBeEmpty)
		})

		Convey("Service errors become 503", func() {
			deps.rankErr = errors.New("service not started")
			w := do(h, http.MethodPost, "/v1/similar/bowlers", `{"wickets":1,"economy":1,"strike_rate":1}`)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeBody(w)["code"], ShouldEqual, "unavailable")
		})
	})
}

func TestPlayersHandler(t *testing.T) {
	Convey("Given the ingest endpoints", t, func() {
		deps := &mockDependencies{}
		h := newHandler(deps)

		Convey("A batting record is accepted and normalized", func() {
			w := do(h, http.MethodPost, "/v1/players/batting",
				`{"player":"  SR Tendulkar ","matches":463,"runs":18426,"average":44.83,"strike_rate":86.23,"start_year":1989,"end_year":2012}`)
			So(w.Code, ShouldEqual, http.StatusAccepted)

			body := decodeBody(w)
			So(body["status"], ShouldEqual, "accepted")
			So(body["job_id"], ShouldEqual, "job-1")
			So(deps.batter.Player, ShouldEqual, "SR Tendulkar")
			So(deps.batter.CareerLength, ShouldEqual, 24)
		})

		Convey("A bowling record without a name is rejected", func() {
			w := do(h, http.MethodPost, "/v1/players/bowling", `{"wickets":10}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A bowling record with reversed years is rejected", func() {
			w := do(h, http.MethodPost, "/v1/players/bowling",
				`{"player":"JJ Bumrah","start_year":2020,"end_year":2016}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["code"], ShouldEqual, "invalid_record")
		})

		Convey("A full queue maps to 429", func() {
			deps.ingestErr = eventqueue.ErrQueueFull
			w := do(h, http.MethodPost, "/v1/players/bowling", `{"player":"JJ Bumrah","wickets":149}`)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(decodeBody(w)["code"], ShouldEqual, "backpressure")
		})
	})
}

func TestRateLimit(t *testing.T) {
	Convey("Given a server limited to two requests per minute", t, func() {
		h := newHandler(&mockDependencies{}, api.WithRateLimit(2))
		body := `{"average":40,"strike_rate":80}`

		Convey("The third request from one client is refused", func() {
			So(do(h, http.MethodPost, "/v1/similar/batters", body).Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodPost, "/v1/similar/batters", body).Code, ShouldEqual, http.StatusOK)

			w := do(h, http.MethodPost, "/v1/similar/batters", body)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			resp := decodeBody(w)
			So(resp["code"], ShouldEqual, "rate_limited")
			So(resp["message"], ShouldEqual, api.ErrRateLimited.Error())
		})

		Convey("Health checks are not limited", func() {
			for range 3 {
				So(do(h, http.MethodGet, "/healthz", "").Code, ShouldEqual, http.StatusOK)
			}
		})
	})
}
