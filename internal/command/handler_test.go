package command

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftrelay/internal/deduplication"
	"nftrelay/internal/logger"
	"nftrelay/internal/poller"
)

type fakeTickRunner struct {
	report poller.TickReport
	err    error
	calls  int
}

func (f *fakeTickRunner) Tick(ctx context.Context) (poller.TickReport, error) {
	f.calls++
	return f.report, f.err
}

type fakeStats struct {
	stats deduplication.Stats
	err   error
}

func (f fakeStats) Stats(context.Context) (deduplication.Stats, error) {
	return f.stats, f.err
}

func newRouter(t *testing.T, f *fixture, tick TickRunner, stats StatsProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(f.svc, tick, stats, logger.NopLogger()).RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeDestination(t *testing.T, w *httptest.ResponseRecorder) DestinationResponse {
	t.Helper()
	var resp DestinationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandler_TrackListUntrack(t *testing.T) {
	f := newFixture(t)
	router := newRouter(t, f, &fakeTickRunner{}, fakeStats{})

	w := doRequest(router, http.MethodPost, "/api/v1/destinations/1001/collections", `{"collection":"abc123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeDestination(t, w)
	assert.Equal(t, []string{"abc123"}, resp.Collections)
	require.NotNil(t, resp.Reply)
	assert.Equal(t, f.locales.Get("en").TrackStart("abc123"), resp.Reply.Text)

	w = doRequest(router, http.MethodGet, "/api/v1/destinations/1001/collections", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeDestination(t, w)
	assert.Equal(t, "en", resp.Locale)
	assert.Equal(t, []string{"abc123"}, resp.Collections)
	assert.Nil(t, resp.Reply)

	w = doRequest(router, http.MethodDelete, "/api/v1/destinations/1001/collections/abc123", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeDestination(t, w).Collections)
}

func TestHandler_TrackInvalidCollection(t *testing.T) {
	f := newFixture(t)
	router := newRouter(t, f, &fakeTickRunner{}, fakeStats{})

	w := doRequest(router, http.MethodPost, "/api/v1/destinations/1001/collections", `{"collection":"bad id!"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = doRequest(router, http.MethodPost, "/api/v1/destinations/1001/collections", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_PersistFailureIs500(t *testing.T) {
	f := newFixture(t)
	f.persister.fail = true
	router := newRouter(t, f, &fakeTickRunner{}, fakeStats{})

	w := doRequest(router, http.MethodPost, "/api/v1/destinations/1001/collections", `{"collection":"abc123"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "PERSISTENCE_ERROR")
}

func TestHandler_ClearAndSubscriptions(t *testing.T) {
	f := newFixture(t)
	router := newRouter(t, f, &fakeTickRunner{}, fakeStats{})

	doRequest(router, http.MethodPost, "/api/v1/destinations/1001/collections", `{"collection":"a1"}`)
	doRequest(router, http.MethodPost, "/api/v1/destinations/2002/collections", `{"collection":"b2"}`)

	w := doRequest(router, http.MethodGet, "/api/v1/subscriptions", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Subscriptions []struct {
			Destination string   `json:"destination"`
			Collections []string `json:"collections"`
		} `json:"subscriptions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Subscriptions, 2)
	assert.Equal(t, "1001", body.Subscriptions[0].Destination)

	w = doRequest(router, http.MethodDelete, "/api/v1/destinations/1001/collections", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.store.List("1001"))
	assert.Equal(t, []string{"b2"}, f.store.List("2002"))
}

func TestHandler_SetLocale(t *testing.T) {
	f := newFixture(t)
	router := newRouter(t, f, &fakeTickRunner{}, fakeStats{})

	w := doRequest(router, http.MethodPut, "/api/v1/destinations/1001/locale", `{"locale":"ja"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeDestination(t, w)
	assert.Equal(t, "ja", resp.Locale)
	assert.Equal(t, f.locales.Get("ja").LangSet(), resp.Reply.Text)

	w = doRequest(router, http.MethodPut, "/api/v1/destinations/1001/locale", `{"locale":"xx"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ja", f.store.Locale("1001"))
}

func TestHandler_Poll(t *testing.T) {
	f := newFixture(t)
	tick := &fakeTickRunner{report: poller.TickReport{TickID: "t-1", Novel: 2}}
	router := newRouter(t, f, tick, fakeStats{})

	w := doRequest(router, http.MethodPost, "/api/v1/poll", "")
	require.Equal(t, http.StatusOK, w.Code)
	var report poller.TickReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "t-1", report.TickID)
	assert.Equal(t, int64(2), report.Novel)

	tick.err = poller.ErrTickInProgress
	w = doRequest(router, http.MethodPost, "/api/v1/poll", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 2, tick.calls)
}

func TestHandler_Stats(t *testing.T) {
	f := newFixture(t)
	stats := fakeStats{stats: deduplication.Stats{Backend: "memory", Size: 7, HighWater: 3000, LowWater: 1000}}
	router := newRouter(t, f, &fakeTickRunner{}, stats)

	w := doRequest(router, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got deduplication.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, stats.stats, got)

	router = newRouter(t, f, &fakeTickRunner{}, fakeStats{err: errors.New("redis down")})
	w = doRequest(router, http.MethodGet, "/api/v1/stats", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
