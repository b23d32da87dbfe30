package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"mindwell/internal/cache"
	"mindwell/internal/config"
	"mindwell/internal/metrics"
	"mindwell/internal/model"
	"mindwell/internal/screening"
	"mindwell/internal/service"
	"mindwell/internal/transport/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAdminKey = "admin-key"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	inst, err := config.DefaultInstrument()
	require.NoError(t, err)
	screener, err := inst.Build()
	require.NoError(t, err)

	m := metrics.New()
	auth := service.NewAuthService("router-secret", time.Hour)
	svc := service.NewScreeningService(inst, screener, cache.NewMemoryStore(time.Hour), nil, auth, m, logger)
	hub := ws.NewHub(logger)
	svc.SetBroadcaster(hub)

	return NewRouter(&Container{
		AuthService:      auth,
		ScreeningService: svc,
		WSHub:            hub,
		Metrics:          m,
		Logger:           logger,
		AdminKey:         testAdminKey,
		CORS: CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET, POST, PUT, OPTIONS",
			AllowedHeaders: "Content-Type, Authorization",
		},
	})
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c client) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(c.t, err)
			rdr = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestPublicEndpoints(t *testing.T) {
	c := client{t, newTestRouter(t)}

	rec := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/v1/questions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var qs model.QuestionsResponse
	decode(t, rec, &qs)
	assert.Len(t, qs.Questions, 7)
	assert.Equal(t, 21, qs.MaxScore)

	rec = c.do(http.MethodGet, "/v1/levels", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var levels struct {
		Levels []model.LevelView `json:"levels"`
	}
	decode(t, rec, &levels)
	require.Len(t, levels.Levels, 4)
	assert.Equal(t, 5, levels.Levels[0].MaxScore)
	assert.Equal(t, 10, levels.Levels[1].MaxScore)
	assert.Equal(t, 15, levels.Levels[2].MaxScore)

	rec = c.do(http.MethodGet, "/v1/levels/mild/recommendations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs struct {
		Recommendations []string `json:"recommendations"`
	}
	decode(t, rec, &recs)
	assert.Len(t, recs.Recommendations, 4)

	rec = c.do(http.MethodGet, "/v1/levels/extreme/recommendations", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/v1/crisis-contacts", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "988")

	rec = c.do(http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]interface{}
	decode(t, rec, &doc)
	assert.Equal(t, "2.0", doc["swagger"])
}

func TestScoreEndpoint(t *testing.T) {
	c := client{t, newTestRouter(t)}

	for _, tc := range []struct {
		name   string
		body   interface{}
		status int
		level  screening.Level
	}{
		{"minimal", model.ScoreRequest{Answers: []int{0, 0, 0, 0, 0, 0, 0}}, http.StatusOK, screening.LevelMinimal},
		{"boundary 10 is mild", model.ScoreRequest{Answers: []int{2, 2, 2, 2, 2, 0, 0}}, http.StatusOK, screening.LevelMild},
		{"severe", model.ScoreRequest{Answers: []int{3, 3, 3, 3, 3, 3, 3}}, http.StatusOK, screening.LevelSevere},
		{"incomplete", model.ScoreRequest{Answers: []int{1, 1}}, http.StatusConflict, ""},
		{"invalid value", model.ScoreRequest{Answers: []int{0, 0, 0, 0, 0, 0, 9}}, http.StatusUnprocessableEntity, ""},
		{"bad body", "{not json", http.StatusBadRequest, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := c.do(http.MethodPost, "/v1/score", "", tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.status != http.StatusOK {
				var body map[string]string
				decode(t, rec, &body)
				assert.NotEmpty(t, body["error"])
				return
			}
			var res model.ResultView
			decode(t, rec, &res)
			assert.Equal(t, tc.level, res.Level)
			assert.Equal(t, tc.level == screening.LevelSevere, len(res.CrisisContacts) > 0)
		})
	}
}

func startSession(t *testing.T, c client) model.StartSessionResponse {
	t.Helper()
	rec := c.do(http.MethodPost, "/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var started model.StartSessionResponse
	decode(t, rec, &started)
	require.NotEmpty(t, started.Token)
	return started
}

func TestSessionFlow(t *testing.T) {
	c := client{t, newTestRouter(t)}
	s := startSession(t, c)
	base := "/v1/sessions/" + s.SessionID

	rec := c.do(http.MethodGet, base, s.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view model.SessionView
	decode(t, rec, &view)
	assert.Equal(t, screening.StatusInProgress, view.Status)
	assert.Equal(t, 7, view.TotalQuestions)

	rec = c.do(http.MethodGet, base+"/result", s.Token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPut, base+"/answers/1", s.Token, map[string]int{"value": 7})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = c.do(http.MethodPut, base+"/answers/99", s.Token, map[string]int{"value": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = c.do(http.MethodPut, base+"/answers/one", s.Token, map[string]int{"value": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = c.do(http.MethodPut, base+"/answers/1", s.Token, map[string]int{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	values := []int{3, 2, 3, 2, 3, 2, 1}
	var last model.SubmitAnswerResponse
	for i, v := range values {
		rec = c.do(http.MethodPut, base+"/answers/"+strconv.Itoa(i+1), s.Token, map[string]int{"value": v})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decode(t, rec, &last)
		assert.Equal(t, i+1, last.Session.AnsweredCount)
	}
	require.NotNil(t, last.Result)
	assert.Equal(t, 16, last.Result.Score)
	assert.Equal(t, screening.LevelSevere, last.Result.Level)

	rec = c.do(http.MethodGet, base+"/result", s.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res model.ResultView
	decode(t, rec, &res)
	assert.Equal(t, *last.Result, res)

	rec = c.do(http.MethodPut, base+"/answers/1", s.Token, map[string]int{"value": 0})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, base+"/reset", s.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	assert.Equal(t, 0, view.AnsweredCount)

	rec = c.do(http.MethodGet, base+"/result", s.Token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSessionAuthorization(t *testing.T) {
	c := client{t, newTestRouter(t)}
	a := startSession(t, c)
	b := startSession(t, c)

	rec := c.do(http.MethodGet, "/v1/sessions/"+a.SessionID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodGet, "/v1/sessions/"+a.SessionID, "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPut, "/v1/sessions/"+a.SessionID+"/answers/1", b.Token, map[string]int{"value": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// b's answer never reached a
	rec = c.do(http.MethodGet, "/v1/sessions/"+a.SessionID, a.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view model.SessionView
	decode(t, rec, &view)
	assert.Equal(t, 0, view.AnsweredCount)
}

func TestSummaryRequiresAdminKey(t *testing.T) {
	c := client{t, newTestRouter(t)}

	rec := c.do(http.MethodGet, "/v1/results/summary", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/results/summary", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	out := httptest.NewRecorder()
	c.router.ServeHTTP(out, req)
	// no archive configured in this router
	assert.Equal(t, http.StatusServiceUnavailable, out.Code)
}

func TestCORSPreflight(t *testing.T) {
	c := client{t, newTestRouter(t)}
	rec := c.do(http.MethodOptions, "/v1/sessions/abc/answers/1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsUseRouteTemplates(t *testing.T) {
	c := client{t, newTestRouter(t)}
	s := startSession(t, c)
	c.do(http.MethodPut, "/v1/sessions/"+s.SessionID+"/answers/1", s.Token, map[string]int{"value": 1})

	rec := c.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `route="/v1/sessions/{id}/answers/{questionId}"`)
	assert.Contains(t, body, `mindwell_sessions_started_total 1`)
	assert.NotContains(t, body, s.SessionID)
}
