package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mindwell/internal/cache"
	"mindwell/internal/config"
	"mindwell/internal/metrics"
	"mindwell/internal/model"
	"mindwell/internal/screening"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type event struct {
	sessionID string
	msgType   string
	payload   interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []event
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event{sessionID, msgType, payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.msgType
	}
	return out
}

type memoryArchive struct {
	mu      sync.Mutex
	records map[string]*model.ResultRecord
	saveErr error
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{records: make(map[string]*model.ResultRecord)}
}

func (a *memoryArchive) EnsureIndexes(ctx context.Context) error { return nil }

func (a *memoryArchive) Save(ctx context.Context, record *model.ResultRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.saveErr != nil {
		return a.saveErr
	}
	cp := *record
	a.records[record.SessionID] = &cp
	return nil
}

func (a *memoryArchive) GetBySessionID(ctx context.Context, id string) (*model.ResultRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.records[id], nil
}

func (a *memoryArchive) ListRecent(ctx context.Context, limit int64) ([]*model.ResultRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*model.ResultRecord
	for _, r := range a.records {
		if int64(len(out)) == limit {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

func (a *memoryArchive) CountByLevel(ctx context.Context) ([]model.LevelCount, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	counts := make(map[string]int64)
	for _, r := range a.records {
		counts[r.Level]++
	}
	var out []model.LevelCount
	for _, lvl := range screening.Levels {
		if n := counts[string(lvl)]; n > 0 {
			out = append(out, model.LevelCount{Level: string(lvl), Count: n})
		}
	}
	return out, nil
}

type fixture struct {
	svc     *ScreeningService
	store   cache.SessionStore
	archive *memoryArchive
	events  *recordingBroadcaster
	auth    *AuthService
}

func newFixture(t *testing.T, withArchive bool) *fixture {
	t.Helper()
	inst, err := config.DefaultInstrument()
	require.NoError(t, err)
	screener, err := inst.Build()
	require.NoError(t, err)

	f := &fixture{
		store:  cache.NewMemoryStore(time.Hour),
		events: &recordingBroadcaster{},
		auth:   NewAuthService("test-secret", time.Hour),
	}
	var archive *memoryArchive
	if withArchive {
		archive = newMemoryArchive()
		f.archive = archive
	}

	if archive != nil {
		f.svc = NewScreeningService(inst, screener, f.store, archive, f.auth, metrics.New(), zaptest.NewLogger(t))
	} else {
		f.svc = NewScreeningService(inst, screener, f.store, nil, f.auth, metrics.New(), zaptest.NewLogger(t))
	}
	f.svc.SetBroadcaster(f.events)
	return f
}

func (f *fixture) answerAll(t *testing.T, id string, values []int) *model.SubmitAnswerResponse {
	t.Helper()
	var resp *model.SubmitAnswerResponse
	for i, v := range values {
		var err error
		resp, err = f.svc.SubmitAnswer(context.Background(), id, i+1, v)
		require.NoError(t, err)
	}
	return resp
}

func TestStartSession(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	started, err := f.svc.StartSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, 7, started.TotalQuestions)

	claims, err := f.auth.Authorize(started.Token, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, started.SessionID, claims.SessionID)

	view, err := f.svc.GetSession(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, screening.StatusInProgress, view.Status)
	assert.Equal(t, 0, view.AnsweredCount)
	assert.Equal(t, 7, view.TotalQuestions)
	assert.False(t, view.StartedAt.IsZero())

	other, err := f.svc.StartSession(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, started.SessionID, other.SessionID)
}

func TestGetSession_NotFound(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitAnswer_CompletesAndBroadcasts(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx)
	require.NoError(t, err)
	id := started.SessionID

	resp, err := f.svc.SubmitAnswer(ctx, id, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Session.AnsweredCount)
	assert.Nil(t, resp.Result)

	_, err = f.svc.ComputeResult(ctx, id)
	assert.ErrorIs(t, err, screening.ErrIncompleteAnswerSet)

	resp = f.answerAll(t, id, []int{2, 2, 2, 2, 2, 2, 0})
	require.NotNil(t, resp.Result)
	assert.Equal(t, screening.StatusComplete, resp.Session.Status)
	assert.NotNil(t, resp.Session.CompletedAt)
	assert.Equal(t, 12, resp.Result.Score)
	assert.Equal(t, 21, resp.Result.MaxScore)
	assert.Equal(t, screening.LevelModerate, resp.Result.Level)
	assert.Empty(t, resp.Result.CrisisContacts)

	res, err := f.svc.ComputeResult(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, resp.Result, res)

	types := f.events.types()
	assert.Len(t, types, 9)
	assert.Equal(t, EventResultReady, types[len(types)-1])

	rec := f.archive.records[id]
	require.NotNil(t, rec)
	assert.Equal(t, 12, rec.Score)
	assert.Equal(t, "moderate", rec.Level)
	assert.Equal(t, []int{2, 2, 2, 2, 2, 2, 0}, rec.Answers)
	assert.Equal(t, "Mental Health Assessment", rec.Instrument)
}

func TestSubmitAnswer_Rejections(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx)
	require.NoError(t, err)
	id := started.SessionID

	_, err = f.svc.SubmitAnswer(ctx, id, 42, 1)
	assert.ErrorIs(t, err, screening.ErrUnknownQuestion)

	_, err = f.svc.SubmitAnswer(ctx, id, 1, 4)
	assert.ErrorIs(t, err, screening.ErrInvalidAnswerValue)

	_, err = f.svc.SubmitAnswer(ctx, "missing", 1, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	view, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, view.AnsweredCount)
	assert.Empty(t, f.events.types())

	f.answerAll(t, id, []int{0, 0, 0, 0, 0, 0, 0})
	_, err = f.svc.SubmitAnswer(ctx, id, 1, 3)
	assert.ErrorIs(t, err, screening.ErrSessionComplete)

	res, err := f.svc.ComputeResult(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, screening.LevelMinimal, res.Level)
}

func TestSevereResultCarriesCrisisContacts(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx)
	require.NoError(t, err)

	resp := f.answerAll(t, started.SessionID, []int{3, 2, 3, 2, 3, 2, 1})
	require.NotNil(t, resp.Result)
	assert.Equal(t, 16, resp.Result.Score)
	assert.Equal(t, screening.LevelSevere, resp.Result.Level)
	assert.Equal(t, "Severe Symptoms", resp.Result.Title)
	assert.Len(t, resp.Result.CrisisContacts, 3)
}

func TestResetSession(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx)
	require.NoError(t, err)
	id := started.SessionID

	values := []int{3, 3, 3, 3, 3, 0, 0}
	first := f.answerAll(t, id, values)

	view, err := f.svc.ResetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, screening.StatusInProgress, view.Status)
	assert.Equal(t, 0, view.AnsweredCount)
	assert.Nil(t, view.CompletedAt)
	assert.Equal(t, EventSessionReset, f.events.types()[len(f.events.types())-1])

	_, err = f.svc.ComputeResult(ctx, id)
	assert.ErrorIs(t, err, screening.ErrIncompleteAnswerSet)

	second := f.answerAll(t, id, values)
	assert.Equal(t, first.Result, second.Result)

	_, err = f.svc.ResetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestComputeResult_FallsBackToArchive(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx)
	require.NoError(t, err)
	id := started.SessionID

	done := f.answerAll(t, id, []int{1, 1, 1, 1, 1, 1, 1})
	require.NoError(t, f.store.Delete(ctx, id))

	res, err := f.svc.ComputeResult(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, done.Result, res)

	_, err = f.svc.ComputeResult(ctx, "never-existed")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestArchiveFailureDoesNotFailSubmit(t *testing.T) {
	f := newFixture(t, true)
	f.archive.saveErr = errors.New("mongo down")
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx)
	require.NoError(t, err)

	resp := f.answerAll(t, started.SessionID, []int{0, 1, 0, 1, 0, 1, 0})
	require.NotNil(t, resp.Result)
	assert.Equal(t, screening.LevelMinimal, resp.Result.Level)
}

func TestEvaluate(t *testing.T) {
	f := newFixture(t, false)

	for _, tc := range []struct {
		answers []int
		score   int
		level   screening.Level
	}{
		{[]int{0, 0, 0, 0, 0, 0, 0}, 0, screening.LevelMinimal},
		{[]int{1, 1, 1, 1, 1, 0, 0}, 5, screening.LevelMinimal},
		{[]int{1, 1, 1, 1, 1, 1, 0}, 6, screening.LevelMild},
		{[]int{2, 2, 2, 2, 2, 0, 0}, 10, screening.LevelMild},
		{[]int{2, 2, 2, 2, 2, 1, 0}, 11, screening.LevelModerate},
		{[]int{3, 3, 3, 3, 3, 0, 0}, 15, screening.LevelModerate},
		{[]int{3, 3, 3, 3, 3, 1, 0}, 16, screening.LevelSevere},
		{[]int{3, 3, 3, 3, 3, 3, 3}, 21, screening.LevelSevere},
	} {
		res, err := f.svc.Evaluate(tc.answers)
		require.NoError(t, err)
		assert.Equal(t, tc.score, res.Score)
		assert.Equal(t, tc.level, res.Level, "score %d", tc.score)
	}

	_, err := f.svc.Evaluate([]int{0, 0, 0})
	assert.ErrorIs(t, err, screening.ErrIncompleteAnswerSet)
	_, err = f.svc.Evaluate([]int{0, 0, 0, 0, 0, 0, 7})
	assert.ErrorIs(t, err, screening.ErrInvalidAnswerValue)
}

func TestCatalog(t *testing.T) {
	f := newFixture(t, false)

	qs := f.svc.Questions()
	assert.Len(t, qs.Questions, 7)
	assert.Equal(t, 21, qs.MaxScore)
	assert.NotEmpty(t, qs.Disclaimer)

	levels := f.svc.Levels()
	require.Len(t, levels, 4)
	assert.Equal(t, []int{0, 6, 11, 16}, []int{levels[0].MinScore, levels[1].MinScore, levels[2].MinScore, levels[3].MinScore})
	assert.Equal(t, 21, levels[3].MaxScore)

	recs, err := f.svc.Recommendations("severe")
	require.NoError(t, err)
	assert.Len(t, recs, 4)

	_, err = f.svc.Recommendations("catastrophic")
	assert.ErrorIs(t, err, screening.ErrUnknownSeverityLevel)

	contacts := f.svc.CrisisContacts()
	contacts[0].Name = "changed"
	assert.NotEqual(t, "changed", f.svc.CrisisContacts()[0].Name)
}

func TestSummary(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.Summary(context.Background(), 10)
	assert.ErrorIs(t, err, ErrArchiveDisabled)

	f = newFixture(t, true)
	ctx := context.Background()
	for _, values := range [][]int{
		{0, 0, 0, 0, 0, 0, 0},
		{3, 3, 3, 3, 3, 3, 3},
		{3, 3, 3, 3, 3, 3, 2},
	} {
		started, err := f.svc.StartSession(ctx)
		require.NoError(t, err)
		f.answerAll(t, started.SessionID, values)
	}

	summary, err := f.svc.Summary(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, []model.LevelCount{
		{Level: "minimal", Count: 1},
		{Level: "severe", Count: 2},
	}, summary.Levels)
	assert.Len(t, summary.Recent, 3)
}
