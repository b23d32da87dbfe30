package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindwell/internal/cache"
	"mindwell/internal/config"
	"mindwell/internal/metrics"
	"mindwell/internal/model"
	"mindwell/internal/repository"
	"mindwell/internal/screening"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = cache.ErrSessionNotFound
	ErrArchiveDisabled = errors.New("result archive is not configured")
)

// ScreeningService runs screening sessions over a session store
type ScreeningService struct {
	instrument  *config.Instrument
	screener    *screening.Screener
	store       cache.SessionStore
	archive     repository.ResultRepo
	authSvc     *AuthService
	metrics     *metrics.Metrics
	logger      *zap.Logger
	broadcaster Broadcaster
	now         func() time.Time
}

// NewScreeningService creates a new screening service. archive may be nil.
func NewScreeningService(
	instrument *config.Instrument,
	screener *screening.Screener,
	store cache.SessionStore,
	archive repository.ResultRepo,
	authSvc *AuthService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ScreeningService {
	return &ScreeningService{
		instrument: instrument,
		screener:   screener,
		store:      store,
		archive:    archive,
		authSvc:    authSvc,
		metrics:    m,
		logger:     logger.Named("screening"),
		now:        time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ScreeningService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Questions returns the question bank in display order
func (s *ScreeningService) Questions() *model.QuestionsResponse {
	bank := s.screener.Bank()
	return &model.QuestionsResponse{
		Name:       s.instrument.Name,
		Disclaimer: s.instrument.Disclaimer,
		MaxScore:   bank.MaxScore(),
		Questions:  bank.Questions(),
	}
}

// Levels returns every severity band with its guidance
func (s *ScreeningService) Levels() []model.LevelView {
	scale := s.screener.Scale()
	bands := scale.Bands()
	out := make([]model.LevelView, 0, len(bands))
	for _, b := range bands {
		g, err := scale.Guidance(b.Level)
		if err != nil {
			// NewScale guarantees guidance for every level
			continue
		}
		out = append(out, model.LevelView{
			Level:           b.Level,
			MinScore:        b.Min,
			MaxScore:        b.Max,
			Title:           g.Title,
			Description:     g.Description,
			Color:           g.Color,
			Recommendations: g.Recommendations,
		})
	}
	return out
}

// Recommendations returns the ordered recommendations of a level
func (s *ScreeningService) Recommendations(level string) ([]string, error) {
	lvl, err := screening.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return s.screener.RecommendationsFor(lvl)
}

// CrisisContacts returns the configured helplines
func (s *ScreeningService) CrisisContacts() []model.CrisisContact {
	out := make([]model.CrisisContact, len(s.instrument.CrisisContacts))
	copy(out, s.instrument.CrisisContacts)
	return out
}

// Evaluate scores an answer list held by the caller, without a session
func (s *ScreeningService) Evaluate(answers []int) (*model.ResultView, error) {
	res, err := s.screener.Evaluate(answers)
	if err != nil {
		return nil, err
	}
	return s.resultView(res), nil
}

// StartSession creates an empty session and a token bound to it
func (s *ScreeningService) StartSession(ctx context.Context) (*model.StartSessionResponse, error) {
	now := s.now()
	sess := screening.NewSession(uuid.New().String())
	sess.StartedAt = now
	sess.UpdatedAt = now

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, expiresAt, err := s.authSvc.IssueSessionToken(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.SessionStarted()
	s.logger.Info("session started", zap.String("session_id", sess.ID))

	return &model.StartSessionResponse{
		SessionID:      sess.ID,
		Token:          token,
		ExpiresAt:      expiresAt,
		TotalQuestions: s.screener.Bank().Len(),
	}, nil
}

// GetSession returns the progress of a session
func (s *ScreeningService) GetSession(ctx context.Context, id string) (*model.SessionView, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.sessionView(sess), nil
}

// SubmitAnswer records one answer atomically. The answer that completes the
// set also produces the result, which is archived and pushed to subscribers.
func (s *ScreeningService) SubmitAnswer(ctx context.Context, id string, questionID, value int) (*model.SubmitAnswerResponse, error) {
	now := s.now()
	sess, err := s.store.Update(ctx, id, func(sess *screening.Session) error {
		if err := s.screener.Submit(sess, questionID, value); err != nil {
			return err
		}
		sess.UpdatedAt = now
		if sess.Complete() {
			completedAt := now
			sess.CompletedAt = &completedAt
		}
		return nil
	})
	if err != nil {
		if isRequestError(err) {
			s.metrics.AnswerRejected()
			s.logger.Debug("answer rejected",
				zap.String("session_id", id),
				zap.Int("question_id", questionID),
				zap.Error(err),
			)
		}
		return nil, err
	}
	s.metrics.AnswerAccepted()

	view := s.sessionView(sess)
	resp := &model.SubmitAnswerResponse{Session: *view}
	s.broadcast(id, EventProgressUpdate, s.progress(sess))

	if sess.Complete() {
		res, err := s.screener.Result(sess)
		if err != nil {
			return nil, err
		}
		resp.Result = s.resultView(res)

		s.metrics.ScreeningCompleted(string(res.Level), res.Score)
		s.logger.Info("screening completed",
			zap.String("session_id", id),
			zap.Int("score", res.Score),
			zap.String("level", string(res.Level)),
		)
		s.archiveResult(ctx, sess, res)
		s.broadcast(id, EventResultReady, resp.Result)
	}

	return resp, nil
}

// ComputeResult returns the result of a complete session. Sessions that have
// expired from the store are recovered from the archive when one is set.
func (s *ScreeningService) ComputeResult(ctx context.Context, id string) (*model.ResultView, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return s.archivedResult(ctx, id)
	}

	res, err := s.screener.Result(sess)
	if err != nil {
		return nil, err
	}
	return s.resultView(res), nil
}

// ResetSession discards every answer and the result
func (s *ScreeningService) ResetSession(ctx context.Context, id string) (*model.SessionView, error) {
	now := s.now()
	sess, err := s.store.Update(ctx, id, func(sess *screening.Session) error {
		sess.Reset()
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SessionReset()
	s.logger.Info("session reset", zap.String("session_id", id))
	s.broadcast(id, EventSessionReset, s.progress(sess))

	return s.sessionView(sess), nil
}

// Summary aggregates the result archive with up to recent latest records
func (s *ScreeningService) Summary(ctx context.Context, recent int64) (*model.ResultSummary, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	counts, err := s.archive.CountByLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}
	summary := &model.ResultSummary{Levels: counts}
	if recent > 0 {
		records, err := s.archive.ListRecent(ctx, recent)
		if err != nil {
			return nil, fmt.Errorf("failed to list results: %w", err)
		}
		summary.Recent = records
	}
	for _, c := range counts {
		summary.Total += c.Count
	}
	return summary, nil
}

func (s *ScreeningService) archivedResult(ctx context.Context, id string) (*model.ResultView, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	rec, err := s.archive.GetBySessionID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	// Re-derive guidance so archived results follow the current instrument
	res, err := s.screener.Evaluate(rec.Answers)
	if err != nil {
		return nil, fmt.Errorf("archived result %s no longer matches the instrument: %w", id, err)
	}
	return s.resultView(res), nil
}

func (s *ScreeningService) archiveResult(ctx context.Context, sess *screening.Session, res screening.Result) {
	if s.archive == nil {
		return
	}

	answers := make([]int, 0, len(sess.Answers))
	for _, q := range s.screener.Bank().Questions() {
		answers = append(answers, sess.Answers[q.ID])
	}
	completedAt := s.now()
	if sess.CompletedAt != nil {
		completedAt = *sess.CompletedAt
	}

	record := &model.ResultRecord{
		SessionID:   sess.ID,
		Score:       res.Score,
		MaxScore:    res.MaxScore,
		Level:       string(res.Level),
		Answers:     answers,
		Instrument:  s.instrument.Name,
		StartedAt:   sess.StartedAt,
		CompletedAt: completedAt,
	}
	if err := s.archive.Save(ctx, record); err != nil {
		s.metrics.ArchiveFailed()
		s.logger.Warn("failed to archive result", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

func (s *ScreeningService) resultView(res screening.Result) *model.ResultView {
	view := &model.ResultView{Result: res}
	if res.Level == screening.LevelSevere {
		view.CrisisContacts = s.CrisisContacts()
	}
	return view
}

func (s *ScreeningService) sessionView(sess *screening.Session) *model.SessionView {
	answers := make(map[int]int, len(sess.Answers))
	for k, v := range sess.Answers {
		answers[k] = v
	}
	return &model.SessionView{
		ID:             sess.ID,
		Status:         sess.Status,
		AnsweredCount:  sess.AnsweredCount(),
		TotalQuestions: s.screener.Bank().Len(),
		Answers:        answers,
		StartedAt:      sess.StartedAt,
		UpdatedAt:      sess.UpdatedAt,
		CompletedAt:    sess.CompletedAt,
	}
}

func (s *ScreeningService) progress(sess *screening.Session) model.ProgressPayload {
	return model.ProgressPayload{
		SessionID:      sess.ID,
		Status:         sess.Status,
		AnsweredCount:  sess.AnsweredCount(),
		TotalQuestions: s.screener.Bank().Len(),
	}
}

func (s *ScreeningService) broadcast(sessionID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, msgType, payload)
	}
}

// isRequestError reports whether err is a rejected answer rather than a
// storage failure
func isRequestError(err error) bool {
	return errors.Is(err, screening.ErrUnknownQuestion) ||
		errors.Is(err, screening.ErrInvalidAnswerValue) ||
		errors.Is(err, screening.ErrSessionComplete)
}
