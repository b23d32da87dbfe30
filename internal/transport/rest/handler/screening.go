package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mindwell/internal/model"
	"mindwell/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const defaultRecentResults = 20

// ScreeningHandler handles questionnaire and session endpoints
type ScreeningHandler struct {
	svc    *service.ScreeningService
	logger *zap.Logger
}

// NewScreeningHandler creates a new screening handler
func NewScreeningHandler(svc *service.ScreeningService, logger *zap.Logger) *ScreeningHandler {
	return &ScreeningHandler{svc: svc, logger: logger}
}

// Questions handles GET /v1/questions
// @Summary List the question bank
// @Tags catalog
// @Produce json
// @Success 200 {object} model.QuestionsResponse
// @Router /v1/questions [get]
func (h *ScreeningHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Questions())
}

// Levels handles GET /v1/levels
// @Summary List severity bands and their guidance
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/levels [get]
func (h *ScreeningHandler) Levels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"levels": h.svc.Levels()})
}

// Recommendations handles GET /v1/levels/{level}/recommendations
// @Summary Recommendations for one severity level
// @Tags catalog
// @Param level path string true "minimal, mild, moderate or severe"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /v1/levels/{level}/recommendations [get]
func (h *ScreeningHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	level := mux.Vars(r)["level"]
	recs, err := h.svc.Recommendations(level)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"level":           level,
		"recommendations": recs,
	})
}

// CrisisContacts handles GET /v1/crisis-contacts
// @Summary Crisis helplines
// @Tags catalog
// @Success 200 {object} map[string]interface{}
// @Router /v1/crisis-contacts [get]
func (h *ScreeningHandler) CrisisContacts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"contacts": h.svc.CrisisContacts()})
}

// Score handles POST /v1/score
// @Summary Score a complete answer list without a session
// @Tags screening
// @Accept json
// @Param body body model.ScoreRequest true "answers in question order"
// @Success 200 {object} model.ResultView
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /v1/score [post]
func (h *ScreeningHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req model.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Evaluate(req.Answers)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// StartSession handles POST /v1/sessions
// @Summary Start a screening session
// @Tags sessions
// @Success 201 {object} model.StartSessionResponse
// @Router /v1/sessions [post]
func (h *ScreeningHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.StartSession(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GetSession handles GET /v1/sessions/{id}
// @Summary Session progress
// @Tags sessions
// @Security SessionToken
// @Param id path string true "session ID"
// @Success 200 {object} model.SessionView
// @Failure 404 {object} map[string]string
// @Router /v1/sessions/{id} [get]
func (h *ScreeningHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SubmitAnswer handles PUT /v1/sessions/{id}/answers/{questionId}
// @Summary Answer one question
// @Tags sessions
// @Security SessionToken
// @Accept json
// @Param id path string true "session ID"
// @Param questionId path int true "question ID"
// @Param body body model.SubmitAnswerRequest true "chosen option value"
// @Success 200 {object} model.SubmitAnswerResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /v1/sessions/{id}/answers/{questionId} [put]
func (h *ScreeningHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	questionID, err := strconv.Atoi(vars["questionId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "question id must be an integer")
		return
	}

	var req model.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.svc.SubmitAnswer(r.Context(), vars["id"], questionID, *req.Value)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetResult handles GET /v1/sessions/{id}/result
// @Summary Result of a complete session
// @Tags sessions
// @Security SessionToken
// @Param id path string true "session ID"
// @Success 200 {object} model.ResultView
// @Failure 409 {object} map[string]string
// @Router /v1/sessions/{id}/result [get]
func (h *ScreeningHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ComputeResult(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Reset handles POST /v1/sessions/{id}/reset
// @Summary Discard all answers and start over
// @Tags sessions
// @Security SessionToken
// @Param id path string true "session ID"
// @Success 200 {object} model.SessionView
// @Router /v1/sessions/{id}/reset [post]
func (h *ScreeningHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ResetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Summary handles GET /v1/results/summary
// @Summary Archived results per level
// @Tags admin
// @Security AdminKey
// @Param recent query int false "number of recent results"
// @Success 200 {object} model.ResultSummary
// @Failure 503 {object} map[string]string
// @Router /v1/results/summary [get]
func (h *ScreeningHandler) Summary(w http.ResponseWriter, r *http.Request) {
	recent := int64(defaultRecentResults)
	if v := r.URL.Query().Get("recent"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "recent must be a non-negative integer")
			return
		}
		recent = n
	}

	summary, err := h.svc.Summary(r.Context(), recent)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ScreeningHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
