package http

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"basequiz-service/internal/app"
	"basequiz-service/internal/domain"
)

// APIHandler exposes games and the leaderboard as JSON endpoints.
type APIHandler struct {
	games       *app.GameService
	leaderboard *app.LeaderboardService
	log         logrus.FieldLogger
}

func NewAPIHandler(games *app.GameService, leaderboard *app.LeaderboardService, log logrus.FieldLogger) *APIHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &APIHandler{games: games, leaderboard: leaderboard, log: log}
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type rankingRequest struct {
	Name string `json:"name"`
}

func (h *APIHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	var settings domain.GameSettings
	if !decode(w, r, &settings) {
		return
	}
	view, err := h.games.Start(r.Context(), settings)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *APIHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.games.Answer(r.Context(), r.PathValue("id"), req.Answer)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) Next(w http.ResponseWriter, r *http.Request) {
	question, err := h.games.Next(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *APIHandler) Finish(w http.ResponseWriter, r *http.Request) {
	result, err := h.games.Finish(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) SubmitGame(w http.ResponseWriter, r *http.Request) {
	var req rankingRequest
	if !decode(w, r, &req) {
		return
	}
	outcome, err := h.games.SubmitRanking(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *APIHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	query, err := parseRankingQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.leaderboard.View(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *APIHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var sub domain.ScoreSubmission
	if !decode(w, r, &sub) {
		return
	}
	outcome, err := h.leaderboard.Submit(r.Context(), sub)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := statusFor(err); status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	writeServiceError(w, err)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
