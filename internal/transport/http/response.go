package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"basequiz-service/internal/domain"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: message})
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrInvalidQuestionCount),
		errors.Is(err, domain.ErrInvalidScoreInput),
		errors.Is(err, domain.ErrNoQuestions):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTimeUp),
		errors.Is(err, domain.ErrGameFinished),
		errors.Is(err, domain.ErrGameNotFinished),
		errors.Is(err, domain.ErrAwaitingNext),
		errors.Is(err, domain.ErrNoAnswers):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusServiceUnavailable {
		message = domain.ErrPersistenceUnavailable.Error()
	} else if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeError(w, status, message)
}
