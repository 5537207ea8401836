package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"basequiz-service/internal/metrics"
)

// NewRouter mounts the API, the rankings websocket, health and metrics.
func NewRouter(api *APIHandler, ws *WSHandler, m *metrics.Metrics, log logrus.FieldLogger) *http.ServeMux {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, Instrument(pattern, m, log, h))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	handle("POST /api/games", api.StartGame)
	handle("POST /api/games/{id}/answers", api.Answer)
	handle("POST /api/games/{id}/next", api.Next)
	handle("POST /api/games/{id}/finish", api.Finish)
	handle("POST /api/games/{id}/ranking", api.SubmitGame)
	handle("GET /api/rankings", api.Rankings)
	handle("POST /api/rankings", api.SubmitScore)
	handle("GET /ws/rankings", ws.ServeWS)
	return mux
}
