package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"basequiz-service/internal/app"
	"basequiz-service/internal/domain"
)

// WSHandler streams the leaderboard to websocket viewers. Each connection
// keeps its own RankingQuery and is re-rendered on every leaderboard change.
type WSHandler struct {
	leaderboard *app.LeaderboardService
	feed        *app.RankingFeed
	log         logrus.FieldLogger
	upgrader    websocket.Upgrader
}

func NewWSHandler(leaderboard *app.LeaderboardService, feed *app.RankingFeed, log logrus.FieldLogger) *WSHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WSHandler{
		leaderboard: leaderboard,
		feed:        feed,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and pushes "rankings" pages. Clients send
// {"type":"query","payload":QueryChange} to filter, sort or page.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query, err := parseRankingQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	changes, cancel := h.feed.Subscribe()
	defer cancel()

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})
	readerDone := make(chan struct{})
	inbound := make(chan inboundMessage)

	// Only the writer goroutine touches conn for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.WithError(err).Debug("ws write error")
				_ = conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(readerDone)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			inbound <- msg
		}
	}()

	ctx := r.Context()
	emit := func(msg outboundMessage) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}
	h.push(ctx, query, emit)

loop:
	for {
		select {
		case <-readerDone:
			break loop
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			h.push(ctx, query, emit)
		case msg := <-inbound:
			if msg.Type != "query" {
				emit(outboundMessage{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
				continue
			}
			var change domain.QueryChange
			if err := json.Unmarshal(msg.Payload, &change); err != nil {
				emit(outboundMessage{Type: "error", Payload: errorPayload{Message: "invalid query payload"}})
				continue
			}
			query = query.Apply(change)
			h.push(ctx, query, emit)
		}
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) push(ctx context.Context, query domain.RankingQuery, emit func(outboundMessage)) {
	page, err := h.leaderboard.View(ctx, query)
	if err != nil {
		h.log.WithError(err).Warn("ws ranking view failed")
		emit(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	emit(outboundMessage{Type: "rankings", Payload: page})
}
