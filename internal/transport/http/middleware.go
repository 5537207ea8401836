package http

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"basequiz-service/internal/metrics"
)

// statusRecorder captures the response status. It forwards Hijack so that
// websocket upgrades still work behind the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Instrument logs every request and records it under route.
func Instrument(route string, m *metrics.Metrics, log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if m != nil {
			inFlight := m.RequestsInFlight.WithLabelValues(route)
			inFlight.Inc()
			defer inFlight.Dec()
		}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		if m != nil {
			m.ObserveRequest(route, strconv.Itoa(rec.status), elapsed)
		}
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": elapsed.String(),
		}).Debug("request")
	})
}
