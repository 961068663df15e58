// ABOUTME: Request ID and logging middleware for the directory server.
// ABOUTME: Every request gets a UUID and a log line carrying the resolved chi route pattern.
package web

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// requestIDHeader carries the per-request UUID. Incoming IDs from a proxy
// are kept; otherwise one is minted here.
const requestIDHeader = "X-Request-ID"

// responseMeta records what the handler chain produced so the log line can
// report it after the fact.
type responseMeta struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (m *responseMeta) WriteHeader(code int) {
	if m.status == 0 {
		m.status = code
	}
	m.ResponseWriter.WriteHeader(code)
}

func (m *responseMeta) Write(p []byte) (int, error) {
	n, err := m.ResponseWriter.Write(p)
	m.bytes += n
	return n, err
}

// statusCode returns the recorded status, defaulting to 200 when the
// handler never called WriteHeader.
func (m *responseMeta) statusCode() int {
	if m.status == 0 {
		return http.StatusOK
	}
	return m.status
}

// requestLogger assigns each request an ID, echoes it on the response, and
// emits one key=value log line per request in the same style as the build
// pipeline logs. The route field is the chi pattern (e.g. /{category}/{slug})
// so detail-page hits group under one route instead of one line per item.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		meta := &responseMeta{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(meta, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		log.Printf("web request id=%s method=%s route=%s path=%s status=%d bytes=%d duration=%s remote=%s",
			id,
			r.Method,
			route,
			r.URL.Path,
			meta.statusCode(),
			meta.bytes,
			time.Since(start).Round(time.Microsecond),
			r.RemoteAddr,
		)
	})
}
