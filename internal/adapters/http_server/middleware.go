package httpserver

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"rate_desk/internal/adapters/observability"
)

// Timeout answers 503 when a JSON API handler runs longer than d.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "rate sheet lookup timed out")
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// accessNote collects what handlers learn about a request for its access line.
type accessNote struct{ session string }

type accessKey struct{}

// noteSession tags the current access line with the session id.
func noteSession(ctx context.Context, id string) {
	if n, ok := ctx.Value(accessKey{}).(*accessNote); ok {
		n.session = id
	}
}

// Access records request metrics and writes one structured line per request.
func Access(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			note := &accessNote{}
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), accessKey{}, note)))

			dur := time.Since(start)
			route := routePattern(r)
			observability.ObserveHTTP(route, r.Method, sw.Status(), dur)

			ev := l.Info()
			if sw.Status() >= http.StatusInternalServerError {
				ev = l.Warn()
			}
			if note.session != "" {
				ev = ev.Str("session", note.session)
			}
			ev.Str("request_id", chimw.GetReqID(r.Context())).
				Str("tool", toolFor(route)).
				Str("route", route).
				Str("method", r.Method).
				Int("status", sw.Status()).
				Dur("duration", dur).
				Str("remote", remoteHost(r)).
				Bool("htmx", isHTMX(r)).
				Msg("http_request")
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// toolFor names the part of the desk a route belongs to.
func toolFor(route string) string {
	switch {
	case route == "/" || route == "/reset":
		return "rates"
	case route == "/assistant":
		return "chat"
	case strings.HasPrefix(route, "/v1"):
		return "api"
	}
	return "ops"
}

// remoteHost strips the port; RealIP has already applied forwarding headers.
func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
