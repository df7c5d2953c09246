package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccess_LogsSessionToolAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	m := chi.NewRouter()
	m.Use(chimw.RequestID)
	m.Use(Access(zerolog.New(&buf)))
	m.Get("/assistant", func(w http.ResponseWriter, r *http.Request) {
		noteSession(r.Context(), "sess-1")
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/assistant", nil)
	req.Header.Set("HX-Request", "true")
	m.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sess-1", line["session"])
	assert.Equal(t, "chat", line["tool"])
	assert.Equal(t, "/assistant", line["route"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, true, line["htmx"])
	assert.NotEmpty(t, line["request_id"])
	assert.Equal(t, "info", line["level"])
}

func TestAccess_ServerErrorsLogAtWarn(t *testing.T) {
	var buf bytes.Buffer
	m := chi.NewRouter()
	m.Use(Access(zerolog.New(&buf)))
	m.Get("/v1/cities", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/cities", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "api", line["tool"])
	assert.NotContains(t, line, "session")
}

func TestToolFor(t *testing.T) {
	for _, tc := range []struct{ route, want string }{
		{"/", "rates"},
		{"/reset", "rates"},
		{"/assistant", "chat"},
		{"/v1/cities/{city}/hotels", "api"},
		{"/metrics", "ops"},
	} {
		assert.Equal(t, tc.want, toolFor(tc.route), tc.route)
	}
}

func TestTimeout_BoundsAPIGroupNotRouter(t *testing.T) {
	s := New(20 * time.Millisecond)
	s.mux.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(60 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(Timeout(s.apiTimeout))
		r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})
	})

	rr := httptest.NewRecorder()
	s.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	s.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
