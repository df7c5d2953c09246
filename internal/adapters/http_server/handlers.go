// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog/log"

	"rate_desk/internal/adapters/render"
	"rate_desk/internal/app"
	"rate_desk/internal/domain"
	"rate_desk/internal/session"
)

const sessionCookie = "rate_desk_session"

type Handlers struct {
	Desk     *app.Desk
	Sessions *session.Store
	forms    *schema.Decoder
}

func NewHandlers(d *app.Desk, s *session.Store) *Handlers {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Handlers{Desk: d, Sessions: s, forms: dec}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// interactionForm carries every field the two pages post.
type interactionForm struct {
	City     string `schema:"city"`
	Hotel    string `schema:"hotel"`
	Question string `schema:"question"`
}

func (s *Server) MountHandlers(h *Handlers, corsOrigins []string) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/", h.rates)
	s.mux.Post("/", h.rates)
	s.mux.Get("/assistant", h.chat)
	s.mux.Post("/assistant", h.chat)
	s.mux.Post("/reset", h.reset)

	s.mux.Route("/v1", func(r chi.Router) {
		if s.apiTimeout > 0 {
			r.Use(Timeout(s.apiTimeout))
		}
		if len(corsOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: corsOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "If-None-Match"},
				ExposedHeaders: []string{"ETag"},
				MaxAge:         300,
			}))
		}
		r.Get("/cities", h.listCities)
		r.Get("/cities/{city}/hotels", h.listHotels)
		r.Get("/rates", h.listRates)
	})
}

// ---- pages ----

func (h *Handlers) rates(w http.ResponseWriter, r *http.Request) {
	f, err := h.decodeForm(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", "could not read the submitted fields")
		return
	}
	sess := h.session(w, r)
	sess.Lock()
	defer sess.Unlock()

	ev := app.RatesEvent{Question: f.Question}
	if f.City != "" || f.Hotel != "" {
		ev.Selection = &domain.Selection{City: f.City, Hotel: f.Hotel}
	}
	v := h.Desk.Rates(r.Context(), &sess.State, ev)

	status := http.StatusOK
	if app.Fatal(v.Err) {
		status = statusFor(v.Err)
	}
	// htmx only swaps 2xx responses
	if isHTMX(r) {
		writeHTML(w, r, http.StatusOK, render.RatesContent(v))
		return
	}
	writeHTML(w, r, status, render.RatesPage(v))
}

func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	f, err := h.decodeForm(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", "could not read the submitted fields")
		return
	}
	sess := h.session(w, r)
	sess.Lock()
	defer sess.Unlock()

	v := h.Desk.Chat(r.Context(), &sess.State, app.ChatEvent{Question: f.Question})
	if isHTMX(r) {
		writeHTML(w, r, http.StatusOK, render.ChatContent(v))
		return
	}
	writeHTML(w, r, http.StatusOK, render.ChatPage(v))
}

func (h *Handlers) reset(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		h.Sessions.End(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	sess, isNew := h.Sessions.Get(id)
	noteSession(r.Context(), sess.ID.String())
	if isNew {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID.String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (h *Handlers) decodeForm(r *http.Request) (interactionForm, error) {
	var f interactionForm
	if err := r.ParseForm(); err != nil {
		return f, err
	}
	err := h.forms.Decode(&f, r.Form)
	return f, err
}

func isHTMX(r *http.Request) bool { return r.Header.Get("HX-Request") == "true" }

func writeHTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("render page failed")
	}
}

// statusFor maps a fatal pass error: an unreadable sheet is 503, a schema mismatch 500.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrDataUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ---- JSON API ----

type citiesResponse struct {
	Cities []string `json:"cities"`
}

type hotelsResponse struct {
	City   string   `json:"city"`
	Hotels []string `json:"hotels"`
}

type ratesResponse struct {
	City   string           `json:"city"`
	Hotel  string           `json:"hotel"`
	Rates  []domain.RateRow `json:"rates"`
	Notice string           `json:"notice,omitempty"`
}

func (h *Handlers) table(w http.ResponseWriter) (domain.RateTable, bool) {
	t, err := h.Desk.Table()
	if err != nil {
		writeProblem(w, statusFor(err), "Rate sheet unavailable", render.ErrorMessage(err))
		return domain.RateTable{}, false
	}
	return t, true
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w)
	if !ok {
		return
	}
	writeJSON(w, r, citiesResponse{Cities: nonNil(app.PrimaryValues(t))})
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w)
	if !ok {
		return
	}
	city := chi.URLParam(r, "city")
	hotels := app.SecondaryValues(t, city)
	if len(hotels) == 0 {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown city code")
		return
	}
	writeJSON(w, r, hotelsResponse{City: city, Hotels: hotels})
}

func (h *Handlers) listRates(w http.ResponseWriter, r *http.Request) {
	var sel domain.Selection
	if err := h.forms.Decode(&sel, r.URL.Query()); err != nil || sel.City == "" || sel.Hotel == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "city and hotel are required")
		return
	}
	t, ok := h.table(w)
	if !ok {
		return
	}
	out := ratesResponse{City: sel.City, Hotel: sel.Hotel, Rates: app.MatchingRows(t, sel.City, sel.Hotel)}
	if len(out.Rates) == 0 {
		out.Rates = []domain.RateRow{}
		out.Notice = domain.ErrEmptySelection.Error()
	}
	writeJSON(w, r, out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeJSON answers with a weak ETag and honours If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write JSON body")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}
