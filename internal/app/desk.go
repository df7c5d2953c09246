package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"rate_desk/internal/domain"
)

// Desk runs one pass of the rate tool or the staff chat per interaction:
// load the sheet, recompute the dropdowns, optionally ask the assistant,
// and hand back everything the page shows.
type Desk struct {
	source domain.RateSource
	path   string
	rates  *Assistant
	chat   *Assistant
}

func NewDesk(src domain.RateSource, path string, rates, chat *Assistant) *Desk {
	return &Desk{source: src, path: path, rates: rates, chat: chat}
}

// RatesEvent is one interaction with the rate tool. A nil Selection keeps the
// session's current one.
type RatesEvent struct {
	Selection *domain.Selection
	Question  string
}

type RatesView struct {
	Err              error // ErrDataUnavailable or *SchemaError; nothing else is shown
	Columns          []string
	Cities           []string
	Hotels           []string
	Selection        domain.Selection
	Rows             []domain.RateRow
	Notice           error // ErrEmptySelection when no row matches
	History          []domain.Turn
	AssistantEnabled bool
	AssistantErr     error
}

// Table loads the rate sheet; JSON endpoints use it directly.
func (d *Desk) Table() (domain.RateTable, error) {
	return d.source.Load(d.path)
}

func (d *Desk) Rates(ctx context.Context, st *domain.SessionState, ev RatesEvent) RatesView {
	v := RatesView{AssistantEnabled: d.rates.Enabled()}

	t, err := d.Table()
	if err != nil {
		log.Error().Err(err).Str("path", d.path).Msg("rate sheet unusable")
		v.Err = err
		return v
	}
	v.Columns = t.Columns

	want := st.Selection
	if ev.Selection != nil {
		want = *ev.Selection
	}
	v.Cities = PrimaryValues(t)
	v.Selection.City = resolve(want.City, v.Cities)
	v.Hotels = SecondaryValues(t, v.Selection.City)
	v.Selection.Hotel = resolve(want.Hotel, v.Hotels)
	st.Selection = v.Selection

	if v.Selection.Hotel != "" {
		v.Rows = MatchingRows(t, v.Selection.City, v.Selection.Hotel)
	}
	if len(v.Rows) == 0 {
		v.Notice = domain.ErrEmptySelection
	}

	if strings.TrimSpace(ev.Question) != "" {
		data := RatesContext{Columns: t.Columns}
		switch d.rates.Scope() {
		case ScopeTable:
			data.Rows = t.Rows
		case ScopeSelection:
			data.Rows = v.Rows
		}
		_, v.AssistantErr = d.rates.Ask(ctx, &st.RatesHistory, data, ev.Question)
	}
	v.History = st.RatesHistory.All()
	return v
}

type ChatEvent struct {
	Question string
}

type ChatView struct {
	History          []domain.Turn
	AssistantEnabled bool
	AssistantErr     error
}

func (d *Desk) Chat(ctx context.Context, st *domain.SessionState, ev ChatEvent) ChatView {
	v := ChatView{AssistantEnabled: d.chat.Enabled()}
	if strings.TrimSpace(ev.Question) != "" {
		_, v.AssistantErr = d.chat.Ask(ctx, &st.ChatHistory, RatesContext{}, ev.Question)
	}
	v.History = st.ChatHistory.All()
	return v
}

// Fatal reports whether err must replace the whole page.
func Fatal(err error) bool {
	var se *domain.SchemaError
	return errors.Is(err, domain.ErrDataUnavailable) || errors.As(err, &se)
}
