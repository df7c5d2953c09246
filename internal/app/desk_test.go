package app_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rate_desk/internal/app"
	"rate_desk/internal/domain"
)

func newDesk(src domain.RateSource, rates, chat domain.ChatModel, scope app.ContextScope) *app.Desk {
	return app.NewDesk(src, "rates.csv",
		app.NewAssistant(rates, app.AssistantConfig{Tool: "rates", Scope: scope, IncludeHistory: true}),
		app.NewAssistant(chat, app.AssistantConfig{Tool: "chat", Scope: app.ScopeNone, IncludeHistory: true}),
	)
}

func TestRates_DataUnavailableHaltsPass(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("%w: rates.csv", domain.ErrDataUnavailable)}
	d := newDesk(src, &fakeModel{}, nil, app.ScopeSelection)
	var st domain.SessionState

	v := d.Rates(context.Background(), &st, app.RatesEvent{Question: "hello"})
	assert.ErrorIs(t, v.Err, domain.ErrDataUnavailable)
	assert.True(t, app.Fatal(v.Err))
	assert.Empty(t, v.Cities)
	assert.Empty(t, v.Rows)
	assert.Zero(t, st.RatesHistory.Len(), "no question is processed below a fatal error")
}

func TestRates_SchemaErrorIsFatal(t *testing.T) {
	src := &fakeSource{err: &domain.SchemaError{Column: "Hotel"}}
	d := newDesk(src, nil, nil, app.ScopeSelection)
	var st domain.SessionState

	v := d.Rates(context.Background(), &st, app.RatesEvent{})
	assert.True(t, app.Fatal(v.Err))
	assert.Nil(t, v.Hotels)
}

func TestRates_DefaultsToFirstOptions(t *testing.T) {
	d := newDesk(&fakeSource{t: scenarioTable()}, nil, nil, app.ScopeSelection)
	var st domain.SessionState

	v := d.Rates(context.Background(), &st, app.RatesEvent{})
	require.NoError(t, v.Err)
	assert.Equal(t, domain.Selection{City: "110", Hotel: "Leela"}, v.Selection)
	assert.Equal(t, v.Selection, st.Selection)
	require.Len(t, v.Rows, 1)
	assert.NoError(t, v.Notice)
}

func TestRates_CityChangeResetsHotel(t *testing.T) {
	d := newDesk(&fakeSource{t: scenarioTable()}, nil, nil, app.ScopeSelection)
	var st domain.SessionState

	v := d.Rates(context.Background(), &st, app.RatesEvent{Selection: &domain.Selection{City: "DEL", Hotel: "Taj"}})
	assert.Equal(t, []string{"Oberoi", "Taj"}, v.Hotels)
	require.Len(t, v.Rows, 2)

	v = d.Rates(context.Background(), &st, app.RatesEvent{Selection: &domain.Selection{City: "BOM", Hotel: "Taj"}})
	assert.Equal(t, []string{"Trident"}, v.Hotels)
	assert.Equal(t, domain.Selection{City: "BOM", Hotel: "Trident"}, v.Selection)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "TR1", v.Rows[0].Rate)

	// a question alone keeps the stored selection
	v = d.Rates(context.Background(), &st, app.RatesEvent{})
	assert.Equal(t, "Trident", v.Selection.Hotel)
}

func TestRates_EmptyTableShowsNotice(t *testing.T) {
	d := newDesk(&fakeSource{t: domain.RateTable{Columns: []string{"City Code", "Hotel"}}}, nil, nil, app.ScopeSelection)
	var st domain.SessionState

	v := d.Rates(context.Background(), &st, app.RatesEvent{})
	require.NoError(t, v.Err)
	assert.Empty(t, v.Cities)
	assert.Empty(t, v.Hotels)
	assert.ErrorIs(t, v.Notice, domain.ErrEmptySelection)
}

func TestRates_ScopeDecidesRowsSent(t *testing.T) {
	for _, tc := range []struct {
		scope app.ContextScope
		rows  int
	}{
		{app.ScopeSelection, 2},
		{app.ScopeTable, 5},
		{app.ScopeNone, 0},
	} {
		t.Run(string(tc.scope), func(t *testing.T) {
			m := &fakeModel{}
			d := newDesk(&fakeSource{t: scenarioTable()}, m, nil, tc.scope)
			var st domain.SessionState

			v := d.Rates(context.Background(), &st, app.RatesEvent{
				Selection: &domain.Selection{City: "DEL", Hotel: "Taj"},
				Question:  "cheapest?",
			})
			require.NoError(t, v.AssistantErr)
			require.Len(t, m.reqs, 1)
			p := m.reqs[0].Prompt
			lines := 0
			if tc.rows > 0 {
				for _, c := range p {
					if c == '\n' {
						lines++
					}
				}
				// title line, header, rows, blank line before "Question:"
				assert.Equal(t, tc.rows+3, lines)
			} else {
				assert.Equal(t, "cheapest?", p)
			}
			assert.Len(t, v.History, 2)
		})
	}
}

func TestScenario_MissingCredentialStillRendersRates(t *testing.T) {
	d := newDesk(&fakeSource{t: scenarioTable()}, nil, nil, app.ScopeSelection)
	var st domain.SessionState

	v := d.Rates(context.Background(), &st, app.RatesEvent{
		Selection: &domain.Selection{City: "DEL", Hotel: "Oberoi"},
		Question:  "any offers?",
	})
	require.NoError(t, v.Err)
	assert.False(t, v.AssistantEnabled)
	require.Len(t, v.Rows, 1)
	assert.ErrorIs(t, v.AssistantErr, domain.ErrAssistantDisabled)
	assert.Empty(t, v.History)
}

func TestScenario_NetworkErrorThenRetry(t *testing.T) {
	m := &fakeModel{errs: []error{errNetwork}, answers: []string{"", "Taj is 9000"}}
	d := newDesk(&fakeSource{t: scenarioTable()}, m, nil, app.ScopeSelection)
	var st domain.SessionState
	sel := &domain.Selection{City: "DEL", Hotel: "Taj"}

	v := d.Rates(context.Background(), &st, app.RatesEvent{Selection: sel, Question: "rate?"})
	var rf *domain.RemoteCallFailure
	require.ErrorAs(t, v.AssistantErr, &rf)
	require.Len(t, v.History, 1)
	assert.Equal(t, "rate?", v.History[0].Text)
	require.Len(t, v.Rows, 2, "cards still render")

	v = d.Rates(context.Background(), &st, app.RatesEvent{Question: "rate please?"})
	require.NoError(t, v.AssistantErr)
	require.Len(t, v.History, 3)
	assert.Equal(t, "Taj is 9000", v.History[2].Text)
}

func TestChat_SoleStateIsHistory(t *testing.T) {
	m := &fakeModel{answers: []string{"According to Standard SOP, ..."}}
	src := &fakeSource{err: domain.ErrDataUnavailable}
	d := newDesk(src, nil, m, app.ScopeSelection)
	var st domain.SessionState

	v := d.Chat(context.Background(), &st, app.ChatEvent{Question: "Flight delayed, what now?"})
	require.NoError(t, v.AssistantErr)
	assert.True(t, v.AssistantEnabled)
	require.Len(t, v.History, 2)
	assert.Equal(t, 0, src.loads, "chat never touches the rate sheet")
	assert.Equal(t, "Flight delayed, what now?", m.reqs[0].Prompt)
	assert.Zero(t, st.RatesHistory.Len())

	v = d.Chat(context.Background(), &st, app.ChatEvent{})
	assert.Len(t, v.History, 2)
}
