package render

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/a-h/templ"

	"rate_desk/internal/app"
	"rate_desk/internal/domain"
)

// TurnView is one transcript entry.
type TurnView struct {
	Role    string
	Speaker string
	Lines   []string
}

// RatesModel is what the rate page shows. A non-empty Error replaces
// everything else.
type RatesModel struct {
	Error            string
	Cities           []string
	Hotels           []string
	City             string
	Hotel            string
	Cards            []CardView
	Transcript       []TurnView
	AssistantEnabled bool
	AssistantError   string
}

type ChatModel struct {
	Transcript       []TurnView
	AssistantEnabled bool
	AssistantError   string
}

func NewRatesModel(v app.RatesView) RatesModel {
	if v.Err != nil {
		return RatesModel{Error: ErrorMessage(v.Err)}
	}
	return RatesModel{
		Cities:           v.Cities,
		Hotels:           v.Hotels,
		City:             v.Selection.City,
		Hotel:            v.Selection.Hotel,
		Cards:            cardViews(v.Rows),
		Transcript:       turnViews(v.History),
		AssistantEnabled: v.AssistantEnabled,
		AssistantError:   errorText(v.AssistantErr),
	}
}

func NewChatModel(v app.ChatView) ChatModel {
	return ChatModel{
		Transcript:       turnViews(v.History),
		AssistantEnabled: v.AssistantEnabled,
		AssistantError:   errorText(v.AssistantErr),
	}
}

func RatesPage(v app.RatesView) templ.Component { return ratesPage(NewRatesModel(v)) }

// RatesContent is the htmx partial of the rate page.
func RatesContent(v app.RatesView) templ.Component { return ratesContent(NewRatesModel(v)) }

func ChatPage(v app.ChatView) templ.Component { return chatPage(NewChatModel(v)) }

func ChatContent(v app.ChatView) templ.Component { return chatContent(NewChatModel(v)) }

func turnViews(turns []domain.Turn) []TurnView {
	out := make([]TurnView, 0, len(turns))
	for _, t := range turns {
		speaker := "Assistant"
		if t.Role == domain.RoleUser {
			speaker = "You"
		}
		out = append(out, TurnView{Role: string(t.Role), Speaker: speaker, Lines: lines(t.Text)})
	}
	return out
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return ErrorMessage(err)
}

// ErrorMessage turns a pass error into the line staff see.
func ErrorMessage(err error) string {
	var se *domain.SchemaError
	var rf *domain.RemoteCallFailure
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "Rate sheet not found. Check the configured rates file. (" + err.Error() + ")"
	case errors.Is(err, domain.ErrDataUnavailable):
		return "Rate sheet could not be read. Check that it is a valid CSV or Excel file. (" + err.Error() + ")"
	case errors.As(err, &se):
		return fmt.Sprintf("Rate sheet is missing the %q column.", se.Column)
	case errors.Is(err, domain.ErrAssistantDisabled):
		return "The AI assistant is disabled because no API key is configured. Your question was not sent."
	case errors.As(err, &rf):
		return "An error occurred: " + rf.Error()
	}
	return "An error occurred: " + err.Error()
}
