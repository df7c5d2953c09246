package render

import (
	"regexp"
	"strings"

	"github.com/a-h/templ"

	"rate_desk/internal/domain"
)

// Placeholder stands in for any field the row does not carry.
const Placeholder = "-"

// NoRateNotice is shown instead of cards when nothing matches.
const NoRateNotice = "No rate found for this selection."

type Field struct {
	Label     string
	Value     string
	Multiline bool
}

// CardView is the fixed card layout of one rate row.
type CardView struct {
	Title    string
	Subtitle string
	Fields   []Field
}

func NewCardView(r domain.RateRow) CardView {
	return CardView{
		Title:    orDash(r.Hotel),
		Subtitle: orDash(r.CityCode),
		Fields: []Field{
			{Label: "City Code", Value: orDash(r.CityCode)},
			{Label: "Hotel", Value: orDash(r.Hotel)},
			{Label: "Rate", Value: orDash(r.Rate)},
			{Label: "Valid From", Value: orDash(r.From)},
			{Label: "Valid To", Value: orDash(r.To)},
			{Label: "Room", Value: orDash(r.Room)},
			{Label: "Type", Value: orDash(r.Type)},
			{Label: "Plan", Value: orDash(r.Plan)},
			{Label: "SR Net Cost", Value: orDash(r.SrNetCost)},
			{Label: "DR Net Cost", Value: orDash(r.DrNetCost)},
			{Label: "EB Net Cost", Value: orDash(r.EbNetCost)},
			{Label: "Days", Value: orDash(CleanDays(r.Days))},
			{Label: "Contract Remarks", Value: orDash(r.ContractRemarks), Multiline: true},
			{Label: "Sp Noting", Value: orDash(r.SpNoting), Multiline: true},
		},
	}
}

var wholeNumber = regexp.MustCompile(`^(-?\d+)\.0+$`)

// CleanDays drops the ".0" a spreadsheet adds to whole numbers: "3.0" -> "3".
func CleanDays(s string) string {
	s = strings.TrimSpace(s)
	return wholeNumber.ReplaceAllString(s, "$1")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// Cards renders one card per row, or the no-rate notice for zero rows.
func Cards(rows []domain.RateRow) templ.Component {
	return cardList(cardViews(rows))
}

func cardViews(rows []domain.RateRow) []CardView {
	out := make([]CardView, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewCardView(r))
	}
	return out
}

// lines splits s on line breaks so the templates can keep them.
func lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
