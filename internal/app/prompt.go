package app

import (
	"encoding/csv"
	"strings"

	"rate_desk/internal/domain"
)

// RatesContext is the slice of the rate sheet handed to the assistant.
type RatesContext struct {
	Columns []string
	Rows    []domain.RateRow
}

// BuildPrompt embeds the rows (as CSV) ahead of the question. With no rows the
// question is sent on its own.
func BuildPrompt(data RatesContext, question string) string {
	question = strings.TrimSpace(question)
	if len(data.Rows) == 0 {
		return question
	}
	var b strings.Builder
	b.WriteString("Rate data (CSV):\n")
	b.WriteString(serializeRows(data))
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

func serializeRows(data RatesContext) string {
	var cols []string
	for _, c := range data.Columns {
		for _, k := range domain.KnownColumns {
			if domain.ColumnKey(c) == domain.ColumnKey(k) {
				cols = append(cols, c)
				break
			}
		}
	}
	if len(cols) == 0 {
		cols = domain.KnownColumns
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(cols)
	rec := make([]string, len(cols))
	for _, r := range data.Rows {
		for i, c := range cols {
			rec[i] = r.Get(c)
		}
		_ = w.Write(rec)
	}
	w.Flush()
	return b.String()
}
