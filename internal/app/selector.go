package app

import (
	"sort"

	"rate_desk/internal/domain"
)

// PrimaryValues returns the distinct city codes of t, sorted.
func PrimaryValues(t domain.RateTable) []string {
	return distinctSorted(t.Rows, func(r domain.RateRow) (string, bool) {
		return r.CityCode, true
	})
}

// SecondaryValues returns the distinct hotels of city, sorted.
func SecondaryValues(t domain.RateTable, city string) []string {
	return distinctSorted(t.Rows, func(r domain.RateRow) (string, bool) {
		return r.Hotel, r.CityCode == city
	})
}

// MatchingRows returns the rows for city and hotel in sheet order. The result
// is a fresh slice; t is never modified.
func MatchingRows(t domain.RateTable, city, hotel string) []domain.RateRow {
	var out []domain.RateRow
	for _, r := range t.Rows {
		if r.CityCode == city && r.Hotel == hotel {
			out = append(out, r)
		}
	}
	return out
}

func distinctSorted(rows []domain.RateRow, pick func(domain.RateRow) (string, bool)) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		v, ok := pick(r)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// resolve applies dropdown semantics: a value not among the options falls back
// to the first option (or "" when there are none).
func resolve(want string, options []string) string {
	for _, o := range options {
		if o == want {
			return want
		}
	}
	if len(options) == 0 {
		return ""
	}
	return options[0]
}
