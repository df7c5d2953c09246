package app_test

import (
	"context"
	"errors"

	"rate_desk/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	t     domain.RateTable
	err   error
	loads int
}

func (f *fakeSource) Load(path string) (domain.RateTable, error) {
	f.loads++
	if f.err != nil {
		return domain.RateTable{}, f.err
	}
	return f.t, nil
}

type fakeModel struct {
	reqs    []domain.CompletionRequest
	answers []string
	errs    []error
}

func (m *fakeModel) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	i := len(m.reqs)
	m.reqs = append(m.reqs, req)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.answers) {
		return m.answers[i], nil
	}
	return "ok", nil
}

var errNetwork = errors.New("dial tcp: connection refused")

func scenarioTable() domain.RateTable {
	return domain.RateTable{
		Source:  "rates.csv",
		Columns: []string{"City Code", "Hotel", "Rate", "Days"},
		Rows: []domain.RateRow{
			{CityCode: "DEL", Hotel: "Taj", Rate: "T1", Days: "3.0"},
			{CityCode: "BOM", Hotel: "Trident", Rate: "TR1"},
			{CityCode: "DEL", Hotel: "Oberoi", Rate: "O1"},
			{CityCode: "DEL", Hotel: "Taj", Rate: "T2"},
			{CityCode: "110", Hotel: "Leela", Rate: "L1"},
		},
	}
}
