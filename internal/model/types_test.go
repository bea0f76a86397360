package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestSnapshot(t *testing.T) {
	s := Snapshot{
		"594918104": {Identifier: "594918104", MarketValue: ptr(2500.0), ShareCount: 10},
		"037833100": {Identifier: "037833100", MarketValue: ptr(5000.0), ShareCount: 30},
		"88160R101": {Identifier: "88160R101", ShareCount: 5},
	}

	t.Run("Identifiers sorted", func(t *testing.T) {
		got := s.Identifiers()
		want := []string{"037833100", "594918104", "88160R101"}
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Identifiers()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("TotalValue ignores undeclared", func(t *testing.T) {
		if got := s.TotalValue(); got != 7500 {
			t.Errorf("TotalValue() = %v, want 7500", got)
		}
	})

	t.Run("empty snapshot", func(t *testing.T) {
		var empty Snapshot
		if got := empty.TotalValue(); got != 0 {
			t.Errorf("TotalValue() = %v, want 0", got)
		}
		if got := empty.Identifiers(); len(got) != 0 {
			t.Errorf("Identifiers() = %v, want empty", got)
		}
	})
}

func TestComparisonRowJSON(t *testing.T) {
	row := ComparisonRow{
		Identifier:    TotalIdentifier,
		IssuerName:    "Total Assets Under Management",
		PriorValue:    ptr(int64(1000)),
		CurrentValue:  ptr(int64(2200)),
		PercentChange: ptr(120.0),
		Status:        StatusTotal,

		PriorPortfolioPercent:   100,
		CurrentPortfolioPercent: 100,
	}

	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)

	for _, want := range []string{
		`"cusip":"TOTAL"`,
		`"prior_shares":null`,
		`"current_shares":null`,
		`"delta_shares":null`,
		`"current_value":2200`,
		`"status":"TOTAL"`,
		`"current_percent_of_portfolio":100`,
		`"change_in_portfolio_pct":0`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON %s missing %s", got, want)
		}
	}
}

func TestStageError(t *testing.T) {
	t.Run("with accession", func(t *testing.T) {
		err := &StageError{FundID: "0001067983", Stage: StageFetch, Accession: "0000950123-24-011775", Err: ErrRetrieval}
		want := "cik 0001067983: fetch 0000950123-24-011775: retrieval failure"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("without accession", func(t *testing.T) {
		err := &StageError{FundID: "0001067983", Stage: StageLocate, Err: ErrNotFound}
		want := "cik 0001067983: locate: fund not found"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("errors.Is through wrapping", func(t *testing.T) {
		inner := fmt.Errorf("%w: unexpected EOF", ErrMalformedDocument)
		var err error = &StageError{FundID: "1", Stage: StageParse, Err: inner}
		err = fmt.Errorf("compare: %w", err)

		if !errors.Is(err, ErrMalformedDocument) {
			t.Error("errors.Is(err, ErrMalformedDocument) = false, want true")
		}
		if errors.Is(err, ErrNotFound) {
			t.Error("errors.Is(err, ErrNotFound) = true, want false")
		}

		var se *StageError
		if !errors.As(err, &se) || se.Stage != StageParse {
			t.Errorf("errors.As stage = %v, want %q", se, StageParse)
		}
	})
}
