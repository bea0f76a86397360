package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Holdings
// -----------------------------------------------------------------------------

// Holding is one security position disclosed in a single filing.
type Holding struct {
	Identifier  string   `json:"cusip"`        // Primary key within a filing
	IssuerName  string   `json:"issuer"`       // Free text, may be empty
	ClassTitle  string   `json:"titleOfClass"` // Free text, may be empty
	MarketValue *float64 `json:"value"`        // Thousands; nil when undeclared
	ShareCount  float64  `json:"shares"`       // 0 when undeclared
}

// Snapshot maps identifier to Holding for every position in one filing.
// A Snapshot is not modified after it is parsed.
type Snapshot map[string]Holding

// Identifiers returns the snapshot keys in ascending order.
func (s Snapshot) Identifiers() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TotalValue sums declared market values, counting undeclared ones as 0.
func (s Snapshot) TotalValue() float64 {
	var total float64
	for _, h := range s {
		if h.MarketValue != nil {
			total += *h.MarketValue
		}
	}
	return total
}

// -----------------------------------------------------------------------------
// Filings
// -----------------------------------------------------------------------------

// Filing is one entry of a fund's submission history.
type Filing struct {
	AccessionNumber string // e.g. "0000950123-24-011775"
	Form            string // e.g. "13F-HR"
	FilingDate      string
	ReportDate      string
	PrimaryDocument string // Cover document filename, may be empty
}

// FilingMeta describes the two filings that were compared.
type FilingMeta struct {
	CurrentDate       string `json:"current_date"`
	PriorDate         string `json:"prior_date"`
	CurrentReportDate string `json:"current_report_date"`
	PriorReportDate   string `json:"prior_report_date"`
}

// DocumentLocation is a resolved information table document.
type DocumentLocation struct {
	FundID          string `json:"cik"`
	AccessionNumber string `json:"accession_number"`
	Filename        string `json:"filename"`
	URL             string `json:"url"`

	// Assumed is set when no index entry matched and the canonical
	// filename was assumed to exist. Fetching it may still fail.
	Assumed bool `json:"assumed"`
}

// SnapshotPair is what the cache keeps per fund.
type SnapshotPair struct {
	FundID          string
	FundName        string
	Current         Snapshot
	Prior           Snapshot
	Meta            FilingMeta
	CurrentLocation DocumentLocation
	PriorLocation   DocumentLocation
	FetchedAt       time.Time
}

// -----------------------------------------------------------------------------
// Comparison
// -----------------------------------------------------------------------------

// Status classifies a comparison row.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusExited    Status = "EXITED"
	StatusIncreased Status = "INCREASED"
	StatusDecreased Status = "DECREASED"
	StatusUnchanged Status = "UNCHANGED"
	StatusTotal     Status = "TOTAL"
)

// TotalIdentifier is the identifier of the synthetic aggregate row.
const TotalIdentifier = "TOTAL"

// ComparisonRow is the delta for one identifier, or the aggregate TOTAL row.
// Nil pointers are rendered as JSON null.
type ComparisonRow struct {
	Identifier string `json:"cusip"`
	IssuerName string `json:"issuer"`
	ClassTitle string `json:"titleOfClass"`

	PriorShares   *int64 `json:"prior_shares"`
	CurrentShares *int64 `json:"current_shares"`
	DeltaShares   *int64 `json:"delta_shares"`

	PriorValue    *int64   `json:"prior_value"`
	CurrentValue  *int64   `json:"current_value"`
	PercentChange *float64 `json:"percent_change"`

	Status Status `json:"status"`

	PriorPortfolioPercent   float64 `json:"prior_percent_of_portfolio"`
	CurrentPortfolioPercent float64 `json:"current_percent_of_portfolio"`
	PortfolioPercentChange  float64 `json:"change_in_portfolio_pct"`
}

// Summary aggregates non-TOTAL comparison rows.
type Summary struct {
	TotalPositions     int   `json:"total_positions"`
	NewPositions       int   `json:"new_positions"`
	ExitedPositions    int   `json:"exited_positions"`
	IncreasedPositions int   `json:"increased_positions"`
	DecreasedPositions int   `json:"decreased_positions"`
	UnchangedPositions int   `json:"unchanged_positions"`
	TotalCurrentValue  int64 `json:"total_current_value"`
}

// Comparison is the result handed to presentation layers.
type Comparison struct {
	RunID       uuid.UUID       `json:"run_id"`
	FundID      string          `json:"cik"`
	FundName    string          `json:"fund_name,omitempty"`
	Meta        FilingMeta      `json:"metadata"`
	Summary     Summary         `json:"summary"`
	Rows        []ComparisonRow `json:"comparison"`
	Cached      bool            `json:"cached"`
	GeneratedAt time.Time       `json:"generated_at"`
}
