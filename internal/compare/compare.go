package compare

import (
	"math"
	"strconv"

	"github.com/rickgao/thirteenf/internal/model"
)

// TotalIssuerName is the issuer shown on the TOTAL row.
const TotalIssuerName = "Total Assets Under Management"

// Reconcile compares current against prior and returns the rows and their
// summary. It never fails; empty snapshots yield only the TOTAL row.
func Reconcile(current, prior model.Snapshot) ([]model.ComparisonRow, model.Summary) {
	ids := union(current, prior)
	totalCurrent := current.TotalValue()
	totalPrior := prior.TotalValue()

	rows := make([]model.ComparisonRow, 0, len(ids)+1)
	for _, id := range ids {
		cur, hasCur := current[id]
		prv, hasPrv := prior[id]
		rows = append(rows, buildRow(id, cur, hasCur, prv, hasPrv, totalCurrent, totalPrior))
	}
	rows = append(rows, totalRow(totalCurrent, totalPrior, truncatedTotal(current), truncatedTotal(prior)))

	return rows, Summarize(rows)
}

// Summarize counts rows per status and sums current values. The TOTAL row is
// skipped, so TotalCurrentValue is computed independently of it.
func Summarize(rows []model.ComparisonRow) model.Summary {
	var s model.Summary
	for _, row := range rows {
		if row.Status == model.StatusTotal {
			continue
		}
		s.TotalPositions++

		switch row.Status {
		case model.StatusNew:
			s.NewPositions++
		case model.StatusExited:
			s.ExitedPositions++
		case model.StatusIncreased:
			s.IncreasedPositions++
		case model.StatusDecreased:
			s.DecreasedPositions++
		case model.StatusUnchanged:
			s.UnchangedPositions++
		}

		if row.CurrentValue != nil {
			s.TotalCurrentValue += *row.CurrentValue
		}
	}
	return s
}

// ClassifyShares derives the row status from the two share counts as
// parsed, before truncation. A fractional prior holding of 0.5 that drops to
// 0 is EXITED even though both truncated share columns read 0.
func ClassifyShares(priorShares, currentShares float64) model.Status {
	delta := currentShares - priorShares
	switch {
	case priorShares == 0 && currentShares > 0:
		return model.StatusNew
	case priorShares > 0 && currentShares == 0:
		return model.StatusExited
	case delta > 0:
		return model.StatusIncreased
	case delta < 0:
		return model.StatusDecreased
	default:
		return model.StatusUnchanged
	}
}

func buildRow(id string, cur model.Holding, hasCur bool, prv model.Holding, hasPrv bool, totalCurrent, totalPrior float64) model.ComparisonRow {
	var curShares, prvShares float64
	if hasCur {
		curShares = cur.ShareCount
	}
	if hasPrv {
		prvShares = prv.ShareCount
	}

	row := model.ComparisonRow{
		Identifier:    id,
		PriorShares:   truncate(prvShares),
		CurrentShares: truncate(curShares),
		DeltaShares:   truncate(curShares - prvShares),
		Status:        ClassifyShares(prvShares, curShares),
	}

	switch {
	case hasCur:
		row.IssuerName, row.ClassTitle = cur.IssuerName, cur.ClassTitle
	case hasPrv:
		row.IssuerName, row.ClassTitle = prv.IssuerName, prv.ClassTitle
	}

	var curValue, prvValue *float64
	if hasCur {
		curValue = cur.MarketValue
	}
	if hasPrv {
		prvValue = prv.MarketValue
	}
	if curValue != nil {
		row.CurrentValue = truncate(*curValue)
	}
	if prvValue != nil {
		row.PriorValue = truncate(*prvValue)
	}

	row.PercentChange = percentChange(curValue, prvValue)

	curPct := portfolioPercent(curValue, totalCurrent)
	prvPct := portfolioPercent(prvValue, totalPrior)
	row.CurrentPortfolioPercent = round2(curPct)
	row.PriorPortfolioPercent = round2(prvPct)
	row.PortfolioPercentChange = round2(curPct - prvPct)

	return row
}

// totalRow reports the sum of the truncated row values so that the TOTAL
// values always equal the column sums. The percent change uses the exact
// float totals, like the portfolio percents.
func totalRow(totalCurrent, totalPrior float64, sumCurrent, sumPrior int64) model.ComparisonRow {
	change := 0.0
	if totalPrior != 0 {
		change = round2((totalCurrent - totalPrior) / totalPrior * 100)
	}
	return model.ComparisonRow{
		Identifier:              model.TotalIdentifier,
		IssuerName:              TotalIssuerName,
		PriorValue:              &sumPrior,
		CurrentValue:            &sumCurrent,
		PercentChange:           &change,
		Status:                  model.StatusTotal,
		PriorPortfolioPercent:   100,
		CurrentPortfolioPercent: 100,
	}
}

// percentChange returns nil when a new value appears from a zero or missing base.
func percentChange(curValue, prvValue *float64) *float64 {
	var change float64
	switch {
	case prvValue != nil && *prvValue > 0:
		if curValue == nil {
			change = -100
		} else {
			change = round2((*curValue - *prvValue) / *prvValue * 100)
		}
	case curValue != nil && *curValue > 0:
		return nil
	}
	return &change
}

func portfolioPercent(value *float64, total float64) float64 {
	if value == nil || total <= 0 {
		return 0
	}
	return *value / total * 100
}

// truncatedTotal sums declared values after truncating each one, matching
// the per-row value columns.
func truncatedTotal(s model.Snapshot) int64 {
	var total int64
	for _, h := range s {
		if h.MarketValue != nil {
			total += *truncate(*h.MarketValue)
		}
	}
	return total
}

// truncate converts toward zero.
func truncate(f float64) *int64 {
	v := int64(f)
	return &v
}

// round2 rounds the exact binary value of f to two decimal places, ties to
// even. 2.675 is stored as 2.67499999... and rounds to 2.67.
func round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	if err != nil {
		return f
	}
	return v
}

func union(a, b model.Snapshot) []string {
	merged := make(model.Snapshot, len(a)+len(b))
	for id, h := range b {
		merged[id] = h
	}
	for id, h := range a {
		merged[id] = h
	}
	return merged.Identifiers()
}
