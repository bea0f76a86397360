package report

import (
	"bytes"
	"fmt"
	"sort"

	md "github.com/nao1215/markdown"

	"github.com/rickgao/thirteenf/internal/locator"
	"github.com/rickgao/thirteenf/internal/model"
)

// Filings renders the two located information tables.
func Filings(l *locator.Located) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if l.FundName != "" {
		doc.H1(fmt.Sprintf("%s (CIK %s)", l.FundName, l.FundID))
	} else {
		doc.H1(fmt.Sprintf("CIK %s", l.FundID))
	}

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Filing", "Accession", "Filed", "Period", "Document", "URL"},
		Rows: [][]string{
			locationRow("Current", l.Current, l.Meta.CurrentDate, l.Meta.CurrentReportDate),
			locationRow("Prior", l.Prior, l.Meta.PriorDate, l.Meta.PriorReportDate),
		},
	})

	if l.Current.Assumed || l.Prior.Assumed {
		doc.PlainText(md.Italic("Documents marked * were not listed in the filing index; the canonical filename was assumed."))
	}
	return doc.String()
}

func locationRow(label string, loc model.DocumentLocation, filed, period string) []string {
	name := loc.Filename
	if loc.Assumed {
		name += " *"
	}
	return []string{label, loc.AccessionNumber, filed, period, name, loc.URL}
}

// Holdings renders one parsed snapshot, largest positions by value first.
func Holdings(title string, s model.Snapshot, opts Options) string {
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultMaxRows
	}

	holdings := make([]model.Holding, 0, len(s))
	for _, id := range s.Identifiers() {
		holdings = append(holdings, s[id])
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		return value(holdings[i]) > value(holdings[j])
	})

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)
	doc.PlainText(fmt.Sprintf("%s positions, total value %s.", formatInt(int64(len(s))), formatInt(int64(s.TotalValue()))))

	shown := holdings
	if len(shown) > opts.MaxRows {
		shown = shown[:opts.MaxRows]
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"CUSIP", "Issuer", "Class", "Shares", "Value"},
	}
	for _, h := range shown {
		v := "-"
		if h.MarketValue != nil {
			v = formatInt(int64(*h.MarketValue))
		}
		table.Rows = append(table.Rows, []string{
			h.Identifier, h.IssuerName, h.ClassTitle, formatInt(int64(h.ShareCount)), v,
		})
	}
	doc.Table(table)

	if omitted := len(holdings) - len(shown); omitted > 0 {
		doc.PlainText(fmt.Sprintf("%s more positions not shown.", formatInt(int64(omitted))))
	}
	return doc.String()
}

func value(h model.Holding) float64 {
	if h.MarketValue == nil {
		return -1
	}
	return *h.MarketValue
}
