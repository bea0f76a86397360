package report

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rickgao/thirteenf/internal/model"
)

// DefaultMaxRows bounds the position table.
const DefaultMaxRows = 1000

// Options controls rendering.
type Options struct {
	MaxRows int // Position rows shown before truncation; TOTAL is always shown
}

var printer = message.NewPrinter(language.English)

// Markdown renders a comparison as a Markdown document.
func Markdown(c *model.Comparison, opts Options) string {
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultMaxRows
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title(c))
	if c.Cached {
		doc.PlainText(md.Italic(fmt.Sprintf("Served from cache, generated %s.", c.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))))
	}

	doc.H2("Filings")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Filing", "Filed", "Period"},
		Rows: [][]string{
			{"Current", c.Meta.CurrentDate, c.Meta.CurrentReportDate},
			{"Prior", c.Meta.PriorDate, c.Meta.PriorReportDate},
		},
	})

	doc.H2("Summary")
	s := c.Summary
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Positions", "Count"},
		Rows: [][]string{
			{"Total", formatInt(int64(s.TotalPositions))},
			{"New", formatInt(int64(s.NewPositions))},
			{"Exited", formatInt(int64(s.ExitedPositions))},
			{"Increased", formatInt(int64(s.IncreasedPositions))},
			{"Decreased", formatInt(int64(s.DecreasedPositions))},
			{"Unchanged", formatInt(int64(s.UnchangedPositions))},
			{md.Bold("Current value"), md.Bold(formatInt(s.TotalCurrentValue))},
		},
	})

	doc.H2("Positions")
	positions, total := splitTotal(c.Rows)
	shown := positions
	if len(shown) > opts.MaxRows {
		shown = shown[:opts.MaxRows]
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight,
			md.AlignRight, md.AlignRight, md.AlignRight,
			md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{
			"CUSIP", "Issuer", "Class",
			"Prior Shares", "Current Shares", "Change",
			"Prior Value", "Current Value", "Value %",
			"Status",
			"Prior Weight", "Current Weight", "Weight Change",
		},
	}
	for _, row := range shown {
		table.Rows = append(table.Rows, formatRow(row, false))
	}
	if total != nil {
		table.Rows = append(table.Rows, formatRow(*total, true))
	}
	doc.Table(table)

	if omitted := len(positions) - len(shown); omitted > 0 {
		doc.PlainText(fmt.Sprintf("%s more positions not shown.", formatInt(int64(omitted))))
	}

	return doc.String()
}

func title(c *model.Comparison) string {
	if c.FundName != "" {
		return fmt.Sprintf("13F Holdings Comparison: %s (CIK %s)", c.FundName, c.FundID)
	}
	return fmt.Sprintf("13F Holdings Comparison: CIK %s", c.FundID)
}

// splitTotal separates the TOTAL row from the position rows.
func splitTotal(rows []model.ComparisonRow) ([]model.ComparisonRow, *model.ComparisonRow) {
	positions := make([]model.ComparisonRow, 0, len(rows))
	var total *model.ComparisonRow
	for i := range rows {
		if rows[i].Status == model.StatusTotal {
			total = &rows[i]
			continue
		}
		positions = append(positions, rows[i])
	}
	return positions, total
}

func formatRow(r model.ComparisonRow, bold bool) []string {
	cells := []string{
		r.Identifier,
		r.IssuerName,
		r.ClassTitle,
		formatOptInt(r.PriorShares),
		formatOptInt(r.CurrentShares),
		formatSigned(r.DeltaShares),
		formatOptInt(r.PriorValue),
		formatOptInt(r.CurrentValue),
		formatPercent(r.PercentChange),
		string(r.Status),
		fmt.Sprintf("%.2f%%", r.PriorPortfolioPercent),
		fmt.Sprintf("%.2f%%", r.CurrentPortfolioPercent),
		fmt.Sprintf("%+.2f", r.PortfolioPercentChange),
	}
	if bold {
		for i, cell := range cells {
			if cell != "" {
				cells[i] = md.Bold(cell)
			}
		}
	}
	return cells
}

func formatInt(v int64) string {
	return printer.Sprintf("%d", v)
}

func formatOptInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return formatInt(*v)
}

func formatSigned(v *int64) string {
	if v == nil {
		return "-"
	}
	if *v > 0 {
		return "+" + formatInt(*v)
	}
	return formatInt(*v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}
