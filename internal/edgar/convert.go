package edgar

import (
	"strings"

	"github.com/rickgao/thirteenf/internal/model"
)

// ToModel converts the columnar history to filings, newest first.
// Missing trailing columns yield empty strings.
func (f *FilingColumns) ToModel() []model.Filing {
	filings := make([]model.Filing, 0, len(f.Form))
	for i := range f.Form {
		filings = append(filings, model.Filing{
			AccessionNumber: at(f.AccessionNumber, i),
			Form:            f.Form[i],
			FilingDate:      at(f.FilingDate, i),
			ReportDate:      at(f.ReportDate, i),
			PrimaryDocument: at(f.PrimaryDocument, i),
		})
	}
	return filings
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// ArchiveURL builds the archive URL of a file inside a filing directory.
// The CIK loses its zero padding and the accession number its dashes.
func (c *Client) ArchiveURL(cik, accession, filename string) string {
	return c.archivesURL + "/" + UnpaddedCIK(cik) + "/" + strings.ReplaceAll(accession, "-", "") + "/" + filename
}

// UnpaddedCIK strips leading zeros; an all-zero CIK stays "0".
func UnpaddedCIK(cik string) string {
	trimmed := strings.TrimLeft(cik, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
