package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/rickgao/thirteenf/internal/edgar"
	"github.com/rickgao/thirteenf/internal/model"
)

// Defaults for the holdings form and document name.
const (
	DefaultFormType      = "13F-HR"
	DefaultInfoTableName = "infotable.xml"
	primaryDocumentName  = "primary_doc.xml"
	fundIDWidth          = 10
)

// Source is the subset of the EDGAR client used by the locator.
type Source interface {
	GetSubmissions(ctx context.Context, cik string) (*edgar.SubmissionsResponse, error)
	GetSubmissionsPage(ctx context.Context, name string) (*edgar.FilingColumns, error)
	GetFilingIndex(ctx context.Context, cik, accession string) (*edgar.FilingIndexResponse, error)
	ArchiveURL(cik, accession, filename string) string
}

// Config holds locator configuration.
type Config struct {
	FormType      string // Filing form to select (default: 13F-HR)
	InfoTableName string // Canonical information table filename (default: infotable.xml)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		FormType:      DefaultFormType,
		InfoTableName: DefaultInfoTableName,
	}
}

// Located is the result of LocateTwoFilings.
type Located struct {
	FundID   string
	FundName string
	Current  model.DocumentLocation
	Prior    model.DocumentLocation
	Meta     model.FilingMeta
}

// Locator discovers filings through a Source.
type Locator struct {
	cfg    Config
	source Source
	logger *slog.Logger
}

// New creates a new Locator.
func New(cfg Config, source Source, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FormType == "" {
		cfg.FormType = DefaultFormType
	}
	if cfg.InfoTableName == "" {
		cfg.InfoTableName = DefaultInfoTableName
	}
	return &Locator{
		cfg:    cfg,
		source: source,
		logger: logger,
	}
}

// NormalizeFundID strips spaces and dashes and zero-pads the CIK to ten digits.
func NormalizeFundID(fundID string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(fundID))
	if cleaned == "" || len(cleaned) > fundIDWidth {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidFundID, fundID)
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", model.ErrInvalidFundID, fundID)
		}
	}
	return strings.Repeat("0", fundIDWidth-len(cleaned)) + cleaned, nil
}

// LocateTwoFilings finds the current and prior holdings documents of a fund.
// Failures are *model.StageError values wrapping ErrNotFound,
// ErrInsufficientFilings, ErrRetrieval or ErrInvalidFundID.
func (l *Locator) LocateTwoFilings(ctx context.Context, fundID string) (*Located, error) {
	cik, err := NormalizeFundID(fundID)
	if err != nil {
		return nil, &model.StageError{FundID: fundID, Stage: model.StageLocate, Err: err}
	}

	name, filings, err := l.latestFilings(ctx, cik, 2)
	if err != nil {
		return nil, &model.StageError{FundID: cik, Stage: model.StageLocate, Err: err}
	}
	if len(filings) < 2 {
		return nil, &model.StageError{
			FundID: cik,
			Stage:  model.StageLocate,
			Err:    fmt.Errorf("%w: found %d %s filings, need 2", model.ErrInsufficientFilings, len(filings), l.cfg.FormType),
		}
	}

	current := l.resolveDocument(ctx, cik, filings[0])
	prior := l.resolveDocument(ctx, cik, filings[1])

	l.logger.Info("located filings",
		"cik", cik,
		"current", current.AccessionNumber,
		"prior", prior.AccessionNumber,
	)

	return &Located{
		FundID:   cik,
		FundName: name,
		Current:  current,
		Prior:    prior,
		Meta: model.FilingMeta{
			CurrentDate:       filings[0].FilingDate,
			PriorDate:         filings[1].FilingDate,
			CurrentReportDate: filings[0].ReportDate,
			PriorReportDate:   filings[1].ReportDate,
		},
	}, nil
}

// latestFilings collects up to count filings of the configured form, newest
// first. Older submission pages are only fetched while more are needed.
func (l *Locator) latestFilings(ctx context.Context, cik string, count int) (string, []model.Filing, error) {
	resp, err := l.source.GetSubmissions(ctx, cik)
	if err != nil {
		var apiErr *edgar.APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return "", nil, fmt.Errorf("%w: %w", model.ErrNotFound, err)
		}
		return "", nil, fmt.Errorf("%w: %w", model.ErrRetrieval, err)
	}

	selected := l.selectForms(resp.Filings.Recent.ToModel(), nil, count)

	for _, file := range resp.Filings.Files {
		if len(selected) >= count {
			break
		}
		l.logger.Debug("reading older submissions page", "cik", cik, "page", file.Name)

		page, err := l.source.GetSubmissionsPage(ctx, file.Name)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", model.ErrRetrieval, err)
		}
		selected = l.selectForms(page.ToModel(), selected, count)
	}

	return resp.Name, selected, nil
}

func (l *Locator) selectForms(filings, selected []model.Filing, count int) []model.Filing {
	for _, f := range filings {
		if len(selected) >= count {
			break
		}
		if f.Form == l.cfg.FormType {
			selected = append(selected, f)
		}
	}
	return selected
}

// resolveDocument picks the information table inside a filing. Index
// failures are logged and fall back to the canonical filename.
func (l *Locator) resolveDocument(ctx context.Context, cik string, filing model.Filing) model.DocumentLocation {
	loc := model.DocumentLocation{
		FundID:          cik,
		AccessionNumber: filing.AccessionNumber,
	}

	idx, err := l.source.GetFilingIndex(ctx, cik, filing.AccessionNumber)
	if err != nil {
		l.logger.Warn("filing index unavailable, assuming canonical filename",
			"cik", cik,
			"accession", filing.AccessionNumber,
			"err", err,
		)
	} else if name, ok := l.pickInfoTable(idx.Directory.Item, filing.PrimaryDocument); ok {
		loc.Filename = name
		loc.URL = l.source.ArchiveURL(cik, filing.AccessionNumber, name)
		return loc
	}

	loc.Filename = l.cfg.InfoTableName
	loc.URL = l.source.ArchiveURL(cik, filing.AccessionNumber, l.cfg.InfoTableName)
	loc.Assumed = true
	return loc
}

// pickInfoTable applies the resolution order described in the package doc.
func (l *Locator) pickInfoTable(items []edgar.IndexItem, primaryDocument string) (string, bool) {
	var xmlFiles []string
	for _, item := range items {
		if strings.EqualFold(item.Name, l.cfg.InfoTableName) {
			return item.Name, true
		}
		if strings.EqualFold(path.Ext(item.Name), ".xml") {
			xmlFiles = append(xmlFiles, item.Name)
		}
	}

	for _, name := range xmlFiles {
		if !isPrimaryDocument(name, primaryDocument) {
			return name, true
		}
	}

	if len(xmlFiles) == 1 {
		return xmlFiles[0], true
	}
	return "", false
}

// isPrimaryDocument reports whether name is the filing's cover document.
// The submissions API reports it with an XSL rendering prefix
// (xslForm13F_X02/primary_doc.xml) while the index lists the bare name.
func isPrimaryDocument(name, primaryDocument string) bool {
	if strings.EqualFold(name, primaryDocumentName) {
		return true
	}
	return primaryDocument != "" && strings.EqualFold(name, path.Base(primaryDocument))
}
