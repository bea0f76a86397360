package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrChecksumMismatch means stored content no longer matches its checksum.
	ErrChecksumMismatch = errors.New("stored document checksum mismatch")

	// ErrContentDrift means a Put carried different bytes for an accession
	// that is already stored.
	ErrContentDrift = errors.New("document content drift")
)

const schema = `
CREATE TABLE IF NOT EXISTS filing_documents (
	accession_number TEXT PRIMARY KEY,
	fund_id          TEXT NOT NULL,
	url              TEXT NOT NULL,
	content          BYTEA NOT NULL,
	checksum         TEXT NOT NULL,
	fetched_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS filing_documents_fund_id_idx ON filing_documents (fund_id);
`

// DB is the subset of *pgxpool.Pool used by Documents.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Document is one stored filing document.
type Document struct {
	AccessionNumber string
	FundID          string
	URL             string
	Content         []byte
	Checksum        string
	FetchedAt       time.Time
}

// Metrics holds store counters.
type Metrics struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Inserts   int64 `json:"inserts"`
	Conflicts int64 `json:"conflicts"`
	Drifts    int64 `json:"drifts"`
	Errors    int64 `json:"errors"`
}

// Documents reads and writes the filing_documents table.
type Documents struct {
	db     DB
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	metrics Metrics
}

// NewDocuments creates a document store over db.
func NewDocuments(db DB, logger *slog.Logger) *Documents {
	if logger == nil {
		logger = slog.Default()
	}
	return &Documents{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Checksum returns the hex xxhash64 of content.
func Checksum(content []byte) string {
	return strconv.FormatUint(xxhash.Sum64(content), 16)
}

// EnsureSchema creates the table if it does not exist.
func (d *Documents) EnsureSchema(ctx context.Context) error {
	if _, err := d.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Get returns the stored document for accession. The bool is false when the
// accession is not stored.
func (d *Documents) Get(ctx context.Context, accession string) (Document, bool, error) {
	doc := Document{AccessionNumber: accession}
	err := d.db.QueryRow(ctx, `
		SELECT fund_id, url, content, checksum, fetched_at
		FROM filing_documents
		WHERE accession_number = $1
	`, accession).Scan(&doc.FundID, &doc.URL, &doc.Content, &doc.Checksum, &doc.FetchedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		d.count(func(m *Metrics) { m.Misses++ })
		return Document{}, false, nil
	}
	if err != nil {
		d.count(func(m *Metrics) { m.Errors++ })
		return Document{}, false, fmt.Errorf("get document %s: %w", accession, err)
	}

	if got := Checksum(doc.Content); got != doc.Checksum {
		d.count(func(m *Metrics) { m.Errors++ })
		return Document{}, false, fmt.Errorf("get document %s: %w (stored %s, computed %s)", accession, ErrChecksumMismatch, doc.Checksum, got)
	}

	d.count(func(m *Metrics) { m.Hits++ })
	return doc, true, nil
}

// Put stores doc unless its accession is already present. The checksum is
// always recomputed from Content; FetchedAt defaults to now.
func (d *Documents) Put(ctx context.Context, doc Document) error {
	doc.Checksum = Checksum(doc.Content)
	if doc.FetchedAt.IsZero() {
		doc.FetchedAt = d.now()
	}

	ct, err := d.db.Exec(ctx, `
		INSERT INTO filing_documents (accession_number, fund_id, url, content, checksum, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (accession_number) DO NOTHING
	`, doc.AccessionNumber, doc.FundID, doc.URL, doc.Content, doc.Checksum, doc.FetchedAt)
	if err != nil {
		d.count(func(m *Metrics) { m.Errors++ })
		return fmt.Errorf("put document %s: %w", doc.AccessionNumber, err)
	}

	if ct.RowsAffected() > 0 {
		d.count(func(m *Metrics) { m.Inserts++ })
		d.logger.Debug("stored document",
			"accession", doc.AccessionNumber,
			"bytes", len(doc.Content),
		)
		return nil
	}

	d.count(func(m *Metrics) { m.Conflicts++ })
	return d.checkDrift(ctx, doc)
}

// checkDrift compares an incoming document against the stored checksum.
func (d *Documents) checkDrift(ctx context.Context, doc Document) error {
	var stored string
	err := d.db.QueryRow(ctx, `
		SELECT checksum FROM filing_documents WHERE accession_number = $1
	`, doc.AccessionNumber).Scan(&stored)
	if err != nil {
		return fmt.Errorf("check drift %s: %w", doc.AccessionNumber, err)
	}
	if stored == doc.Checksum {
		return nil
	}

	d.count(func(m *Metrics) { m.Drifts++ })
	d.logger.Warn("document content drift",
		"accession", doc.AccessionNumber,
		"stored", stored,
		"incoming", doc.Checksum,
	)
	return fmt.Errorf("put document %s: %w", doc.AccessionNumber, ErrContentDrift)
}

// Stats returns current metrics.
func (d *Documents) Stats() Metrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metrics
}

func (d *Documents) count(fn func(*Metrics)) {
	d.mu.Lock()
	fn(&d.metrics)
	d.mu.Unlock()
}
