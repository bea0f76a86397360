package edgar

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/thirteenf/internal/ratelimit"
)

// countingLimiter records how many permits were requested.
type countingLimiter struct {
	calls atomic.Int32
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.calls.Add(1)
	return l.err
}

func newTestClient(serverURL string, opts ...ClientOption) *Client {
	opts = append([]ClientOption{WithLimiter(ratelimit.Nop{})}, opts...)
	return NewClient(serverURL, serverURL+"/Archives/edgar/data", "Test Agent test@example.com", opts...)
}

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient(DefaultDataURL+"/", DefaultArchivesURL, "Research research@example.com")

		if c.dataURL != DefaultDataURL {
			t.Errorf("dataURL = %q, want %q", c.dataURL, DefaultDataURL)
		}
		if c.archivesURL != DefaultArchivesURL {
			t.Errorf("archivesURL = %q, want %q", c.archivesURL, DefaultArchivesURL)
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.limiter == nil {
			t.Error("limiter should not be nil")
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		hc := &http.Client{}
		limiter := ratelimit.Nop{}

		c := NewClient(DefaultDataURL, DefaultArchivesURL, "ua",
			WithHTTPClient(hc),
			WithTimeout(5*time.Second),
			WithLogger(logger),
			WithLimiter(limiter),
		)
		if c.httpClient != hc {
			t.Error("custom HTTP client not set")
		}
		if hc.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", hc.Timeout, 5*time.Second)
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
		if c.limiter != limiter {
			t.Error("limiter not set correctly")
		}
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "Not Found"}
	if err.Error() != "edgar error 404: Not Found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !err.IsNotFound() {
		t.Error("IsNotFound() = false, want true")
	}
	if (&APIError{StatusCode: 503}).IsNotFound() {
		t.Error("IsNotFound() for 503 = true, want false")
	}
}

// TestDoRequest tests the HTTP request functionality.
func TestDoRequest(t *testing.T) {
	t.Run("sets user agent and consults limiter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("User-Agent"); got != "Test Agent test@example.com" {
				t.Errorf("User-Agent = %q", got)
			}
			w.Write([]byte(`ok`))
		}))
		defer server.Close()

		limiter := &countingLimiter{}
		c := newTestClient(server.URL, WithLimiter(limiter))

		body, err := c.doRequest(context.Background(), server.URL+"/x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != "ok" {
			t.Errorf("body = %q, want %q", body, "ok")
		}
		if got := limiter.calls.Load(); got != 1 {
			t.Errorf("limiter calls = %d, want 1", got)
		}
	})

	t.Run("limiter error aborts request", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		c := newTestClient(server.URL, WithLimiter(&countingLimiter{err: context.Canceled}))
		_, err := c.doRequest(context.Background(), server.URL+"/x")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if hits.Load() != 0 {
			t.Errorf("server hits = %d, want 0", hits.Load())
		}
	})

	t.Run("error status returns APIError without retry", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`slow down`))
		}))
		defer server.Close()

		c := newTestClient(server.URL)
		_, err := c.doRequest(context.Background(), server.URL+"/x")

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("StatusCode = %d", apiErr.StatusCode)
		}
		if !strings.Contains(string(apiErr.Body), "slow down") {
			t.Errorf("Body = %q", apiErr.Body)
		}
		if hits.Load() != 1 {
			t.Errorf("server hits = %d, want 1", hits.Load())
		}
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		c := newTestClient(server.URL, WithTimeout(20*time.Millisecond))
		if _, err := c.doRequest(context.Background(), server.URL+"/x"); err == nil {
			t.Fatal("expected timeout error, got nil")
		}
	})
}

func TestGetSubmissions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/submissions/CIK0001067983.json":
			w.Write([]byte(`{
				"cik": "1067983",
				"name": "BERKSHIRE HATHAWAY INC",
				"filings": {
					"recent": {
						"accessionNumber": ["0000950123-24-011775", "0000950123-24-008740"],
						"filingDate": ["2024-11-14", "2024-08-14"],
						"reportDate": ["2024-09-30", "2024-06-30"],
						"form": ["13F-HR", "13F-HR"],
						"primaryDocument": ["xslForm13F_X02/primary_doc.xml", "xslForm13F_X02/primary_doc.xml"]
					},
					"files": [{"name": "CIK0001067983-submissions-001.json", "filingCount": 2000, "filingFrom": "1998-01-01", "filingTo": "2015-01-01"}]
				}
			}`))
		case "/submissions/CIK0001067983-submissions-001.json":
			w.Write([]byte(`{"accessionNumber": ["0001"], "form": ["13F-HR"], "filingDate": ["2014-11-14"], "reportDate": ["2014-09-30"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	t.Run("recent filings", func(t *testing.T) {
		resp, err := c.GetSubmissions(context.Background(), "0001067983")
		if err != nil {
			t.Fatalf("GetSubmissions: %v", err)
		}
		if resp.Name != "BERKSHIRE HATHAWAY INC" {
			t.Errorf("Name = %q", resp.Name)
		}
		filings := resp.Filings.Recent.ToModel()
		if len(filings) != 2 {
			t.Fatalf("len(filings) = %d, want 2", len(filings))
		}
		if filings[0].AccessionNumber != "0000950123-24-011775" || filings[0].ReportDate != "2024-09-30" {
			t.Errorf("filings[0] = %+v", filings[0])
		}
		if len(resp.Filings.Files) != 1 {
			t.Errorf("len(Files) = %d, want 1", len(resp.Filings.Files))
		}
	})

	t.Run("older page", func(t *testing.T) {
		page, err := c.GetSubmissionsPage(context.Background(), "CIK0001067983-submissions-001.json")
		if err != nil {
			t.Fatalf("GetSubmissionsPage: %v", err)
		}
		filings := page.ToModel()
		if len(filings) != 1 || filings[0].FilingDate != "2014-11-14" {
			t.Errorf("filings = %+v", filings)
		}
		if filings[0].PrimaryDocument != "" {
			t.Errorf("PrimaryDocument = %q, want empty for missing column", filings[0].PrimaryDocument)
		}
	})

	t.Run("unknown cik", func(t *testing.T) {
		_, err := c.GetSubmissions(context.Background(), "0000000042")
		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsNotFound() {
			t.Errorf("error = %v, want 404 APIError", err)
		}
	})
}

func TestGetFilingIndexAndFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Archives/edgar/data/1067983/000095012324011775/index.json":
			w.Write([]byte(`{"directory": {"name": "/Archives/edgar/data/1067983/000095012324011775", "item": [
				{"name": "primary_doc.xml", "type": "text.gif", "size": "3214"},
				{"name": "46994.xml", "type": "text.gif", "size": "41024"}
			]}}`))
		case "/Archives/edgar/data/1067983/000095012324011775/46994.xml":
			w.Write([]byte(`<informationTable/>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	idx, err := c.GetFilingIndex(context.Background(), "0001067983", "0000950123-24-011775")
	if err != nil {
		t.Fatalf("GetFilingIndex: %v", err)
	}
	if len(idx.Directory.Item) != 2 || idx.Directory.Item[1].Name != "46994.xml" {
		t.Errorf("items = %+v", idx.Directory.Item)
	}

	body, err := c.FetchDocument(context.Background(), c.ArchiveURL("0001067983", "0000950123-24-011775", "46994.xml"))
	if err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if string(body) != `<informationTable/>` {
		t.Errorf("body = %q", body)
	}
}

func TestArchiveURL(t *testing.T) {
	c := NewClient(DefaultDataURL, DefaultArchivesURL, "ua")
	got := c.ArchiveURL("0001346824", "0001346824-24-000012", "infotable.xml")
	want := "https://www.sec.gov/Archives/edgar/data/1346824/000134682424000012/infotable.xml"
	if got != want {
		t.Errorf("ArchiveURL() = %q, want %q", got, want)
	}

	if got := UnpaddedCIK("0000000000"); got != "0" {
		t.Errorf("UnpaddedCIK(zeros) = %q, want %q", got, "0")
	}
}
