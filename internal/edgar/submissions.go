package edgar

import (
	"context"
	"fmt"
)

// GetSubmissions fetches the submission history for a zero-padded CIK.
func (c *Client) GetSubmissions(ctx context.Context, cik string) (*SubmissionsResponse, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.dataURL, cik)

	var resp SubmissionsResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("get submissions %s: %w", cik, err)
	}
	return &resp, nil
}

// GetSubmissionsPage fetches an older page listed in filings.files.
func (c *Client) GetSubmissionsPage(ctx context.Context, name string) (*FilingColumns, error) {
	url := fmt.Sprintf("%s/submissions/%s", c.dataURL, name)

	var resp FilingColumns
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("get submissions page %s: %w", name, err)
	}
	return &resp, nil
}

// GetFilingIndex fetches the directory listing of one filing.
func (c *Client) GetFilingIndex(ctx context.Context, cik, accession string) (*FilingIndexResponse, error) {
	url := c.ArchiveURL(cik, accession, "index.json")

	var resp FilingIndexResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("get filing index %s: %w", accession, err)
	}
	return &resp, nil
}

// FetchDocument downloads a raw document.
func (c *Client) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch document %s: %w", url, err)
	}
	return body, nil
}
