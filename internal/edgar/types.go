package edgar

// SubmissionsResponse from GET /submissions/CIK##########.json
type SubmissionsResponse struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent FilingColumns    `json:"recent"`
		Files  []SubmissionFile `json:"files"`
	} `json:"filings"`
}

// FilingColumns holds the submission history in columnar form: index i of
// every slice describes the same filing. Newest filings come first.
type FilingColumns struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// SubmissionFile references an older page of the submission history.
type SubmissionFile struct {
	Name        string `json:"name"`
	FilingCount int    `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

// FilingIndexResponse from GET /Archives/edgar/data/<cik>/<accession>/index.json
type FilingIndexResponse struct {
	Directory struct {
		Name      string      `json:"name"`
		ParentDir string      `json:"parent-dir"`
		Item      []IndexItem `json:"item"`
	} `json:"directory"`
}

// IndexItem is one file in a filing directory.
type IndexItem struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Size         string `json:"size"`
	LastModified string `json:"last-modified"`
}
