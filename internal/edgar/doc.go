// Package edgar provides a client for the SEC EDGAR data endpoints.
//
// Endpoints:
//   - Submissions: https://data.sec.gov/submissions/CIK##########.json
//   - Older submission pages: https://data.sec.gov/submissions/<file name>
//   - Filing index: https://www.sec.gov/Archives/edgar/data/<cik>/<accession>/index.json
//   - Documents: https://www.sec.gov/Archives/edgar/data/<cik>/<accession>/<filename>
//
// SEC requires a descriptive User-Agent on every request and enforces a
// fair-access rate limit, so every call waits on a ratelimit.Limiter.
// Failed requests are returned to the caller and never retried here.
package edgar
