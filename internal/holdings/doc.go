// Package holdings parses 13F information table documents into snapshots.
//
// Information tables published on EDGAR are XML, sometimes with a default
// namespace, sometimes wrapped in an XSL stylesheet or an HTML page. The
// parser extracts the informationTable element in those cases and retries
// once without the offending lines before reporting a malformed document.
package holdings
