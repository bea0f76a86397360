// Package store persists raw filing documents in PostgreSQL.
//
// EDGAR documents are addressed by accession number and never change once
// filed, so a stored copy is served instead of downloading it again. Each row
// carries an xxhash checksum of its content; a later Put with different bytes
// for the same accession is reported as drift and the stored copy is kept.
//
// Table:
//
//	filing_documents(accession_number PK, fund_id, url, content, checksum, fetched_at)
//
// Only raw inputs are stored. Comparison results are always recomputed.
package store
