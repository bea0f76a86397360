// Package model defines shared data types used across the 13F holdings service.
//
// Conventions:
//   - Identifiers: 9-character CUSIP strings, used as map keys within a filing
//   - Fund IDs: SEC CIK, zero-padded to 10 digits
//   - Values: reporting currency in thousands, as declared by the filer
//   - Dates: ISO 8601 strings exactly as returned by EDGAR (YYYY-MM-DD)
package model
