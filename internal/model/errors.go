package model

import (
	"errors"
	"fmt"
)

// Failure kinds. Use errors.Is to classify an error returned by the core.
var (
	ErrNotFound            = errors.New("fund not found")
	ErrInsufficientFilings = errors.New("insufficient 13F filings")
	ErrRetrieval           = errors.New("retrieval failure")
	ErrMalformedDocument   = errors.New("malformed document")
	ErrInvalidFundID       = errors.New("invalid fund identifier")
)

// Pipeline stages reported in StageError.
const (
	StageLocate = "locate"
	StageFetch  = "fetch"
	StageParse  = "parse"
)

// StageError records which fund and which stage failed.
type StageError struct {
	FundID    string
	Stage     string
	Accession string // Empty when the failure is not tied to one filing
	Err       error
}

func (e *StageError) Error() string {
	if e.Accession != "" {
		return fmt.Sprintf("cik %s: %s %s: %v", e.FundID, e.Stage, e.Accession, e.Err)
	}
	return fmt.Sprintf("cik %s: %s: %v", e.FundID, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
