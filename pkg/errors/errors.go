package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeDataset represents input parsing and loading errors
	ErrorTypeDataset ErrorType = "dataset"
	// ErrorTypeSampling represents negative-sampling errors
	ErrorTypeSampling ErrorType = "sampling"
	// ErrorTypeSplit represents fold-splitting errors
	ErrorTypeSplit ErrorType = "split"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeFetch represents dataset download errors
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Base exposes the embedded base error; promoted by every typed error
func (e *BaseError) Base() *BaseError {
	return e
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Dataset Errors

// ErrMalformedLine is returned when a line of a tab-separated input cannot be parsed
type ErrMalformedLine struct {
	*BaseError
	File string
	Line int
}

func NewMalformedLine(file string, line int, err error) *ErrMalformedLine {
	return &ErrMalformedLine{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("malformed line %d in %s", line, file), err),
		File:      file,
		Line:      line,
	}
}

// ErrDuplicateDrug is returned when both drug ids of an interaction row are equal
type ErrDuplicateDrug struct {
	*BaseError
	File   string
	Line   int
	DrugID string
}

func NewDuplicateDrug(file string, line int, drugID string) *ErrDuplicateDrug {
	return &ErrDuplicateDrug{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("drug paired with itself at line %d in %s: %s", line, file, drugID), nil),
		File:      file,
		Line:      line,
		DrugID:    drugID,
	}
}

// ErrMissingColumns is returned when an interaction row has too few columns
type ErrMissingColumns struct {
	*BaseError
	File string
	Line int
	Got  int
}

func NewMissingColumns(file string, line int, got int) *ErrMissingColumns {
	return &ErrMissingColumns{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("expected at least 3 columns at line %d in %s, got %d", line, file, got), nil),
		File:      file,
		Line:      line,
		Got:       got,
	}
}

// ErrDatasetTooSmall is returned when a dataset cannot cover the requested split sizes
type ErrDatasetTooSmall struct {
	*BaseError
	Need int
	Got  int
}

func NewDatasetTooSmall(need, got int) *ErrDatasetTooSmall {
	return &ErrDatasetTooSmall{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("dataset too small: need %d entries, got %d", need, got), nil),
		Need:      need,
		Got:       got,
	}
}

// Sampling Errors

// ErrSamplingExhausted is returned when rejection sampling cannot reach the target size
type ErrSamplingExhausted struct {
	*BaseError
	SideEffect string
	Want       int
	Got        int
}

func NewSamplingExhausted(sideEffect string, want, got int) *ErrSamplingExhausted {
	return &ErrSamplingExhausted{
		BaseError:  NewBaseError(ErrorTypeSampling, fmt.Sprintf("negative sampling exhausted for %s: wanted %d pairs, drew %d", sideEffect, want, got), nil),
		SideEffect: sideEffect,
		Want:       want,
		Got:        got,
	}
}

// Split Errors

// ErrInvalidFoldCount is returned when the fold count cannot partition a dataset
type ErrInvalidFoldCount struct {
	*BaseError
	NFold int
}

func NewInvalidFoldCount(nFold int) *ErrInvalidFoldCount {
	return &ErrInvalidFoldCount{
		BaseError: NewBaseError(ErrorTypeSplit, fmt.Sprintf("invalid fold count: %d", nFold), nil),
		NFold:     nFold,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when the Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", query), err),
		Query:     query,
	}
}

// Fetch Errors

// ErrFetchFailed is returned when downloading a dataset file fails
type ErrFetchFailed struct {
	*BaseError
	URL string
}

func NewFetchFailed(url string, err error) *ErrFetchFailed {
	return &ErrFetchFailed{
		BaseError: NewBaseError(ErrorTypeFetch, fmt.Sprintf("failed to fetch: %s", url), err),
		URL:       url,
	}
}

// ErrNoMatchingFiles is returned when the index page lists no files for a dataset
type ErrNoMatchingFiles struct {
	*BaseError
	IndexURL string
	Dataset  string
}

func NewNoMatchingFiles(indexURL, dataset string) *ErrNoMatchingFiles {
	return &ErrNoMatchingFiles{
		BaseError: NewBaseError(ErrorTypeFetch, fmt.Sprintf("no files for dataset %s found at %s", dataset, indexURL), nil),
		IndexURL:  indexURL,
		Dataset:   dataset,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if based, ok := err.(interface{ Base() *BaseError }); ok {
		return based.Base().Type == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok && wrapped.Unwrap() != nil {
		return IsErrorType(wrapped.Unwrap(), errType)
	}
	return false
}
