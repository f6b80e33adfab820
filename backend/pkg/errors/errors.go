package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph store errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeIngest represents document parsing/loading errors
	ErrorTypeIngest ErrorType = "ingest"
	// ErrorTypeExtract represents triplet extraction (LLM) errors
	ErrorTypeExtract ErrorType = "extract"
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

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphStoreQueryFailed is returned when a Neo4j query fails
type ErrGraphStoreQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphStoreQueryFailed(query string, err error) *ErrGraphStoreQueryFailed {
	return &ErrGraphStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, "query failed", err),
		Query:     query,
	}
}

// Ingest Errors

// ErrIngestParseFailed is returned when a source document cannot be parsed
type ErrIngestParseFailed struct {
	*BaseError
	File string
}

func NewIngestParseFailed(file string, err error) *ErrIngestParseFailed {
	return &ErrIngestParseFailed{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("failed to parse %s", file), err),
		File:      file,
	}
}

// ErrIngestEmptyDocument is returned when a source document has no text content
type ErrIngestEmptyDocument struct {
	*BaseError
	File string
}

func NewIngestEmptyDocument(file string) *ErrIngestEmptyDocument {
	return &ErrIngestEmptyDocument{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("no text content in %s", file), nil),
		File:      file,
	}
}

// Extract Errors

// ErrExtractLLMFailed is returned when the extraction LLM request fails
type ErrExtractLLMFailed struct {
	*BaseError
	Model    string
	Attempts int
}

func NewExtractLLMFailed(model string, attempts int, err error) *ErrExtractLLMFailed {
	return &ErrExtractLLMFailed{
		BaseError: NewBaseError(ErrorTypeExtract, fmt.Sprintf("LLM request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
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
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}
