package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches DomainErrors by code and message, so a sentinel compares equal
// to the same error carrying an attached cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeAcquisition = "ACQUISITION_ERROR"
	ErrCodeIndex       = "INDEX_ERROR"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidIdentifier = NewDomainError(ErrCodeValidation, "could not resolve reference to a video identifier")
	ErrEmptyQuery        = NewDomainError(ErrCodeValidation, "query text is empty")
)

// Acquisition errors
var (
	// ErrAcquisitionExhausted is returned when every acquisition strategy
	// failed; the aggregated per-strategy reasons are attached as the cause.
	ErrAcquisitionExhausted = NewDomainError(ErrCodeAcquisition, "all acquisition strategies failed")

	// ErrEmptyCorpus is returned when acquisition succeeded but produced no
	// usable text. Treated like exhaustion for status purposes.
	ErrEmptyCorpus = NewDomainError(ErrCodeAcquisition, "acquisition produced no usable text")
)

// Index errors
var (
	// ErrIndexFit is returned when the semantic index could not be fitted
	// on a video's chunk texts. Recovered locally: semantic search is
	// disabled for that video and the retrieval cascade continues.
	ErrIndexFit = NewDomainError(ErrCodeIndex, "could not fit index on chunk corpus")
)

// Not found errors
var (
	ErrVideoNotProcessed = NewDomainError(ErrCodeNotFound, "video has not been processed")
	ErrSummaryNotReady   = NewDomainError(ErrCodeNotFound, "transcript not available for summary")
)
