package pipeline

import (
	"errors"
	"fmt"
)

// ValidationError rejects unusable input before any analysis work starts.
// It is never retried and surfaces immediately.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ExternalServiceError wraps a timeout, transport failure, or rate limit from
// the analysis service. It advances the fallback chain instead of aborting.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// ParseError marks a well-formed response that failed schema validation.
// It triggers one narrow-scope retry before the next fallback tier.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Failure is the typed failure object the caller receives when the pipeline
// cannot produce a report. Retryable distinguishes transient outages from
// input problems.
type Failure struct {
	Retryable bool
	Cause     string
	Err       error
}

func (f *Failure) Error() string {
	return f.Cause
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// newFailure classifies err into a caller-facing Failure.
func newFailure(err error) *Failure {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &Failure{Retryable: false, Cause: ve.Reason, Err: err}
	}
	return &Failure{Retryable: true, Cause: "analysis failed, please retry", Err: err}
}
