package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// StageError identifies which pipeline stage produced a failure.
type StageError interface {
	error
	Stage() string
}

// Pipeline stage names as surfaced to callers.
const (
	StageValidation  = "validation"
	StageConversion  = "conversion"
	StageSplit       = "split"
	StageGeneration  = "generation"
	StagePersistence = "persistence"
)

type (
	// ValidationError indicates malformed or missing targeting parameters.
	// Raised before any processing begins.
	ValidationError struct {
		Message string
	}

	// ConversionError indicates the DOCX could not be parsed or converted.
	// Fatal; aborts the run before any section is produced.
	ConversionError struct {
		Message string
		Err     error
	}

	// SplitError indicates the HTML structure prevented section extraction.
	SplitError struct {
		Message string
		Err     error
	}

	// PersistenceError indicates a transaction failure during delete/insert.
	// The transaction is rolled back; output artifacts are preserved.
	PersistenceError struct {
		Message string
		Err     error
	}
)

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Stage() string { return StageValidation }

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}
func (e *ConversionError) Unwrap() error { return e.Err }
func (e *ConversionError) Stage() string { return StageConversion }

func (e *SplitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}
func (e *SplitError) Unwrap() error { return e.Err }
func (e *SplitError) Stage() string { return StageSplit }

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}
func (e *PersistenceError) Unwrap() error { return e.Err }
func (e *PersistenceError) Stage() string { return StagePersistence }

// StatusCode implementations (HTTPError interface)
func (e *ValidationError) StatusCode() int  { return http.StatusBadRequest }
func (e *ConversionError) StatusCode() int  { return http.StatusUnprocessableEntity }
func (e *SplitError) StatusCode() int       { return http.StatusUnprocessableEntity }
func (e *PersistenceError) StatusCode() int { return http.StatusInternalServerError }

// GenerationError is a per-section, non-fatal generator failure. It is
// collected into the run's warnings and never aborts the pipeline.
type GenerationError struct {
	Slug string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("question generation for %q: %v", e.Slug, e.Err)
}
func (e *GenerationError) Unwrap() error { return e.Err }
func (e *GenerationError) Stage() string { return StageGeneration }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound = errors.New("not found")
)
