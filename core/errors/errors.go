// Package errors provides standardized error types and helpers for the Lyrebird codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conversion taxonomy
var (
	// ErrMalformed indicates unparsable low-level syntax in the input
	ErrMalformed = errors.New("malformed input")
	// ErrUnsupported indicates input that was recognized but cannot be converted
	ErrUnsupported = errors.New("unsupported structure")
	// ErrAlignment indicates lyric-to-note alignment failure
	ErrAlignment = errors.New("alignment mismatch")
	// ErrInternal indicates an internal invariant violation (a programming error, not bad input)
	ErrInternal = errors.New("internal error")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
)

// MalformedError represents unparsable low-level syntax with positional context.
type MalformedError struct {
	Format  string // Notation being parsed (e.g., "ABC", "MusicXML")
	Line    int    // 1-based source line, 0 if unknown
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *MalformedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed %s input at line %d: %s", e.Format, e.Line, e.Message)
	}
	return fmt.Sprintf("malformed %s input: %s", e.Format, e.Message)
}

func (e *MalformedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformed
}

// UnsupportedStructureError represents input that was recognized but is not convertible.
type UnsupportedStructureError struct {
	Format  string // Notation being parsed
	Element string // Structure that cannot be mapped (e.g., "score-timewise")
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedStructureError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s structure %q: %s", e.Format, e.Element, e.Reason)
	}
	return fmt.Sprintf("unsupported %s structure %q", e.Format, e.Element)
}

func (e *UnsupportedStructureError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// AlignmentError represents a lyric line that could not be zipped against its note line.
type AlignmentError struct {
	Voice     string // Voice/part identifier, if any
	Line      int    // 1-based source line of the lyric line, 0 if unknown
	Syllables int    // Number of syllables in the lyric line
	Positions int    // Number of alignable note positions
	Err       error  // Underlying error, if any
}

func (e *AlignmentError) Error() string {
	msg := fmt.Sprintf("lyric line has %d syllables for %d note positions", e.Syllables, e.Positions)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Voice != "" {
		msg = fmt.Sprintf("voice %s: %s", e.Voice, msg)
	}
	return msg
}

func (e *AlignmentError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrAlignment
}

// InternalError represents a builder-stage invariant violation.
// These should never occur with correct upstream stages.
type InternalError struct {
	Stage   string // Pipeline stage (e.g., "builder")
	Message string // Invariant that was violated
	Err     error  // Underlying error, if any
}

func (e *InternalError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("internal error in %s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// NotFoundError represents a resource not found error with context.
type NotFoundError struct {
	Resource string // Type of resource (e.g., "song", "file")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// Helper functions for creating common errors

// NewMalformed creates a MalformedError
func NewMalformed(format string, line int, message string) *MalformedError {
	return &MalformedError{
		Format:  format,
		Line:    line,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedStructureError
func NewUnsupported(format, element, reason string) *UnsupportedStructureError {
	return &UnsupportedStructureError{
		Format:  format,
		Element: element,
		Reason:  reason,
	}
}

// NewAlignment creates an AlignmentError
func NewAlignment(voice string, line, syllables, positions int) *AlignmentError {
	return &AlignmentError{
		Voice:     voice,
		Line:      line,
		Syllables: syllables,
		Positions: positions,
	}
}

// NewInternal creates an InternalError
func NewInternal(stage, message string) *InternalError {
	return &InternalError{
		Stage:   stage,
		Message: message,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
