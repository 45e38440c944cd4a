// Package parsererror defines the typed errors reported by the statement,
// ledger and classification stages.
package parsererror

import (
	"fmt"
	"strings"
)

// MissingColumnsError is a precondition failure: the input table lacks one or
// more required columns. The batch does not run.
type MissingColumnsError struct {
	FilePath string
	Missing  []string
	Found    []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required column(s) %s not found in %s; columns found: [%s]",
		strings.Join(e.Missing, ", "), e.source(), strings.Join(e.Found, ", "))
}

func (e *MissingColumnsError) source() string {
	if e.FilePath == "" {
		return "bank statement"
	}
	return fmt.Sprintf("'%s'", e.FilePath)
}

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an error where the input file does not conform
// to the expected format for a specific reader.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
