// Package parsererror defines the typed errors raised while reading
// transactions and rules from disk.
package parsererror

import "fmt"

// ParseError represents a value that could not be parsed
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

// ValidationError represents a record that parsed but is not acceptable.
// Subject identifies the record, e.g. a rule id or a file path.
type ValidationError struct {
	Subject string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s %s", e.Subject, e.Field, e.Reason)
}

// InvalidFormatError represents an input file that does not have the
// expected layout.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
