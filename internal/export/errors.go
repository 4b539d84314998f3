// Package export turns rendered CV markup into a fixed-layout PDF and hands the result to the
// caller as a file reference with a display title.
package export

import "fmt"

// PrintError represents a failure in the headless browser while producing the PDF.
type PrintError struct {
	Message string
	Cause   error
}

func (e *PrintError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("print error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("print error: %s", e.Message)
}

func (e *PrintError) Unwrap() error {
	return e.Cause
}

// WriteError represents a failure writing an exported file.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
