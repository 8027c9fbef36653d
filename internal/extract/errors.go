package extract

import "fmt"

// UnsupportedTypeError indicates a document format with no extractor.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported document type: %q", e.Type)
}

// DocumentError wraps a failure to read a document of a known kind.
type DocumentError struct {
	Kind  Kind
	Cause error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("failed to read %s document: %v", e.Kind, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}
