package ingestion

import (
	"errors"
	"fmt"
)

// ExtractionError reports that no usable text could be produced from a document.
type ExtractionError struct {
	Message    string
	PrimaryErr error
	OCRErr     error
}

func (e *ExtractionError) Error() string {
	switch {
	case e.PrimaryErr != nil && e.OCRErr != nil:
		return fmt.Sprintf("%s: primary: %v; ocr: %v", e.Message, e.PrimaryErr, e.OCRErr)
	case e.PrimaryErr != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.PrimaryErr)
	default:
		return e.Message
	}
}

func (e *ExtractionError) Unwrap() error {
	return errors.Join(e.PrimaryErr, e.OCRErr)
}
