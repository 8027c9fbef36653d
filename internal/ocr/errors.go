package ocr

import "fmt"

// Stage names the step of the OCR pipeline that failed.
type Stage string

// Pipeline stages.
const (
	StageConfig    Stage = "config"
	StageRasterize Stage = "rasterize"
	StageRecognize Stage = "recognize"
)

// Error is returned by Pipeline.Recognize.
type Error struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ocr %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("ocr %s: %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
