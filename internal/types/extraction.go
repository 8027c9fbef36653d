package types

// ExtractionSource identifies which path produced extracted text.
type ExtractionSource string

// Extraction sources.
const (
	SourcePrimary ExtractionSource = "primary"
	SourceOCR     ExtractionSource = "ocr"
)

// Formatting describes the structure detected in extracted text.
type Formatting struct {
	Sections              []SectionMarker `json:"sections"`
	HasDetectedFormatting bool            `json:"hasDetectedFormatting"`
	BulletCount           int             `json:"bulletCount"`
}

// ExtractionResult is normalized document text plus its detected formatting.
type ExtractionResult struct {
	Text       string           `json:"text"`
	Formatting Formatting       `json:"formatting"`
	Source     ExtractionSource `json:"source"`
}
