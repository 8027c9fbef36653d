package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// Metadata describes an extracted document
type Metadata struct {
	Filename   string                 `json:"filename,omitempty"`
	Timestamp  string                 `json:"timestamp"` // RFC3339 format
	Hash       string                 `json:"hash"`      // SHA256 hex digest of the normalized text
	Characters int                    `json:"characters"`
	Lines      int                    `json:"lines"`
	Source     types.ExtractionSource `json:"source,omitempty"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(text string, filename string) *Metadata {
	lines := 0
	if text != "" {
		lines = strings.Count(text, "\n") + 1
	}
	return &Metadata{
		Filename:   filename,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Hash:       ContentHash(text),
		Characters: utf8.RuneCountInString(text),
		Lines:      lines,
	}
}

// ContentHash computes SHA256 hash of content and returns hex string
func ContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
