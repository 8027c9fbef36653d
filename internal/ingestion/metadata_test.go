package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	text := "Jane Doe\nEXPERIENCE\n• Built things"
	meta := NewMetadata(text, "resume.pdf")

	assert.Equal(t, "resume.pdf", meta.Filename)
	assert.Equal(t, ContentHash(text), meta.Hash)
	assert.Equal(t, 3, meta.Lines)
	assert.Equal(t, 34, meta.Characters)

	_, err := time.Parse(time.RFC3339, meta.Timestamp)
	assert.NoError(t, err, "timestamp should be RFC3339")

	empty := NewMetadata("", "")
	assert.Equal(t, 0, empty.Lines)
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("same"), ContentHash("same"))
	assert.NotEqual(t, ContentHash("same"), ContentHash("different"))
	assert.Len(t, ContentHash("x"), 64)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ContentHash(""))
}

func TestMetadata_ToJSON(t *testing.T) {
	meta := &Metadata{
		Filename:  "resume.docx",
		Timestamp: "2024-01-01T00:00:00Z",
		Hash:      "abcd1234",
		Source:    types.SourceOCR,
	}

	jsonBytes, err := meta.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, "resume.docx", decoded["filename"])
	assert.Equal(t, "ocr", decoded["source"])
}
