package llm

import (
	"errors"
	"testing"

	"github.com/jonathan/ats-optimizer/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type filterReply struct {
	ActionableKeywords []struct {
		Keyword  string `json:"keyword"`
		Category string `json:"category"`
	} `json:"actionableKeywords"`
}

func TestDecodeStructured_Success(t *testing.T) {
	raw := "```json\n{\"actionableKeywords\":[{\"keyword\":\"Docker\",\"category\":\"Tool\"}]}\n```"

	var out filterReply
	require.NoError(t, DecodeStructured(raw, schemas.KeywordFilter, &out))
	require.Len(t, out.ActionableKeywords, 1)
	assert.Equal(t, "Docker", out.ActionableKeywords[0].Keyword)
}

func TestDecodeStructured_Array(t *testing.T) {
	var out []string
	require.NoError(t, DecodeStructured(`Here you go: ["javascript", "js"]`, schemas.SkillVariations, &out))
	assert.Equal(t, []string{"javascript", "js"}, out)
}

func TestDecodeStructured_Errors(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		schema    string
		wantStage Stage
	}{
		{
			name:      "not json",
			raw:       "I cannot help with that.",
			schema:    schemas.KeywordFilter,
			wantStage: StageParse,
		},
		{
			name:      "truncated json",
			raw:       `{"actionableKeywords": [`,
			schema:    schemas.KeywordFilter,
			wantStage: StageParse,
		},
		{
			name:      "schema mismatch",
			raw:       `{"actionableKeywords": "Docker"}`,
			schema:    schemas.KeywordFilter,
			wantStage: StageSchema,
		},
		{
			name:      "wrong top-level type",
			raw:       `{"variations": ["js"]}`,
			schema:    schemas.SkillVariations,
			wantStage: StageSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out any
			err := DecodeStructured(tt.raw, tt.schema, &out)

			var structured *StructuredOutputError
			require.ErrorAs(t, err, &structured)
			assert.Equal(t, tt.wantStage, structured.Stage)
			assert.Equal(t, tt.raw, structured.Raw)
		})
	}
}

func TestDecodeStructured_DecodeStage(t *testing.T) {
	var out struct {
		ActionableKeywords int `json:"actionableKeywords"`
	}
	err := DecodeStructured(`{"actionableKeywords": []}`, schemas.KeywordFilter, &out)

	var structured *StructuredOutputError
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, StageDecode, structured.Stage)
}

func TestDecodeStructured_UnknownSchema(t *testing.T) {
	var out any
	err := DecodeStructured(`{}`, "missing", &out)
	require.Error(t, err)

	var structured *StructuredOutputError
	assert.False(t, errors.As(err, &structured))
}
