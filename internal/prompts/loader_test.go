package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("matching.json", "skill_variations")
	require.NoError(t, err)
	assert.Contains(t, prompt.System, "skill variation expert")
	assert.Contains(t, prompt.User, "{{.Skill}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("keywords.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "(have filter_actionable)")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestAllPromptsPresent(t *testing.T) {
	ClearCache()

	tests := []struct {
		file string
		key  string
	}{
		{file: "matching.json", key: "skill_variations"},
		{file: "keywords.json", key: "filter_actionable"},
		{file: "optimize.json", key: "optimize_resume"},
	}

	for _, tt := range tests {
		t.Run(tt.file+"/"+tt.key, func(t *testing.T) {
			assert.NotPanics(t, func() {
				prompt := MustGet(tt.file, tt.key)
				assert.NotEmpty(t, prompt.System)
				assert.NotEmpty(t, prompt.User)
			})
		})
	}
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"

	result := Format(template, map[string]string{})
	assert.Equal(t, template, result) // Placeholder remains
}

func TestRender(t *testing.T) {
	ClearCache()

	prompt := MustGet("optimize.json", "optimize_resume").Render(map[string]string{
		"Resume":         "JANE DOE",
		"JobTitle":       "Backend Engineer",
		"KeywordCount":   "2",
		"Keywords":       "→ Go\n→ Kafka",
		"JobDescription": "Build services.",
	})

	assert.Contains(t, prompt.User, "TARGET ROLE: Backend Engineer")
	assert.Contains(t, prompt.User, "(2 total)")
	assert.Contains(t, prompt.User, "→ Kafka")
	assert.NotContains(t, prompt.User, "{{.")
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get("keywords.json", "filter_actionable")
	require.NoError(t, err)

	prompt2, err := Get("keywords.json", "filter_actionable")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
