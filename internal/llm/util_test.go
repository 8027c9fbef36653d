package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"relevant_keywords\": [\"Go\"]}\n```", `{"relevant_keywords": ["Go"]}`},
		{"bare fence", "```\n[\"k8s\", \"kubernetes\"]\n```", `["k8s", "kubernetes"]`},
		{"fence with language tag", "```javascript\n{\"score\": 80}\n```", `{"score": 80}`},
		{"plain object", `{"score": 80}`, `{"score": 80}`},
		{"preamble", "Here are the variations:\n[\"CI/CD\", \"continuous delivery\"]", `["CI/CD", "continuous delivery"]`},
		{"trailing chatter", "{\"optimized_resume\": \"...\"}\n\nLet me know if you need changes.", `{"optimized_resume": "..."}`},
		{"nested", "Result: {\"a\": {\"b\": [1, {\"c\": 2}]}}", `{"a": {"b": [1, {"c": 2}]}}`},
		{"escaped quotes", "Result: {\"note\": \"said \\\"hi\\\"\"}", `{"note": "said \"hi\""}`},
		{"braces inside strings", `{"template": "Hello {name}]"} tail`, `{"template": "Hello {name}]"}`},
		{"unbalanced", `{"open": [1, 2`, `{"open": [1, 2`},
		{"no json", "  no json here  ", "no json here"},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `[[1], [2]]`, extractJSONArray(`[[1], [2]] extra`))
	assert.Equal(t, `{"k": "}"}`, extractJSONObject(`{"k": "}"}}`))
	assert.Empty(t, extractJSONObject("not json"))
	assert.Empty(t, extractJSONArray(""))
	assert.Empty(t, extractJSONArray(`{"not": "array"}`))
}
