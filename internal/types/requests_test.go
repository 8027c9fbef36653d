//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   AnalyzeRequest
		wantField string
	}{
		{
			name: "valid request",
			request: AnalyzeRequest{
				ResumeText: "Experienced in Python and SQL",
				JobData:    JobData{Skills: PhraseList{"Python"}},
			},
		},
		{
			name:      "resume text too short after trimming",
			request:   AnalyzeRequest{ResumeText: "   short   ", JobData: JobData{Title: "x"}},
			wantField: "resume_text",
		},
		{
			name:      "missing resume text",
			request:   AnalyzeRequest{JobData: JobData{Title: "x"}},
			wantField: "resume_text",
		},
		{
			name:      "empty job data",
			request:   AnalyzeRequest{ResumeText: "Experienced in Python and SQL"},
			wantField: "job_data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.wantField, reqErr.Field)
		})
	}
}

func TestOptimizeRequest_Validate(t *testing.T) {
	long := strings.Repeat("a", 60)

	valid := OptimizeRequest{OriginalResumeText: long, JobDescription: long}
	assert.NoError(t, valid.Validate())

	shortDesc := OptimizeRequest{OriginalResumeText: long, JobDescription: "too short"}
	err := shortDesc.Validate()
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "job_description", reqErr.Field)
	assert.Contains(t, reqErr.Message, "Job description")
}

func TestSelectedKeyword_FlexibleDecoding(t *testing.T) {
	input := `{"original_resume_text":"r","job_description":"d","selected_keywords":["Python",{"keyword":"Kubernetes","category":"Tool"},{"category":"Skill"},"  ",7]}`

	var req OptimizeRequest
	require.NoError(t, json.Unmarshal([]byte(input), &req))
	require.Len(t, req.SelectedKeywords, 5)

	assert.Equal(t, []string{"Python", "Kubernetes", "7"}, req.KeywordStrings())
}
