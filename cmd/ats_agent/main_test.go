package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-optimizer/internal/types"
)

const sampleResume = `Jane Doe
PROFESSIONAL SUMMARY
Backend engineer focused on reliable services.
WORK EXPERIENCE
• Built payment APIs in Go serving 2M requests a day
• Migrated batch jobs to SQL-backed workers
EDUCATION
B.S. Computer Science
SKILLS
Go, SQL, Docker`

// isolateEnv clears every variable the config layer reads so .env values cannot leak in.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "LLM_API_KEY", "LLM_PROVIDER", "LLM_MODEL",
		"DATABASE_URL", "REDIS_URL", "PATTERNS_FILE", "PORT", "HOST",
		"CACHE_MAX_ENTRIES", "CACHE_TTL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("OCR_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
}

// resetFlags restores every flag to its default between in-process executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractCommand(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)

	out, err := execute(t, "extract", "--file", resume)

	require.NoError(t, err)
	assert.Contains(t, out, "Built payment APIs in Go")
	assert.Contains(t, out, "EXTRACTED TEXT")
	assert.Contains(t, out, "primary")
	assert.Contains(t, out, "WORK EXPERIENCE (experience")
}

func TestExtractCommand_WritesOutputFile(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)
	dest := filepath.Join(t.TempDir(), "out.txt")

	out, err := execute(t, "extract", "--file", resume, "--out", dest)

	require.NoError(t, err)
	assert.Contains(t, out, "Output: "+dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Migrated batch jobs")
	assert.NotContains(t, out, "Migrated batch jobs")

	var meta map[string]any
	metaJSON, err := os.ReadFile(dest + ".meta.json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(metaJSON, &meta))
	assert.Equal(t, "primary", meta["source"])
	assert.Len(t, meta["hash"], 64)
}

func TestExtractCommand_Errors(t *testing.T) {
	tests := []struct {
		name        string
		args        func(t *testing.T) []string
		errorString string
	}{
		{
			name:        "missing --file flag",
			args:        func(*testing.T) []string { return []string{"extract"} },
			errorString: "required flag",
		},
		{
			name: "unsupported extension",
			args: func(t *testing.T) []string {
				return []string{"extract", "--file", writeFile(t, "resume.png", "x")}
			},
			errorString: "unsupported document type",
		},
		{
			name: "missing file",
			args: func(t *testing.T) []string {
				return []string{"extract", "--file", filepath.Join(t.TempDir(), "nope.pdf")}
			},
			errorString: "failed to read",
		},
		{
			name: "bad config file",
			args: func(t *testing.T) []string {
				return []string{"extract", "--config", filepath.Join(t.TempDir(), "missing.json"), "--file", "resume.txt"}
			},
			errorString: "failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args(t)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestSectionsCommand(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)

	out, err := execute(t, "sections", "--file", resume)

	require.NoError(t, err)
	assert.Contains(t, out, "RESUME SECTIONS")
	assert.Contains(t, out, "EDUCATION")
	assert.Contains(t, out, "Experience bullets (2)")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)
	job := writeFile(t, "job.json", `{"title":"Backend Engineer","skills":["Go","Kubernetes"]}`)

	out, err := execute(t, "analyze", "--resume", resume, "--job", job, "--json")

	require.NoError(t, err)
	var result types.MatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.True(t, result.Success)
	assert.Equal(t, 50.0, result.MatchScore)
	assert.Equal(t, 2, result.TotalKeywords)
	assert.Equal(t, []string{"Go"}, result.MatchingPhrases)
	assert.Equal(t, []string{"Kubernetes"}, result.MissingPhrases)
}

func TestAnalyzeCommand_EmptyJobData(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)
	job := writeFile(t, "job.json", `{}`)

	_, err := execute(t, "analyze", "--resume", resume, "--job", job)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Job data is required")
}

func TestOptimizeCommand_NoAPIKey(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)
	description := writeFile(t, "job.txt", "We are hiring a backend engineer with Kubernetes and Terraform experience.")

	out, err := execute(t, "optimize", "--resume", resume, "--job-description", description, "--keywords", "Kubernetes, Terraform")

	require.Error(t, err)
	assert.Equal(t, "LLM API key missing.", err.Error())
	assert.Contains(t, out, "OPTIMIZATION FAILED")
}

func TestOptimizeCommand_RequiresJobSource(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)

	_, err := execute(t, "optimize", "--resume", resume, "--keywords", "Go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job-description")
}

func TestOptimizeCommand_JobURL(t *testing.T) {
	srv := postingServer(t)
	resume := writeFile(t, "resume.txt", sampleResume)

	out, err := execute(t, "optimize", "--resume", resume, "--job-url", srv.URL, "--keywords", "Kubernetes")

	require.Error(t, err)
	assert.Equal(t, "LLM API key missing.", err.Error())
	assert.Contains(t, out, "OPTIMIZATION FAILED")
}

func TestFetchJobCommand_JSON(t *testing.T) {
	srv := postingServer(t)

	out, err := execute(t, "fetch-job", "--url", srv.URL+"/jobs/42", "--json")
	require.NoError(t, err)

	var posting struct {
		Title    string `json:"title"`
		Text     string `json:"text"`
		Platform string `json:"platform"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &posting))
	assert.Equal(t, "Site Reliability Engineer", posting.Title)
	assert.Equal(t, "unknown", posting.Platform)
	assert.Contains(t, posting.Text, "• Kubernetes")
}

func TestFetchJobCommand_WritesOutputFile(t *testing.T) {
	srv := postingServer(t)
	dest := filepath.Join(t.TempDir(), "job.txt")

	out, err := execute(t, "fetch-job", "--url", srv.URL, "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Output: "+dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Terraform")
}

func TestFetchJobCommand_InvalidURL(t *testing.T) {
	_, err := execute(t, "fetch-job", "--url", "ftp://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL must use http or https")
}

// postingServer serves a job posting long enough to skip the browser fallback.
func postingServer(t *testing.T) *httptest.Server {
	t.Helper()
	body := `<html><body><h1>Site Reliability Engineer</h1><div class="job-description"><p>` +
		strings.Repeat("Keep our platform fast and available. ", 15) +
		`</p><ul><li>Kubernetes</li><li>Terraform</li></ul></div></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScoreCommand_JSON(t *testing.T) {
	original := writeFile(t, "original.txt", sampleResume)
	optimized := writeFile(t, "optimized.txt", sampleResume+", Kubernetes")
	job := writeFile(t, "job.json", `{"skills":["Go","Kubernetes"]}`)

	out, err := execute(t, "score", "--original", original, "--optimized", optimized,
		"--job", job, "--keywords", "Kubernetes,Terraform", "--json")

	require.NoError(t, err)
	var report scoreReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, []string{"Kubernetes"}, report.KeywordVerification.Integrated)
	assert.Equal(t, []string{"Terraform"}, report.KeywordVerification.Missing)
	assert.Equal(t, 50.0, report.KeywordVerification.IntegrationRate)
	assert.Equal(t, report.ScoreBreakdown.Total, report.AtsScore)
	assert.Equal(t, 30.0, report.ScoreBreakdown.Requirements)
}

func TestScoreCommand_Boxed(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)

	out, err := execute(t, "score", "--original", resume, "--optimized", resume, "--keywords", "Go")

	require.NoError(t, err)
	assert.Contains(t, out, "ATS SCORE")
	assert.Contains(t, out, "Integrated 1 keywords (100.0%)")
}

func TestServeCommand_InvalidPort(t *testing.T) {
	_, err := execute(t, "serve", "--port", "70000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, splitKeywords(" Go, ,SQL ,"))
	assert.Nil(t, splitKeywords(""))
}
