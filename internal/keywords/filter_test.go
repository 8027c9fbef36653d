package keywords

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jonathan/ats-optimizer/internal/cache"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/patterns"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLLMClient implements llm.Client for testing
type mockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, req llm.Request) (string, error)
	calls            atomic.Int32
}

func (m *mockLLMClient) GenerateContent(ctx context.Context, req llm.Request) (string, error) {
	return m.GenerateJSON(ctx, req)
}

func (m *mockLLMClient) GenerateJSON(ctx context.Context, req llm.Request) (string, error) {
	m.calls.Add(1)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, req)
	}
	return `{"actionableKeywords": []}`, nil
}

func (m *mockLLMClient) GetModel(llm.ModelTier) string { return "mock-model" }

func (m *mockLLMClient) Close() error { return nil }

func TestFallback(t *testing.T) {
	got := Fallback([]string{"5+ years experience", "Python", "Bachelor's degree"}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, types.ActionableKeyword{
		Keyword:              "Python",
		Category:             types.CategorySkill,
		Priority:             types.PriorityMedium,
		SuggestedIntegration: "Consider incorporating 'Python' into relevant experience bullets",
	}, got[0])
}

func TestFallback_Exclusions(t *testing.T) {
	tests := []struct {
		phrase string
		keep   bool
	}{
		{phrase: "3 years", keep: false},
		{phrase: "Years of experience in fintech", keep: false},
		{phrase: "Master's degree", keep: false},
		{phrase: "PhD preferred", keep: false},
		{phrase: "Active security clearance", keep: false},
		{phrase: "Ability to travel", keep: false},
		{phrase: "Willing to relocate", keep: false},
		{phrase: "Team player", keep: false},
		{phrase: "Certified Scrum Master", keep: false},
		{phrase: "AWS certification", keep: false},
		{phrase: "Go", keep: false},
		{phrase: " C ", keep: false},
		{phrase: "SQL", keep: true},
		{phrase: "Stakeholder management", keep: true},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got := Fallback([]string{tt.phrase}, patterns.DefaultCompiled())
			assert.Equal(t, tt.keep, len(got) == 1)
		})
	}
}

func TestFilterActionable_AISuccessIsCached(t *testing.T) {
	client := &mockLLMClient{
		GenerateJSONFunc: func(_ context.Context, req llm.Request) (string, error) {
			assert.Contains(t, req.Prompt, "Backend Engineer role")
			assert.Contains(t, req.Prompt, "- Kafka")
			assert.Equal(t, llm.TierStandard, req.Tier)
			assert.Equal(t, 1500, req.MaxTokens)
			return "```json\n" + `{"actionableKeywords":[
				{"keyword":"Kafka","category":"tool","priority":"HIGH","suggestedIntegration":"Mention event pipelines"},
				{"keyword":"gRPC","category":"Protocol","priority":"urgent"},
				{"keyword":"  "}
			]}` + "\n```", nil
		},
	}
	store := cache.NewMemory(cache.MemoryOptions{})
	f := NewFilter(client, store, nil, nil)

	got, err := f.FilterActionable(context.Background(), []string{"gRPC", "Kafka"}, "Backend Engineer")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, types.ActionableKeyword{
		Keyword:              "Kafka",
		Category:             types.CategoryTool,
		Priority:             types.PriorityHigh,
		SuggestedIntegration: "Mention event pipelines",
	}, got[0])
	assert.Equal(t, types.CategorySkill, got[1].Category)
	assert.Equal(t, types.PriorityMedium, got[1].Priority)

	again, err := f.FilterActionable(context.Background(), []string{"Kafka", "gRPC"}, "Backend Engineer")
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestFilterActionable_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "llm error", err: errors.New("upstream 500")},
		{name: "invalid json", reply: "{not json"},
		{name: "list is not an array", reply: `{"actionableKeywords": "Python"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockLLMClient{
				GenerateJSONFunc: func(context.Context, llm.Request) (string, error) {
					return tt.reply, tt.err
				},
			}
			logger, hook := test.NewNullLogger()
			store := cache.NewMemory(cache.MemoryOptions{})
			f := NewFilter(client, store, nil, logger)

			got, err := f.FilterActionable(context.Background(), []string{"Python", "5+ years"}, "")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "Python", got[0].Keyword)
			assert.Equal(t, 0, store.Len())
			assert.Contains(t, hook.LastEntry().Message, "using rule-based filter")
		})
	}
}

func TestFilterActionable_NoClient(t *testing.T) {
	store := cache.NewMemory(cache.MemoryOptions{})
	f := NewFilter(nil, store, nil, nil)

	got, err := f.FilterActionable(context.Background(), []string{"Terraform", "Team player"}, "SRE")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Terraform", got[0].Keyword)
	assert.Equal(t, 0, store.Len())
}

func TestFilterActionable_Empty(t *testing.T) {
	client := &mockLLMClient{}
	f := NewFilter(client, nil, nil, nil)

	got, err := f.FilterActionable(context.Background(), nil, "SRE")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), client.calls.Load())
}

func TestFilterActionable_CapsPromptPhrases(t *testing.T) {
	missing := make([]string, 55)
	for i := range missing {
		missing[i] = fmt.Sprintf("skill-%02d", i)
	}
	client := &mockLLMClient{
		GenerateJSONFunc: func(_ context.Context, req llm.Request) (string, error) {
			assert.Equal(t, MaxPromptPhrases, strings.Count(req.Prompt, "- skill-"))
			assert.Contains(t, req.Prompt, "a professional role")
			return `{"actionableKeywords": []}`, nil
		},
	}
	f := NewFilter(client, nil, nil, nil)

	_, err := f.FilterActionable(context.Background(), missing, "")
	require.NoError(t, err)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestFilterActionable_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &mockLLMClient{
		GenerateJSONFunc: func(ctx context.Context, _ llm.Request) (string, error) {
			cancel()
			return "", ctx.Err()
		},
	}
	f := NewFilter(client, nil, nil, nil)

	_, err := f.FilterActionable(ctx, []string{"Python"}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey([]string{"b", "a"}, "SRE"), CacheKey([]string{"a", "b"}, "SRE"))
	assert.NotEqual(t, CacheKey([]string{"a", "b"}, "SRE"), CacheKey([]string{"a", "b"}, "SWE"))
	assert.Equal(t, cache.HashKey("SRE", "a,b"), CacheKey([]string{"b", "a"}, "SRE"))
}
