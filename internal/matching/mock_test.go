package matching

import (
	"context"
	"sync/atomic"

	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/types"
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
	return `[]`, nil
}

func (m *mockLLMClient) GetModel(llm.ModelTier) string { return "mock-model" }

func (m *mockLLMClient) Close() error { return nil }

type mockFilter struct {
	FilterFunc func(ctx context.Context, missing []string, jobTitle string) ([]types.ActionableKeyword, error)
	calls      atomic.Int32
}

func (m *mockFilter) FilterActionable(ctx context.Context, missing []string, jobTitle string) ([]types.ActionableKeyword, error) {
	m.calls.Add(1)
	if m.FilterFunc != nil {
		return m.FilterFunc(ctx, missing, jobTitle)
	}
	return []types.ActionableKeyword{}, nil
}
