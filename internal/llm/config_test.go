package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestGetModel_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		models map[ModelTier]string
		tier   ModelTier
		want   string
	}{
		{"exact tier", map[ModelTier]string{TierAdvanced: "big", TierStandard: "mid"}, TierAdvanced, "big"},
		{"falls back to standard", map[ModelTier]string{TierStandard: "mid", TierLite: "small"}, TierAdvanced, "mid"},
		{"falls back to lite", map[ModelTier]string{TierLite: "small"}, "unknown", "small"},
		{"nothing configured", map[ModelTier]string{}, TierAdvanced, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.want, cfg.GetModel(tt.tier))
		})
	}
}

func TestDefaultAnthropicConfig(t *testing.T) {
	config := ConfigFor(ProviderAnthropic)

	assert.Equal(t, ProviderAnthropic, config.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", config.GetModel(TierLite))
	assert.Equal(t, "claude-sonnet-4-5", config.GetModel(TierAdvanced))
}

func TestWithAllModels(t *testing.T) {
	config := DefaultConfig().WithAllModels("gemini-2.0-flash")

	assert.Equal(t, "gemini-2.0-flash", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.0-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.0-flash", config.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-pro", DefaultConfig().GetModel(TierAdvanced))
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{input: "gemini", want: ProviderGemini},
		{input: "anthropic", want: ProviderAnthropic},
		{input: "", want: ProviderGemini},
		{input: "openai", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
