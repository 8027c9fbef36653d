package types

// OptimizationMetadata summarizes keyword integration counts.
type OptimizationMetadata struct {
	KeywordsRequested  int `json:"keywordsRequested"`
	KeywordsIntegrated int `json:"keywordsIntegrated"`
}

// OptimizationResult is the structured outcome of a resume rewrite.
// Failures are reported with Success=false and a Message rather than an error.
type OptimizationResult struct {
	Success             bool                 `json:"success"`
	Message             string               `json:"message"`
	OptimizedResume     string               `json:"optimizedResume"`
	KeywordVerification *KeywordVerification `json:"keywordVerification,omitempty"`
	AtsScore            int                  `json:"atsScore"`
	ScoreBreakdown      *ScoreBreakdown      `json:"scoreBreakdown,omitempty"`
	Tips                []string             `json:"tips,omitempty"`
	Warnings            []string             `json:"warnings,omitempty"`
	Metadata            OptimizationMetadata `json:"metadata"`
}
