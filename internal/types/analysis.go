package types

// SectionType classifies a resume section header.
type SectionType string

// Section types recognized by the section detector.
const (
	SectionSummary        SectionType = "summary"
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionCertifications SectionType = "certifications"
	SectionProjects       SectionType = "projects"
)

// SectionMarker records a detected section header and its line position.
type SectionMarker struct {
	Name       string      `json:"name"` // Original casing, trimmed
	Type       SectionType `json:"type"`
	LineNumber int         `json:"lineNumber"`
}

// KeywordCategory is the taxonomy of actionable keywords.
type KeywordCategory string

// Keyword categories.
const (
	CategorySkill       KeywordCategory = "Skill"
	CategoryTool        KeywordCategory = "Tool"
	CategoryMethodology KeywordCategory = "Methodology"
	CategoryTechnology  KeywordCategory = "Technology"
)

// KeywordPriority ranks actionable keywords.
type KeywordPriority string

// Keyword priorities.
const (
	PriorityHigh   KeywordPriority = "high"
	PriorityMedium KeywordPriority = "medium"
	PriorityLow    KeywordPriority = "low"
)

// ActionableKeyword is a missing requirement phrase that can be woven into resume prose.
type ActionableKeyword struct {
	Keyword              string          `json:"keyword"`
	Category             KeywordCategory `json:"category"`
	Priority             KeywordPriority `json:"priority"`
	SuggestedIntegration string          `json:"suggestedIntegration"`
}

// MatchResult is the outcome of matching a resume against job requirement phrases.
type MatchResult struct {
	Success            bool                `json:"success"`
	MatchScore         float64             `json:"matchScore"`
	MissingPhrases     []string            `json:"missingPhrases"`
	MatchingPhrases    []string            `json:"matchingPhrases"`
	ActionableKeywords []ActionableKeyword `json:"actionableKeywords"`
	TotalKeywords      int                 `json:"totalKeywords"`
}

// KeywordVerification reports which requested keywords made it into optimized text.
type KeywordVerification struct {
	Integrated      []string `json:"integrated"`
	Missing         []string `json:"missing"`
	IntegrationRate float64  `json:"integrationRate"`
}

// AtsScoreInputs holds everything the ATS scorer needs.
type AtsScoreInputs struct {
	OptimizedText string
	OriginalText  string
	JobData       JobData
	Verification  KeywordVerification
}

// ScoreBreakdown exposes the individual weighted factors of an ATS score.
type ScoreBreakdown struct {
	Keyword      float64 `json:"keyword"`      // max 40
	Requirements float64 `json:"requirements"` // max 30
	Completeness float64 `json:"completeness"` // max 20
	Formatting   float64 `json:"formatting"`   // max 10
	Total        int     `json:"total"`
}
