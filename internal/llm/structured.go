package llm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/ats-optimizer/internal/schemas"
)

// DecodeStructured strips code fences from raw, validates it against the named embedded
// schema and unmarshals it into out.
func DecodeStructured(raw, schemaName string, out any) error {
	cleaned := CleanJSONBlock(raw)
	if !json.Valid([]byte(cleaned)) {
		return &StructuredOutputError{
			Stage:  StageParse,
			Schema: schemaName,
			Raw:    raw,
			Cause:  errors.New("reply is not valid JSON"),
		}
	}

	if err := schemas.Validate(schemaName, []byte(cleaned)); err != nil {
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) {
			return fmt.Errorf("failed to load schema %s: %w", schemaName, err)
		}
		return &StructuredOutputError{Stage: StageSchema, Schema: schemaName, Raw: raw, Cause: err}
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &StructuredOutputError{Stage: StageDecode, Schema: schemaName, Raw: raw, Cause: err}
	}
	return nil
}
