package patterns

import "fmt"

// PatternError reports an invalid rule in a pattern table.
type PatternError struct {
	Table   string
	Index   int
	Pattern string
	Message string
	Cause   error
}

func (e *PatternError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s[%d] %q: %s: %v", e.Table, e.Index, e.Pattern, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s[%d] %q: %s", e.Table, e.Index, e.Pattern, e.Message)
}

func (e *PatternError) Unwrap() error {
	return e.Cause
}
