package extract

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// Text passes plain-text documents through, replacing invalid UTF-8.
type Text struct{}

// ExtractText returns the document as a string.
func (Text) ExtractText(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &DocumentError{Kind: KindText, Cause: errors.New("empty document")}
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
