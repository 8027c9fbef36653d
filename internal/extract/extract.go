// Package extract provides primary (non-OCR) text extraction for resume documents.
package extract

import (
	"context"
	"mime"
	"path/filepath"
	"strings"
)

// Extractor pulls embedded text out of a document held in memory.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Kind identifies a supported document format.
type Kind string

// Supported document kinds.
const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "txt"
)

// SupportsOCR reports whether documents of this kind can be rasterized for OCR.
func (k Kind) SupportsOCR() bool {
	return k == KindPDF
}

var extensionKinds = map[string]Kind{
	".pdf":  KindPDF,
	".docx": KindDOCX,
	".doc":  KindDOCX, // legacy binary .doc fails in the DOCX reader and surfaces as an extraction error
	".txt":  KindText,
}

var contentTypeKinds = map[string]Kind{
	"application/pdf": KindPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindDOCX,
	"application/msword": KindDOCX,
	"text/plain":         KindText,
}

// KindForFilename returns the document kind for a filename's extension.
func KindForFilename(name string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if kind, ok := extensionKinds[ext]; ok {
		return kind, nil
	}
	return "", &UnsupportedTypeError{Type: ext}
}

// KindForContentType returns the document kind for a MIME type (parameters are ignored).
func KindForContentType(contentType string) (Kind, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if kind, ok := contentTypeKinds[mediaType]; ok {
		return kind, nil
	}
	return "", &UnsupportedTypeError{Type: contentType}
}

// For returns the extractor for a kind.
func For(kind Kind) (Extractor, error) {
	switch kind {
	case KindPDF:
		return PDF{}, nil
	case KindDOCX:
		return DOCX{}, nil
	case KindText:
		return Text{}, nil
	default:
		return nil, &UnsupportedTypeError{Type: string(kind)}
	}
}

// ForFilename returns the extractor matching a filename's extension.
func ForFilename(name string) (Extractor, Kind, error) {
	kind, err := KindForFilename(name)
	if err != nil {
		return nil, "", err
	}
	ex, err := For(kind)
	return ex, kind, err
}

// ForContentType returns the extractor matching a MIME type.
func ForContentType(contentType string) (Extractor, Kind, error) {
	kind, err := KindForContentType(contentType)
	if err != nil {
		return nil, "", err
	}
	ex, err := For(kind)
	return ex, kind, err
}
