package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// DOCX extracts paragraph text from an Office Open XML document.
type DOCX struct{}

// ExtractText reads the document body and flattens its WordprocessingML to plain text.
func (DOCX) ExtractText(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &DocumentError{Kind: KindDOCX, Cause: errors.New("empty document")}
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DocumentError{Kind: KindDOCX, Cause: err}
	}
	defer func() { _ = doc.Close() }()

	text, err := flattenWordML(doc.Editable().GetContent())
	if err != nil {
		return "", &DocumentError{Kind: KindDOCX, Cause: err}
	}
	return text, nil
}

// flattenWordML converts document.xml content into text: one line per paragraph,
// tabs and explicit breaks preserved, everything else dropped.
func flattenWordML(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
