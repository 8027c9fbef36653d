package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// commonNoise is stripped from every page before text extraction.
const commonNoise = "nav, footer, header, script, style, noscript, svg, form, iframe, " +
	".ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// blockElements end a line of extracted text.
const blockElements = "p, div, section, article, li, tr, h1, h2, h3, h4, h5, h6, ul, ol, table"

// Document is parsed posting HTML.
type Document struct {
	doc *goquery.Document
}

// Parse parses HTML for text extraction.
func Parse(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Title returns the first non-empty h1, falling back to the <title> element.
func (d *Document) Title() string {
	if h1 := strings.TrimSpace(d.doc.Find("h1").First().Text()); h1 != "" {
		return collapseSpaces(h1)
	}
	return collapseSpaces(strings.TrimSpace(d.doc.Find("title").First().Text()))
}

// MainText returns the text of the first element matching a content selector, or of the
// body when none match. List items become "• " bullets and block elements end lines, so the
// result reads like a pasted job description.
func (d *Document) MainText(content []string, noise ...string) string {
	d.doc.Find(commonNoise).Remove()
	if len(noise) > 0 {
		d.doc.Find(strings.Join(noise, ", ")).Remove()
	}

	main := d.doc.Find("body")
	for _, sel := range content {
		if s := d.doc.Find(sel); s.Length() > 0 {
			main = s.First()
			break
		}
	}

	main.Find("br").ReplaceWithHtml("\n")
	main.Find("li").PrependHtml("• ")
	main.Find(blockElements).AppendHtml("\n")
	return cleanWhitespace(main.Text())
}

// ExtractMainText parses html and returns its main text.
func ExtractMainText(html string, content []string, noise ...string) (string, error) {
	doc, err := Parse(html)
	if err != nil {
		return "", err
	}
	return doc.MainText(content, noise...), nil
}

// cleanWhitespace trims each line, collapses runs of spaces and drops empty lines.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = collapseSpaces(strings.TrimSpace(line)); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
