package analyzer

import (
	"strings"

	"golang.org/x/net/html"

	"bayes/internal/port"
)

// HTMLDocument is a self-tokenizing HTML page. Only visible text is
// tokenized; markup, scripts and styles are dropped.
type HTMLDocument struct {
	content string
}

func NewHTMLDocument(content string) *HTMLDocument {
	return &HTMLDocument{content: content}
}

// Text returns the text content of the page, one space between text nodes.
func (d *HTMLDocument) Text() string {
	var parts []string
	skip := 0

	z := html.NewTokenizer(strings.NewReader(d.content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isInvisible(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isInvisible(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				parts = append(parts, text)
			}
		}
	}
}

// Tokens tokenizes the page text with tok.
func (d *HTMLDocument) Tokens(tok port.Tokenizer) []string {
	if tok == nil {
		tok = NewTokenizer()
	}
	return tok.Tokenize(port.Text(d.Text()))
}

func isInvisible(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

// TokenList is an already tokenized document.
type TokenList []string

func (l TokenList) Tokens(port.Tokenizer) []string {
	return append([]string(nil), l...)
}
