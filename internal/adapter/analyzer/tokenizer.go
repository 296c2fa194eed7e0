package analyzer

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/unicode/norm"

	"bayes/internal/port"
)

// Tokenizer lowercases text and splits it into maximal runs of letters.
// Stemming, stopword removal and Unicode normalization are opt-in.
type Tokenizer struct {
	stemLanguage string
	stopwords    map[string]struct{}
	normalize    bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithStemming reduces every token to its snowball stem in the given
// language ("english", "spanish", "french", "russian", ...).
func WithStemming(language string) Option {
	return func(t *Tokenizer) {
		t.stemLanguage = strings.ToLower(language)
	}
}

// WithStopwords drops the given words. With no arguments the built-in
// English list is used.
func WithStopwords(words ...string) Option {
	return func(t *Tokenizer) {
		if len(words) == 0 {
			words = defaultStopwords
		}
		t.stopwords = make(map[string]struct{}, len(words))
		for _, w := range words {
			t.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithNormalization composes text to NFC before splitting, so letters
// followed by combining marks stay in one token.
func WithNormalization() Option {
	return func(t *Tokenizer) {
		t.normalize = true
	}
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer(opts ...Option) *Tokenizer {
	t := &Tokenizer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize returns the tokens of in. Tokenizable objects produce their own
// tokens and receive t as the tokenizer argument.
func (t *Tokenizer) Tokenize(in port.Input) []string {
	if obj, ok := in.Tokenizable(); ok {
		return obj.Tokens(t)
	}
	return t.TokenizeText(in.String())
}

// TokenizeText splits raw text into tokens.
func (t *Tokenizer) TokenizeText(text string) []string {
	if t.normalize {
		text = norm.NFC.String(text)
	}
	words := splitWords(strings.ToLower(text))
	if t.stopwords == nil && t.stemLanguage == "" {
		return words
	}

	tokens := words[:0]
	for _, word := range words {
		if _, isStop := t.stopwords[word]; isStop {
			continue
		}
		if t.stemLanguage != "" {
			word = t.stem(word)
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func (t *Tokenizer) stem(word string) string {
	stemmed, err := snowball.Stem(word, t.stemLanguage, true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

// splitWords returns every maximal run of letters. Digits, punctuation and
// symbols are separators.
func splitWords(text string) []string {
	words := []string{}
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for",
	"from", "has", "he", "in", "is", "it", "its", "of", "on",
	"that", "the", "to", "was", "were", "will", "with", "this",
	"have", "had", "but", "not", "you", "your", "we", "our",
	"they", "their", "she", "her", "his", "if", "or", "so",
	"no", "can", "do", "does", "did", "been", "being", "would",
	"could", "should", "may", "might", "must", "shall", "which",
	"who", "whom", "what", "when", "where", "why", "how", "all",
	"each", "every", "both", "few", "more", "most", "other",
	"some", "such", "than", "too", "very", "just", "also",
}
