package encoding

import (
	"regexp"
	"strings"
	"unicode/utf8"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

const (
	defaultIdentPattern   = `[A-Za-z0-9_$]+`
	defaultCommentPattern = `(/\*[^*]*\*/)|(//[^*]*)`
	defaultStringPattern  = `"(\\|\\"|[^"])*"|'(\\|\\'|[^'])*'`
)

// NaiveTokenizer splits source-like text with three regular expressions.
// Comments are dropped, string literals become single tokens and the rest
// is split on whitespace and around identifiers.
type NaiveTokenizer struct {
	identRe   *regexp.Regexp
	commentRe *regexp.Regexp
	stringRe  *regexp.Regexp
}

// NewNaiveTokenizer creates a tokenizer from custom expressions.
func NewNaiveTokenizer(identRe, commentRe, stringRe *regexp.Regexp) *NaiveTokenizer {
	return &NaiveTokenizer{identRe: identRe, commentRe: commentRe, stringRe: stringRe}
}

// DefaultNaiveTokenizer creates a tokenizer for C-like languages.
func DefaultNaiveTokenizer() *NaiveTokenizer {
	return NewNaiveTokenizer(
		regexp.MustCompile(defaultIdentPattern),
		regexp.MustCompile(defaultCommentPattern),
		regexp.MustCompile(defaultStringPattern),
	)
}

// Tokenize implements Tokenizer. data must be valid UTF-8.
func (t *NaiveTokenizer) Tokenize(data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, m.IllegalArgument("invalid UTF-8")
	}

	text := t.commentRe.ReplaceAllString(string(data), "")
	tokens := make([]string, 0)
	prev := 0

	for _, loc := range t.stringRe.FindAllStringIndex(text, -1) {
		if loc[0] > prev {
			tokens = t.appendPlain(tokens, text[prev:loc[0]])
		}

		tokens = append(tokens, text[loc[0]:loc[1]])
		prev = loc[1]
	}

	if prev < len(text) {
		tokens = t.appendPlain(tokens, text[prev:])
	}

	return tokens, nil
}

// appendPlain splits text without string literals on whitespace, then
// around identifiers, keeping the filler between identifiers as tokens.
func (t *NaiveTokenizer) appendPlain(tokens []string, text string) []string {
	for _, chunk := range strings.Fields(text) {
		prev := 0

		for _, loc := range t.identRe.FindAllStringIndex(chunk, -1) {
			if loc[0] > prev {
				tokens = append(tokens, chunk[prev:loc[0]])
			}

			tokens = append(tokens, chunk[loc[0]:loc[1]])
			prev = loc[1]
		}

		if prev < len(chunk) {
			tokens = append(tokens, chunk[prev:])
		}
	}

	return tokens
}
