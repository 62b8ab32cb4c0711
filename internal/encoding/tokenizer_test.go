package encoding

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

func TestNaiveTokenizer_Tokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "reference sample",
			input: sampleSource,
			want:  []string{"a", "=", "'pippo baudo'", ";", "b", "=", "c", "+", "a"},
		},
		{
			name:  "empty",
			input: "",
			want:  []string{},
		},
		{
			name:  "only whitespace",
			input: " \t\n ",
			want:  []string{},
		},
		{
			name:  "block comment removed",
			input: "x/* gone */y",
			want:  []string{"xy"},
		},
		{
			name:  "line comment runs to the end",
			input: "a; // trailing\nb;",
			want:  []string{"a", ";"},
		},
		{
			name:  "double quoted string is one token",
			input: `print("hello world")`,
			want:  []string{"print", "(", `"hello world"`, ")"},
		},
		{
			name:  "filler between identifiers",
			input: "f(x,y)->z",
			want:  []string{"f", "(", "x", ",", "y", ")->", "z"},
		},
		{
			name:  "dollar and underscore are identifier characters",
			input: "$el _tmp1",
			want:  []string{"$el", "_tmp1"},
		},
		{
			name:  "unicode filler",
			input: "a→b",
			want:  []string{"a", "→", "b"},
		},
	}

	tokenizer := DefaultNaiveTokenizer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokenizer.Tokenize([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNaiveTokenizer_InvalidUTF8(t *testing.T) {
	_, err := DefaultNaiveTokenizer().Tokenize([]byte{'a', 0xc3, 0x28})
	require.Error(t, err)
	assert.ErrorIs(t, err, m.ErrIllegalArgument)
}

func TestNaiveTokenizer_CustomExpressions(t *testing.T) {
	tokenizer := NewNaiveTokenizer(
		regexp.MustCompile(`[a-z]+`),
		regexp.MustCompile(`#[^\n]*`),
		regexp.MustCompile(`<[^>]*>`),
	)

	got, err := tokenizer.Tokenize([]byte("abc <d e> FG # note\nhi"))
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "<d e>", "FG", "hi"}, got)
}
