package encoding

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

const sampleSource = "/* test */a = 'pippo baudo'; b=c+a\n"

func setupEncoderDecoder(t *testing.T) (*TokenInputEncoderDecoder, *m.EncodedInput) {
	t.Helper()

	ed := NewTokenInputEncoderDecoder()

	input, err := ed.Encode([]byte(sampleSource), DefaultNaiveTokenizer())
	require.NoError(t, err)

	return ed, input
}

func TestTokenInputEncoderDecoder_RoundTrip(t *testing.T) {
	ed, input := setupEncoderDecoder(t)

	var out []byte
	require.NoError(t, ed.Decode(input, &out))
	assert.Equal(t, "a = 'pippo baudo' ; b = c + a ", string(out))

	bytes, err := ed.ToTargetBytes(input)
	require.NoError(t, err)
	assert.Equal(t, out, bytes)
}

func TestTokenInputEncoderDecoder_FirstSeenIDs(t *testing.T) {
	ed, input := setupEncoderDecoder(t)

	if diff := cmp.Diff([]uint32{0, 1, 2, 3, 4, 1, 5, 6, 0}, input.Codes()); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 7, ed.VocabularySize())
	assert.Equal(t, []string{"a", "=", "'pippo baudo'", ";", "b", "c", "+"}, ed.Vocabulary())

	token, ok := ed.Token(2)
	require.True(t, ok)
	assert.Equal(t, "'pippo baudo'", token)

	id, ok := ed.ID("b")
	require.True(t, ok)
	assert.Equal(t, uint32(4), id)

	_, ok = ed.ID("missing")
	assert.False(t, ok)
}

func TestTokenInputEncoderDecoder_DecodeAppends(t *testing.T) {
	ed, input := setupEncoderDecoder(t)

	out := []byte("> ")
	require.NoError(t, ed.Decode(input, &out))
	assert.Equal(t, "> a = 'pippo baudo' ; b = c + a ", string(out))
}

func TestTokenInputEncoderDecoder_VocabularyGrowth(t *testing.T) {
	ed, first := setupEncoderDecoder(t)
	before := ed.VocabularySize()

	second, err := ed.Encode([]byte("a + d"), DefaultNaiveTokenizer())
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 6, 7}, second.Codes())
	assert.Equal(t, before+1, ed.VocabularySize())

	again, err := ed.Encode([]byte(sampleSource), DefaultNaiveTokenizer())
	require.NoError(t, err)
	assert.True(t, first.Equal(again))
	assert.Equal(t, before+1, ed.VocabularySize())
}

func TestTokenInputEncoderDecoder_EmptyVocabulary(t *testing.T) {
	ed := NewTokenInputEncoderDecoder()

	var out []byte

	err := ed.Decode(m.NewEncodedInput([]uint32{0}), &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, m.ErrIllegalState))
	assert.Contains(t, err.Error(), "id 0")
	assert.Empty(t, out)

	_, err = ed.ToTargetBytes(m.NewEncodedInput([]uint32{3, 4}))
	assert.ErrorIs(t, err, m.ErrIllegalState)

	require.NoError(t, ed.Decode(m.NewEncodedInput(nil), &out))
	assert.Empty(t, out)
}

func TestTokenInputEncoderDecoder_OutOfRangeCodesWrap(t *testing.T) {
	ed, _ := setupEncoderDecoder(t)

	out, err := ed.ToTargetBytes(m.NewEncodedInput([]uint32{7, 8, 7*1000 + 4}))
	require.NoError(t, err)
	assert.Equal(t, "a = b ", string(out))
}

// Decoding is modulo the current vocabulary size, so growing the vocabulary
// can change what a previously decoded out-of-range code means.
func TestTokenInputEncoderDecoder_DecodeShiftsAfterGrowth(t *testing.T) {
	ed := NewTokenInputEncoderDecoder()
	tokenizer := DefaultNaiveTokenizer()

	a, err := ed.Encode([]byte("x y"), tokenizer)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, a.Codes())

	mutated := m.NewEncodedInput([]uint32{0, 1, 3})

	before, err := ed.ToTargetBytes(mutated)
	require.NoError(t, err)
	assert.Equal(t, "x y y ", string(before))

	_, err = ed.Encode([]byte("p q r"), tokenizer)
	require.NoError(t, err)

	after, err := ed.ToTargetBytes(mutated)
	require.NoError(t, err)
	assert.Equal(t, "x y q ", string(after))
	assert.NotEqual(t, before, after)

	// In-range codes are unaffected.
	original, err := ed.ToTargetBytes(a)
	require.NoError(t, err)
	assert.Equal(t, "x y ", string(original))
}

func TestTokenInputEncoderDecoder_TokenizerError(t *testing.T) {
	ed := NewTokenInputEncoderDecoder()

	_, err := ed.Encode([]byte{0xff, 0xfe}, DefaultNaiveTokenizer())
	require.ErrorIs(t, err, m.ErrIllegalArgument)
	assert.Equal(t, 0, ed.VocabularySize())
}

func TestTokensFromEncoder(t *testing.T) {
	ed, _ := setupEncoderDecoder(t)

	tokens := TokensFromEncoder(ed)

	require.Equal(t, 7, tokens.Len())
	assert.Equal(t, []byte("a"), tokens.Tokens()[0])
	assert.Equal(t, []byte("'pippo baudo'"), tokens.Tokens()[2])
}
