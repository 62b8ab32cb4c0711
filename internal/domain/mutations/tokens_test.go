package mutations

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

func TestTokensMutations_SkipWithoutTokens(t *testing.T) {
	collection := TokensMutations()
	st := newBytesState(1)

	for i := 0; i < collection.Len(); i++ {
		result, err := collection.GetAndMutate(m.MutationID(i), st, m.NewBytesInput([]byte("abc")))
		require.NoError(t, err)
		assert.Equal(t, m.Skipped, result)
	}

	st.AddMetadata(m.NewTokens())

	for i := 0; i < collection.Len(); i++ {
		result, err := collection.GetAndMutate(m.MutationID(i), st, m.NewBytesInput([]byte("abc")))
		require.NoError(t, err)
		assert.Equal(t, m.Skipped, result)
	}
}

func TestTokenInsert(t *testing.T) {
	st := newBytesState(2)
	st.AddMetadata(m.NewTokens([]byte("while")))

	for i := 0; i < 20; i++ {
		input := m.NewBytesInput([]byte("x = 1;"))

		result, err := NewTokenInsert(DefaultMaxSize).Mutate(st, input)
		require.NoError(t, err)
		require.Equal(t, m.Mutated, result)
		assert.True(t, bytes.Contains(input.Bytes(), []byte("while")))
		assert.Len(t, input.Bytes(), len("x = 1;")+len("while"))
	}
}

func TestTokenInsert_EmptyInput(t *testing.T) {
	st := newBytesState(3)
	st.AddMetadata(m.NewTokens([]byte("if")))

	input := m.NewBytesInput(nil)
	result, err := NewTokenInsert(DefaultMaxSize).Mutate(st, input)
	require.NoError(t, err)
	assert.Equal(t, m.Mutated, result)
	assert.Equal(t, []byte("if"), input.Bytes())
}

func TestTokenReplace(t *testing.T) {
	st := newBytesState(4)
	st.AddMetadata(m.NewTokens([]byte("Z")))

	result, err := NewTokenReplace().Mutate(st, m.NewBytesInput(nil))
	require.NoError(t, err)
	assert.Equal(t, m.Skipped, result)

	for i := 0; i < 20; i++ {
		input := m.NewBytesInput([]byte("aaaa"))

		result, err := NewTokenReplace().Mutate(st, input)
		require.NoError(t, err)
		require.Equal(t, m.Mutated, result)
		assert.Len(t, input.Bytes(), 4)
		assert.Equal(t, 1, bytes.Count(input.Bytes(), []byte("Z")))
	}
}

func TestTokenReplace_TruncatesAtEnd(t *testing.T) {
	st := newBytesState(5)
	st.AddMetadata(m.NewTokens([]byte("0123456789")))

	for i := 0; i < 20; i++ {
		input := m.NewBytesInput([]byte("ab"))

		_, err := NewTokenReplace().Mutate(st, input)
		require.NoError(t, err)
		assert.Len(t, input.Bytes(), 2)
	}
}

func TestHavocWithTokens_Names(t *testing.T) {
	names := HavocWithTokens(DefaultMaxSize).Names()

	require.Len(t, names, HavocMutations().Len()+TokensMutations().Len())
	assert.Equal(t, []string{"TokenInsert", "TokenReplace"}, names[len(names)-2:])
}
