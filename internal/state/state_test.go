package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/rand"
)

func TestState_Accessors(t *testing.T) {
	st := NewInMemory[*m.BytesInput](rand.New(1))

	require.NotNil(t, st.Rand())
	require.NotNil(t, st.Corpus())
	require.NotNil(t, st.Solutions())
	assert.NotSame(t, st.Corpus(), st.Solutions())

	assert.Equal(t, uint64(0), st.Executions())
	st.IncExecutions()
	st.IncExecutions()
	assert.Equal(t, uint64(2), st.Executions())

	assert.Nil(t, st.CorpusIDCurrent())
	st.SetCorpusIDCurrent(m.CorpusID(4).Ptr())
	require.NotNil(t, st.CorpusIDCurrent())
	assert.Equal(t, m.CorpusID(4), *st.CorpusIDCurrent())
}

func TestState_Tokens(t *testing.T) {
	st := NewInMemory[*m.BytesInput](rand.New(1))

	_, ok := st.Tokens()
	assert.False(t, ok)

	st.AddMetadata(m.NewTokens([]byte("if"), []byte("else"), []byte("if")))

	tokens, ok := st.Tokens()
	require.True(t, ok)
	assert.Equal(t, 2, tokens.Len())

	md, ok := st.Metadata(m.TokensMetadataName)
	require.True(t, ok)
	assert.Same(t, tokens, md)
}
