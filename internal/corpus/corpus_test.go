package corpus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

func bytesTestcase(s string) *m.Testcase[*m.BytesInput] {
	return m.NewTestcase(m.NewBytesInput([]byte(s)))
}

func TestInMemoryCorpus_AddGet(t *testing.T) {
	c := NewInMemoryCorpus[*m.BytesInput]()

	id0, err := c.Add(bytesTestcase("a"))
	require.NoError(t, err)
	id1, err := c.Add(bytesTestcase("b"))
	require.NoError(t, err)

	assert.NotEqual(t, id0, id1)
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, []m.CorpusID{id0, id1}, c.IDs())

	tc, err := c.Get(id1)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), tc.Input.Bytes())
}

func TestInMemoryCorpus_GetMissing(t *testing.T) {
	c := NewInMemoryCorpus[*m.BytesInput]()

	_, err := c.Get(12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, m.ErrKeyNotFound))
	assert.Contains(t, err.Error(), "12")
}

func TestInMemoryCorpus_AddNil(t *testing.T) {
	c := NewInMemoryCorpus[*m.BytesInput]()

	_, err := c.Add(nil)
	assert.ErrorIs(t, err, m.ErrIllegalArgument)
}

func TestInMemoryCorpus_FirstNext(t *testing.T) {
	c := NewInMemoryCorpus[*m.BytesInput]()

	_, ok := c.First()
	assert.False(t, ok)

	ids := make([]m.CorpusID, 0, 3)

	for _, s := range []string{"a", "b", "c"} {
		id, err := c.Add(bytesTestcase(s))
		require.NoError(t, err)

		ids = append(ids, id)
	}

	first, ok := c.First()
	require.True(t, ok)
	assert.Equal(t, ids[0], first)

	next, ok := c.Next(first)
	require.True(t, ok)
	assert.Equal(t, ids[1], next)

	_, ok = c.Next(ids[2])
	assert.False(t, ok)
}

func TestInMemoryCorpus_RemoveKeepsIDsUnique(t *testing.T) {
	c := NewInMemoryCorpus[*m.BytesInput]()

	id0, err := c.Add(bytesTestcase("a"))
	require.NoError(t, err)

	removed, err := c.Remove(id0)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), removed.Input.Bytes())
	assert.Equal(t, 0, c.Count())

	id1, err := c.Add(bytesTestcase("b"))
	require.NoError(t, err)
	assert.NotEqual(t, id0, id1)

	_, err = c.Remove(id0)
	assert.ErrorIs(t, err, m.ErrKeyNotFound)
}

func TestInMemoryCorpus_Replace(t *testing.T) {
	c := NewInMemoryCorpus[*m.BytesInput]()

	id, err := c.Add(bytesTestcase("old"))
	require.NoError(t, err)

	old, err := c.Replace(id, bytesTestcase("new"))
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), old.Input.Bytes())

	tc, err := c.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), tc.Input.Bytes())

	_, err = c.Replace(id+1, bytesTestcase("x"))
	assert.ErrorIs(t, err, m.ErrKeyNotFound)
}

func TestInMemoryCorpus_GetReturnsLiveTestcase(t *testing.T) {
	c := NewInMemoryCorpus[*m.BytesInput]()

	id, err := c.Add(bytesTestcase("a"))
	require.NoError(t, err)

	tc, err := c.Get(id)
	require.NoError(t, err)
	tc.AddMetadata(m.NewLogMutationMetadata([]string{"BitFlip"}))

	again, err := c.Get(id)
	require.NoError(t, err)
	assert.True(t, again.HasMetadata(m.LogMutationMetadataName))
	require.NoError(t, c.Persist(id))
}
