package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

func TestOnDiskCorpus_WritesPayloadAndSidecar(t *testing.T) {
	dir := t.TempDir()

	c, err := NewOnDiskCorpus[*m.BytesInput](dir, BytesCodec{})
	require.NoError(t, err)

	tc := bytesTestcase("hello")
	id, err := c.Add(tc)
	require.NoError(t, err)

	name := tc.Input.GenerateName(&id)
	assert.Equal(t, name, tc.Filename)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	_, err = os.Stat(filepath.Join(dir, "."+name+".metadata"))
	require.NoError(t, err)
}

func TestOnDiskCorpus_LogMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()

	c, err := NewOnDiskCorpus[*m.BytesInput](dir, BytesCodec{})
	require.NoError(t, err)

	parent, err := c.Add(bytesTestcase("seed"))
	require.NoError(t, err)

	tc := bytesTestcase("child")
	tc.ParentID = parent.Ptr()
	tc.Executions = 3

	id, err := c.Add(tc)
	require.NoError(t, err)

	live, err := c.Get(id)
	require.NoError(t, err)
	live.AddMetadata(m.NewLogMutationMetadata([]string{"ByteFlip", "BytesDelete", "ByteFlip"}))
	require.NoError(t, c.Persist(id))

	loaded, err := LoadOnDiskCorpus[*m.BytesInput](dir, BytesCodec{})
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Count())

	var found *m.Testcase[*m.BytesInput]

	for _, lid := range loaded.IDs() {
		ltc, err := loaded.Get(lid)
		require.NoError(t, err)

		if string(ltc.Input.Bytes()) == "child" {
			found = ltc
		}
	}

	require.NotNil(t, found)
	assert.Equal(t, uint64(3), found.Executions)
	require.NotNil(t, found.ParentID)
	assert.Equal(t, parent, *found.ParentID)

	log, ok := m.MetadataOf[*m.LogMutationMetadata](found.MetadataMap(), m.LogMutationMetadataName)
	require.True(t, ok)

	if diff := cmp.Diff([]string{"ByteFlip", "BytesDelete", "ByteFlip"}, log.List); diff != "" {
		t.Errorf("mutation log mismatch (-want +got):\n%s", diff)
	}
}

func TestOnDiskCorpus_EncodedCodec(t *testing.T) {
	dir := t.TempDir()

	c, err := NewOnDiskCorpus[*m.EncodedInput](dir, EncodedCodec{})
	require.NoError(t, err)

	_, err = c.Add(m.NewTestcase(m.NewEncodedInput([]uint32{0, 1, 2, 1})))
	require.NoError(t, err)

	loaded, err := LoadOnDiskCorpus[*m.EncodedInput](dir, EncodedCodec{})
	require.NoError(t, err)

	first, ok := loaded.First()
	require.True(t, ok)

	tc, err := loaded.Get(first)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 1}, tc.Input.Codes())
}

func TestOnDiskCorpus_RemoveDeletesFiles(t *testing.T) {
	dir := t.TempDir()

	c, err := NewOnDiskCorpus[*m.BytesInput](dir, BytesCodec{})
	require.NoError(t, err)

	tc := bytesTestcase("gone")
	id, err := c.Add(tc)
	require.NoError(t, err)

	_, err = c.Remove(id)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadOnDiskCorpus_MissingSidecar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw"), []byte("xyz"), 0o644))

	loaded, err := LoadOnDiskCorpus[*m.BytesInput](dir, BytesCodec{})
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Count())

	first, _ := loaded.First()
	tc, err := loaded.Get(first)
	require.NoError(t, err)
	assert.Equal(t, "raw", tc.Filename)
	assert.Empty(t, tc.MetadataMap())
}

func TestLoadOnDiskCorpus_BadSidecar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw"), []byte("xyz"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".raw.metadata"), []byte("executions: [nope"), 0o644))

	_, err := LoadOnDiskCorpus[*m.BytesInput](dir, BytesCodec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse metadata of raw")
}
