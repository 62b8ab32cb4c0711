package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

// Codec converts inputs to and from their on-disk payload.
type Codec[I m.Input] interface {
	Encode(input I) ([]byte, error)
	Decode(data []byte) (I, error)
}

// BytesCodec stores byte inputs as raw files.
type BytesCodec struct{}

// Encode implements Codec.
func (BytesCodec) Encode(input *m.BytesInput) ([]byte, error) {
	return input.Bytes(), nil
}

// Decode implements Codec.
func (BytesCodec) Decode(data []byte) (*m.BytesInput, error) {
	return m.NewBytesInput(data), nil
}

// EncodedCodec stores encoded inputs as JSON code lists.
type EncodedCodec struct{}

// Encode implements Codec.
func (EncodedCodec) Encode(input *m.EncodedInput) ([]byte, error) {
	return json.Marshal(input)
}

// Decode implements Codec.
func (EncodedCodec) Decode(data []byte) (*m.EncodedInput, error) {
	input := m.NewEncodedInput(nil)
	if err := json.Unmarshal(data, input); err != nil {
		return nil, fmt.Errorf("failed to decode encoded input: %w", err)
	}

	return input, nil
}

// testcaseFile is the YAML layout of a metadata sidecar.
type testcaseFile struct {
	Executions uint64               `yaml:"executions"`
	Parent     *uint64              `yaml:"parent,omitempty"`
	Metadata   map[string]yaml.Node `yaml:"metadata,omitempty"`
}

// OnDiskCorpus keeps an in-memory index and mirrors every testcase to a directory.
// The payload goes to <dir>/<name> and the metadata to <dir>/.<name>.metadata.
type OnDiskCorpus[I m.Input] struct {
	mem   *InMemoryCorpus[I]
	dir   string
	codec Codec[I]
}

// NewOnDiskCorpus creates dir if needed and returns an empty corpus backed by it.
func NewOnDiskCorpus[I m.Input](dir string, codec Codec[I]) (*OnDiskCorpus[I], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create corpus directory %s: %w", dir, err)
	}

	return &OnDiskCorpus[I]{mem: NewInMemoryCorpus[I](), dir: dir, codec: codec}, nil
}

// LoadOnDiskCorpus reads a corpus directory written by OnDiskCorpus.
// Entries are loaded in file name order. Missing sidecars are tolerated.
func LoadOnDiskCorpus[I m.Input](dir string, codec Codec[I]) (*OnDiskCorpus[I], error) {
	c, err := NewOnDiskCorpus(dir, codec)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	for _, name := range names {
		tc, err := c.load(name)
		if err != nil {
			return nil, err
		}

		if _, err := c.mem.Add(tc); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Dir returns the backing directory.
func (c *OnDiskCorpus[I]) Dir() string {
	return c.dir
}

// Add implements Corpus.
func (c *OnDiskCorpus[I]) Add(tc *m.Testcase[I]) (m.CorpusID, error) {
	id, err := c.mem.Add(tc)
	if err != nil {
		return 0, err
	}

	if tc.Filename == "" {
		tc.Filename = tc.Input.GenerateName(&id)
	}

	if err := c.writePayload(tc); err != nil {
		_, _ = c.mem.Remove(id)
		return 0, err
	}

	if err := c.writeMetadata(tc); err != nil {
		_, _ = c.mem.Remove(id)
		return 0, err
	}

	return id, nil
}

// Get implements Corpus.
func (c *OnDiskCorpus[I]) Get(id m.CorpusID) (*m.Testcase[I], error) {
	return c.mem.Get(id)
}

// Count implements Corpus.
func (c *OnDiskCorpus[I]) Count() int {
	return c.mem.Count()
}

// IDs implements Corpus.
func (c *OnDiskCorpus[I]) IDs() []m.CorpusID {
	return c.mem.IDs()
}

// First implements Corpus.
func (c *OnDiskCorpus[I]) First() (m.CorpusID, bool) {
	return c.mem.First()
}

// Next implements Corpus.
func (c *OnDiskCorpus[I]) Next(id m.CorpusID) (m.CorpusID, bool) {
	return c.mem.Next(id)
}

// Replace implements Corpus.
func (c *OnDiskCorpus[I]) Replace(id m.CorpusID, tc *m.Testcase[I]) (*m.Testcase[I], error) {
	old, err := c.mem.Replace(id, tc)
	if err != nil {
		return nil, err
	}

	if tc.Filename == "" {
		tc.Filename = tc.Input.GenerateName(&id)
	}

	if old.Filename != tc.Filename {
		c.removeFiles(old.Filename)
	}

	if err := c.writePayload(tc); err != nil {
		return nil, err
	}

	if err := c.writeMetadata(tc); err != nil {
		return nil, err
	}

	return old, nil
}

// Remove implements Corpus.
func (c *OnDiskCorpus[I]) Remove(id m.CorpusID) (*m.Testcase[I], error) {
	old, err := c.mem.Remove(id)
	if err != nil {
		return nil, err
	}

	c.removeFiles(old.Filename)

	return old, nil
}

// Persist implements Corpus. It rewrites the metadata sidecar of id.
func (c *OnDiskCorpus[I]) Persist(id m.CorpusID) error {
	tc, err := c.mem.Get(id)
	if err != nil {
		return err
	}

	return c.writeMetadata(tc)
}

func (c *OnDiskCorpus[I]) payloadPath(name string) string {
	return filepath.Join(c.dir, name)
}

func (c *OnDiskCorpus[I]) metadataPath(name string) string {
	return filepath.Join(c.dir, "."+name+".metadata")
}

func (c *OnDiskCorpus[I]) writePayload(tc *m.Testcase[I]) error {
	data, err := c.codec.Encode(tc.Input)
	if err != nil {
		return fmt.Errorf("failed to encode testcase %s: %w", tc.Filename, err)
	}

	if err := os.WriteFile(c.payloadPath(tc.Filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write testcase %s: %w", tc.Filename, err)
	}

	return nil
}

func (c *OnDiskCorpus[I]) writeMetadata(tc *m.Testcase[I]) error {
	file := testcaseFile{Executions: tc.Executions}

	if tc.ParentID != nil {
		parent := uint64(*tc.ParentID)
		file.Parent = &parent
	}

	mm := tc.MetadataMap()
	if len(mm) > 0 {
		file.Metadata = make(map[string]yaml.Node, len(mm))

		for _, name := range mm.Names() {
			var node yaml.Node
			if err := node.Encode(mm[name]); err != nil {
				return fmt.Errorf("failed to encode metadata %s of %s: %w", name, tc.Filename, err)
			}

			file.Metadata[name] = node
		}
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata of %s: %w", tc.Filename, err)
	}

	if err := os.WriteFile(c.metadataPath(tc.Filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata of %s: %w", tc.Filename, err)
	}

	return nil
}

func (c *OnDiskCorpus[I]) load(name string) (*m.Testcase[I], error) {
	data, err := os.ReadFile(c.payloadPath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read testcase %s: %w", name, err)
	}

	input, err := c.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode testcase %s: %w", name, err)
	}

	tc := m.NewTestcase(input)
	tc.Filename = name

	raw, err := os.ReadFile(c.metadataPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return tc, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read metadata of %s: %w", name, err)
	}

	var file testcaseFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse metadata of %s: %w", name, err)
	}

	tc.Executions = file.Executions

	if file.Parent != nil {
		tc.ParentID = m.CorpusID(*file.Parent).Ptr()
	}

	for mdName, node := range file.Metadata {
		md, ok := m.NewRegisteredMetadata(mdName)
		if !ok {
			slog.Debug("Skipping unknown metadata", "testcase", name, "metadata", mdName)
			continue
		}

		if err := node.Decode(md); err != nil {
			return nil, fmt.Errorf("failed to decode metadata %s of %s: %w", mdName, name, err)
		}

		tc.AddMetadata(md)
	}

	return tc, nil
}

func (c *OnDiskCorpus[I]) removeFiles(name string) {
	for _, path := range []string{c.payloadPath(name), c.metadataPath(name)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Error("Failed to remove corpus file", "path", path, "error", err)
		}
	}
}
