package model

import (
	"fmt"
	"sort"
	"sync"
)

// CorpusID is an opaque identifier of one stored testcase.
type CorpusID uint64

func (id CorpusID) String() string {
	return fmt.Sprintf("%d", uint64(id))
}

// Ptr returns a pointer to a copy of id. Handy for optional corpus ids.
func (id CorpusID) Ptr() *CorpusID {
	return &id
}

// Metadata is a named value attached to a testcase or to the fuzzing state.
type Metadata interface {
	MetadataName() string
}

// MetadataMap holds metadata keyed by name. A later Add with the same name replaces the value.
type MetadataMap map[string]Metadata

// Add stores md under its name.
func (mm MetadataMap) Add(md Metadata) {
	mm[md.MetadataName()] = md
}

// Get returns the metadata stored under name.
func (mm MetadataMap) Get(name string) (Metadata, bool) {
	md, ok := mm[name]
	return md, ok
}

// Names returns the stored names in sorted order.
func (mm MetadataMap) Names() []string {
	names := make([]string, 0, len(mm))
	for name := range mm {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// MetadataOf looks up the metadata named name and asserts it to T.
func MetadataOf[T Metadata](mm MetadataMap, name string) (T, bool) {
	var zero T

	md, ok := mm[name]
	if !ok {
		return zero, false
	}

	typed, ok := md.(T)
	if !ok {
		return zero, false
	}

	return typed, true
}

var (
	metadataRegistryMu sync.RWMutex
	metadataRegistry   = map[string]func() Metadata{}
)

// RegisterMetadata makes a metadata type loadable from persisted testcases.
func RegisterMetadata(name string, factory func() Metadata) {
	metadataRegistryMu.Lock()
	defer metadataRegistryMu.Unlock()

	metadataRegistry[name] = factory
}

// NewRegisteredMetadata creates an empty value for a registered metadata name.
func NewRegisteredMetadata(name string) (Metadata, bool) {
	metadataRegistryMu.RLock()
	defer metadataRegistryMu.RUnlock()

	factory, ok := metadataRegistry[name]
	if !ok {
		return nil, false
	}

	return factory(), true
}

func init() {
	RegisterMetadata(LogMutationMetadataName, func() Metadata { return &LogMutationMetadata{} })
}

// Testcase is a corpus entry: an input plus what the fuzzer learned about it.
type Testcase[I Input] struct {
	Input      I
	Filename   string
	Executions uint64
	ParentID   *CorpusID
	metadata   MetadataMap
}

// NewTestcase wraps input in a testcase without metadata.
func NewTestcase[I Input](input I) *Testcase[I] {
	return &Testcase[I]{Input: input, metadata: MetadataMap{}}
}

// AddMetadata attaches md, replacing any metadata with the same name.
func (tc *Testcase[I]) AddMetadata(md Metadata) {
	if tc.metadata == nil {
		tc.metadata = MetadataMap{}
	}

	tc.metadata.Add(md)
}

// Metadata returns the metadata stored under name.
func (tc *Testcase[I]) Metadata(name string) (Metadata, bool) {
	return tc.metadata.Get(name)
}

// HasMetadata reports whether metadata named name is attached.
func (tc *Testcase[I]) HasMetadata(name string) bool {
	_, ok := tc.metadata[name]
	return ok
}

// MetadataMap exposes all attached metadata.
func (tc *Testcase[I]) MetadataMap() MetadataMap {
	if tc.metadata == nil {
		tc.metadata = MetadataMap{}
	}

	return tc.metadata
}
