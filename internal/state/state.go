// Package state bundles everything one fuzzing instance owns.
package state

import (
	"mutafuzz.dev/pkg/mutafuzz/internal/corpus"
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/rand"
)

// State is owned by exactly one fuzzing instance and is not safe for concurrent use.
type State[I m.Input] struct {
	rand       rand.Rand
	corpus     corpus.Corpus[I]
	solutions  corpus.Corpus[I]
	metadata   m.MetadataMap
	executions uint64
	current    *m.CorpusID
}

// New creates a state over the given random source and corpora.
func New[I m.Input](r rand.Rand, main, solutions corpus.Corpus[I]) *State[I] {
	return &State[I]{
		rand:      r,
		corpus:    main,
		solutions: solutions,
		metadata:  m.MetadataMap{},
	}
}

// NewInMemory creates a state with in-memory corpora.
func NewInMemory[I m.Input](r rand.Rand) *State[I] {
	return New[I](r, corpus.NewInMemoryCorpus[I](), corpus.NewInMemoryCorpus[I]())
}

func (s *State[I]) Rand() rand.Rand {
	return s.rand
}

func (s *State[I]) Corpus() corpus.Corpus[I] {
	return s.corpus
}

func (s *State[I]) Solutions() corpus.Corpus[I] {
	return s.solutions
}

// Metadata returns the state-level metadata stored under name.
func (s *State[I]) Metadata(name string) (m.Metadata, bool) {
	return s.metadata.Get(name)
}

// AddMetadata stores md, replacing any value with the same name.
func (s *State[I]) AddMetadata(md m.Metadata) {
	s.metadata.Add(md)
}

// MetadataMap exposes all state-level metadata.
func (s *State[I]) MetadataMap() m.MetadataMap {
	return s.metadata
}

func (s *State[I]) Executions() uint64 {
	return s.executions
}

func (s *State[I]) IncExecutions() {
	s.executions++
}

// CorpusIDCurrent returns the id of the seed being fuzzed, if any.
func (s *State[I]) CorpusIDCurrent() *m.CorpusID {
	return s.current
}

func (s *State[I]) SetCorpusIDCurrent(id *m.CorpusID) {
	s.current = id
}

// Tokens returns the token dictionary, if one was added.
func (s *State[I]) Tokens() (*m.Tokens, bool) {
	return m.MetadataOf[*m.Tokens](s.metadata, m.TokensMetadataName)
}
