// Package mutations holds the elementary mutators that scheduled mutators pick from.
package mutations

import (
	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/rand"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// DefaultMaxSize bounds the inputs produced by growing mutators.
const DefaultMaxSize = 1 << 20

// maxChunk bounds the ranges inserted, removed or copied in one step.
const maxChunk = 16

type mutateFunc[I m.Input] func(st *state.State[I], input I) (m.MutationResult, error)

// funcMutator adapts a function to domain.Mutator. Elementary mutators have no PostExec work.
type funcMutator[I m.Input] struct {
	name string
	fn   mutateFunc[I]
}

func newFuncMutator[I m.Input](name string, fn mutateFunc[I]) domain.Mutator[I] {
	return &funcMutator[I]{name: name, fn: fn}
}

func (f *funcMutator[I]) Name() string {
	return f.name
}

func (f *funcMutator[I]) Mutate(st *state.State[I], input I) (m.MutationResult, error) {
	return f.fn(st, input)
}

func (f *funcMutator[I]) PostExec(_ *state.State[I], _ *m.CorpusID) error {
	return nil
}

type bytesFunc func(r rand.Rand, data []byte, maxSize int) ([]byte, bool)

// newBytesMutator lifts a pure byte transformation into a mutator over BytesInput.
func newBytesMutator(name string, maxSize int, fn bytesFunc) domain.Mutator[*m.BytesInput] {
	return newFuncMutator[*m.BytesInput](name, func(st *state.State[*m.BytesInput], input *m.BytesInput) (m.MutationResult, error) {
		data, ok := fn(st.Rand(), input.Bytes(), maxSize)
		if !ok {
			return m.Skipped, nil
		}

		input.SetBytes(data)

		return m.Mutated, nil
	})
}

// randIndex returns an index in [0, n).
func randIndex(r rand.Rand, n int) int {
	return int(r.Below(uint64(n)))
}

// randChunk returns a length in [1, min(limit, maxChunk)]. limit must be positive.
func randChunk(r rand.Rand, limit int) int {
	return 1 + randIndex(r, min(limit, maxChunk))
}

// otherTestcase picks a corpus entry other than the one being fuzzed.
func otherTestcase[I m.Input](st *state.State[I]) (*m.Testcase[I], bool) {
	ids := st.Corpus().IDs()
	if len(ids) < 2 {
		return nil, false
	}

	id := ids[randIndex(st.Rand(), len(ids))]
	if current := st.CorpusIDCurrent(); current != nil && *current == id {
		return nil, false
	}

	tc, err := st.Corpus().Get(id)
	if err != nil {
		return nil, false
	}

	return tc, true
}
