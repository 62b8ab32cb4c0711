// Package domain contains the mutation scheduling core and the fuzz loop built on it.
package domain

import (
	"fmt"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// Mutator changes an input in place.
type Mutator[I m.Input] interface {
	// Name identifies the mutator in logs and mutation metadata.
	Name() string
	// Mutate changes input. Returning Skipped is not an error: it means
	// the mutator had nothing to do on this input.
	Mutate(st *state.State[I], input I) (m.MutationResult, error)
	// PostExec runs after the mutated input was executed. id is set when
	// the input was added to the corpus.
	PostExec(st *state.State[I], id *m.CorpusID) error
}

// MutatorCollection is a fixed, ordered list of mutators addressed by MutationID.
type MutatorCollection[I m.Input] struct {
	mutators []Mutator[I]
}

// NewMutatorCollection creates a collection. The order of ms is the id order.
func NewMutatorCollection[I m.Input](ms ...Mutator[I]) *MutatorCollection[I] {
	mutators := make([]Mutator[I], len(ms))
	copy(mutators, ms)

	return &MutatorCollection[I]{mutators: mutators}
}

// Concat returns a new collection holding the mutators of c followed by those of other.
func (c *MutatorCollection[I]) Concat(other *MutatorCollection[I]) *MutatorCollection[I] {
	mutators := make([]Mutator[I], 0, c.Len()+other.Len())
	mutators = append(mutators, c.mutators...)
	mutators = append(mutators, other.mutators...)

	return &MutatorCollection[I]{mutators: mutators}
}

func (c *MutatorCollection[I]) Len() int {
	return len(c.mutators)
}

// Name returns the name of the mutator at idx.
func (c *MutatorCollection[I]) Name(idx m.MutationID) (string, bool) {
	if idx < 0 || int(idx) >= len(c.mutators) {
		return "", false
	}

	return c.mutators[idx].Name(), true
}

// Names returns all mutator names in id order.
func (c *MutatorCollection[I]) Names() []string {
	names := make([]string, len(c.mutators))
	for i, mutator := range c.mutators {
		names[i] = mutator.Name()
	}

	return names
}

// GetAndMutate applies the mutator at idx to input.
func (c *MutatorCollection[I]) GetAndMutate(idx m.MutationID, st *state.State[I], input I) (m.MutationResult, error) {
	if idx < 0 || int(idx) >= len(c.mutators) {
		return m.Skipped, fmt.Errorf("%w: index %d of %d", m.ErrMutatorNotFound, idx, len(c.mutators))
	}

	return c.mutators[idx].Mutate(st, input)
}

// PostExecAll forwards PostExec to every mutator and stops at the first error.
func (c *MutatorCollection[I]) PostExecAll(st *state.State[I], id *m.CorpusID) error {
	for _, mutator := range c.mutators {
		if err := mutator.PostExec(st, id); err != nil {
			return fmt.Errorf("failed to run post exec of %s: %w", mutator.Name(), err)
		}
	}

	return nil
}

// ComposedByMutations is implemented by mutators built from a collection.
type ComposedByMutations[I m.Input] interface {
	Mutations() *MutatorCollection[I]
}
