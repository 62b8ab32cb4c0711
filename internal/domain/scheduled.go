package domain

import (
	"fmt"
	"strings"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// DefaultMaxStackPow bounds havoc stacking to at most 1<<8 mutations.
const DefaultMaxStackPow = 7

// ScheduledMutator applies a number of mutations picked from its collection.
type ScheduledMutator[I m.Input] interface {
	Mutator[I]
	ComposedByMutations[I]
	// Iterations returns how many mutations to apply to input.
	Iterations(st *state.State[I], input I) uint64
	// Schedule picks the next mutation to apply.
	Schedule(st *state.State[I], input I) m.MutationID
}

// ScheduledMutate applies sm.Iterations scheduled mutations to input.
// The result is Mutated if at least one of them mutated the input.
func ScheduledMutate[I m.Input](sm ScheduledMutator[I], st *state.State[I], input I) (m.MutationResult, error) {
	result := m.Skipped
	num := sm.Iterations(st, input)

	for i := uint64(0); i < num; i++ {
		idx := sm.Schedule(st, input)

		outcome, err := sm.Mutations().GetAndMutate(idx, st, input)
		if err != nil {
			return result, err
		}

		if outcome == m.Mutated {
			result = m.Mutated
		}
	}

	return result, nil
}

func scheduledName(kind string, mutations []string) string {
	return kind + "[" + strings.Join(mutations, ", ") + "]"
}

func scheduleUniform[I m.Input](st *state.State[I], mutations *MutatorCollection[I], owner string) m.MutationID {
	if mutations.Len() == 0 {
		panic(fmt.Sprintf("%s: cannot schedule from an empty mutator collection", owner))
	}

	return m.MutationID(st.Rand().Below(uint64(mutations.Len())))
}

// SingleChoiceScheduledMutator applies exactly one uniformly chosen mutation.
type SingleChoiceScheduledMutator[I m.Input] struct {
	name      string
	mutations *MutatorCollection[I]
}

// NewSingleChoiceScheduledMutator creates the mutator. mutations must not be empty.
func NewSingleChoiceScheduledMutator[I m.Input](mutations *MutatorCollection[I]) *SingleChoiceScheduledMutator[I] {
	return &SingleChoiceScheduledMutator[I]{
		name:      scheduledName("SingleChoiceScheduledMutator", mutations.Names()),
		mutations: mutations,
	}
}

func (s *SingleChoiceScheduledMutator[I]) Name() string {
	return s.name
}

func (s *SingleChoiceScheduledMutator[I]) Mutations() *MutatorCollection[I] {
	return s.mutations
}

func (s *SingleChoiceScheduledMutator[I]) Iterations(_ *state.State[I], _ I) uint64 {
	return 1
}

func (s *SingleChoiceScheduledMutator[I]) Schedule(st *state.State[I], _ I) m.MutationID {
	return scheduleUniform(st, s.mutations, "SingleChoiceScheduledMutator")
}

func (s *SingleChoiceScheduledMutator[I]) Mutate(st *state.State[I], input I) (m.MutationResult, error) {
	return ScheduledMutate[I](s, st, input)
}

func (s *SingleChoiceScheduledMutator[I]) PostExec(st *state.State[I], id *m.CorpusID) error {
	return s.mutations.PostExecAll(st, id)
}

// HavocScheduledMutator stacks a random power-of-two number of uniformly chosen mutations.
type HavocScheduledMutator[I m.Input] struct {
	name        string
	mutations   *MutatorCollection[I]
	maxStackPow uint64
}

// NewHavocScheduledMutator creates the mutator with DefaultMaxStackPow.
func NewHavocScheduledMutator[I m.Input](mutations *MutatorCollection[I]) *HavocScheduledMutator[I] {
	return NewHavocScheduledMutatorWithMaxStackPow(mutations, DefaultMaxStackPow)
}

// NewHavocScheduledMutatorWithMaxStackPow creates the mutator. Each round applies
// 1<<(1+k) mutations with k drawn uniformly from [0, maxStackPow].
func NewHavocScheduledMutatorWithMaxStackPow[I m.Input](mutations *MutatorCollection[I], maxStackPow uint64) *HavocScheduledMutator[I] {
	return &HavocScheduledMutator[I]{
		name:        scheduledName("HavocScheduledMutator", mutations.Names()),
		mutations:   mutations,
		maxStackPow: maxStackPow,
	}
}

func (h *HavocScheduledMutator[I]) Name() string {
	return h.name
}

func (h *HavocScheduledMutator[I]) Mutations() *MutatorCollection[I] {
	return h.mutations
}

// MaxStackPow returns the stacking exponent bound.
func (h *HavocScheduledMutator[I]) MaxStackPow() uint64 {
	return h.maxStackPow
}

func (h *HavocScheduledMutator[I]) Iterations(st *state.State[I], _ I) uint64 {
	return 1 << (1 + st.Rand().BelowOrZero(h.maxStackPow+1))
}

func (h *HavocScheduledMutator[I]) Schedule(st *state.State[I], _ I) m.MutationID {
	return scheduleUniform(st, h.mutations, "HavocScheduledMutator")
}

func (h *HavocScheduledMutator[I]) Mutate(st *state.State[I], input I) (m.MutationResult, error) {
	return ScheduledMutate[I](h, st, input)
}

func (h *HavocScheduledMutator[I]) PostExec(st *state.State[I], id *m.CorpusID) error {
	return h.mutations.PostExecAll(st, id)
}
