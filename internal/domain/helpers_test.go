package domain

import (
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/rand"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// fakeMutator returns a fixed result and appends its name to the input.
type fakeMutator struct {
	name      string
	result    m.MutationResult
	err       error
	calls     int
	postExecs int
	lastID    *m.CorpusID
}

func (f *fakeMutator) Name() string {
	return f.name
}

func (f *fakeMutator) Mutate(_ *state.State[*m.BytesInput], input *m.BytesInput) (m.MutationResult, error) {
	f.calls++

	if f.err != nil {
		return m.Skipped, f.err
	}

	if f.result == m.Mutated {
		input.SetBytes(append(input.Bytes(), f.name[0]))
	}

	return f.result, nil
}

func (f *fakeMutator) PostExec(_ *state.State[*m.BytesInput], id *m.CorpusID) error {
	f.postExecs++
	f.lastID = id

	return nil
}

// scriptedScheduler replays a fixed schedule over a collection.
type scriptedScheduler struct {
	mutations  *MutatorCollection[*m.BytesInput]
	iterations uint64
	schedule   []m.MutationID
	pos        int
}

func (s *scriptedScheduler) Name() string {
	return "scripted"
}

func (s *scriptedScheduler) Mutations() *MutatorCollection[*m.BytesInput] {
	return s.mutations
}

func (s *scriptedScheduler) Iterations(_ *state.State[*m.BytesInput], _ *m.BytesInput) uint64 {
	return s.iterations
}

func (s *scriptedScheduler) Schedule(_ *state.State[*m.BytesInput], _ *m.BytesInput) m.MutationID {
	idx := s.schedule[s.pos%len(s.schedule)]
	s.pos++

	return idx
}

func (s *scriptedScheduler) Mutate(st *state.State[*m.BytesInput], input *m.BytesInput) (m.MutationResult, error) {
	return ScheduledMutate[*m.BytesInput](s, st, input)
}

func (s *scriptedScheduler) PostExec(st *state.State[*m.BytesInput], id *m.CorpusID) error {
	return s.mutations.PostExecAll(st, id)
}

func newTestState(seed uint64) *state.State[*m.BytesInput] {
	return state.NewInMemory[*m.BytesInput](rand.New(seed))
}

func newFakeCollection(names ...string) (*MutatorCollection[*m.BytesInput], []*fakeMutator) {
	fakes := make([]*fakeMutator, len(names))
	ms := make([]Mutator[*m.BytesInput], len(names))

	for i, name := range names {
		fakes[i] = &fakeMutator{name: name, result: m.Mutated}
		ms[i] = fakes[i]
	}

	return NewMutatorCollection(ms...), fakes
}
