package domain

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

func TestScheduledMutate_Accumulation(t *testing.T) {
	tests := []struct {
		name     string
		results  []m.MutationResult
		schedule []m.MutationID
		want     m.MutationResult
	}{
		{
			name:     "all skipped",
			results:  []m.MutationResult{m.Skipped, m.Skipped},
			schedule: []m.MutationID{0, 1, 0, 1},
			want:     m.Skipped,
		},
		{
			name:     "mutated first then skipped",
			results:  []m.MutationResult{m.Mutated, m.Skipped},
			schedule: []m.MutationID{0, 1, 1, 1},
			want:     m.Mutated,
		},
		{
			name:     "mutated last",
			results:  []m.MutationResult{m.Skipped, m.Mutated},
			schedule: []m.MutationID{0, 0, 0, 1},
			want:     m.Mutated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collection, fakes := newFakeCollection("A", "B")
			for i, result := range tt.results {
				fakes[i].result = result
			}

			sm := &scriptedScheduler{mutations: collection, iterations: 4, schedule: tt.schedule}

			got, err := ScheduledMutate[*m.BytesInput](sm, newTestState(1), m.NewBytesInput(nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 4, fakes[0].calls+fakes[1].calls)
		})
	}
}

func TestScheduledMutate_ErrorStopsImmediately(t *testing.T) {
	collection, fakes := newFakeCollection("A", "B")
	boom := errors.New("boom")
	fakes[1].err = boom

	sm := &scriptedScheduler{mutations: collection, iterations: 4, schedule: []m.MutationID{0, 1, 0, 0}}

	_, err := ScheduledMutate[*m.BytesInput](sm, newTestState(1), m.NewBytesInput(nil))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, fakes[0].calls)
	assert.Equal(t, 1, fakes[1].calls)
}

func TestScheduledMutate_ZeroIterations(t *testing.T) {
	collection, fakes := newFakeCollection("A")
	sm := &scriptedScheduler{mutations: collection, iterations: 0, schedule: []m.MutationID{0}}

	got, err := ScheduledMutate[*m.BytesInput](sm, newTestState(1), m.NewBytesInput(nil))
	require.NoError(t, err)
	assert.Equal(t, m.Skipped, got)
	assert.Equal(t, 0, fakes[0].calls)
}

func TestSingleChoiceScheduledMutator(t *testing.T) {
	collection, fakes := newFakeCollection("A", "B", "C")
	sm := NewSingleChoiceScheduledMutator(collection)
	st := newTestState(0x1337)
	input := m.NewBytesInput(nil)

	assert.Equal(t, "SingleChoiceScheduledMutator[A, B, C]", sm.Name())
	assert.Equal(t, uint64(1), sm.Iterations(st, input))

	seen := map[m.MutationID]int{}

	for i := 0; i < 1000; i++ {
		idx := sm.Schedule(st, input)
		require.GreaterOrEqual(t, int(idx), 0)
		require.Less(t, int(idx), 3)
		seen[idx]++
	}

	assert.Len(t, seen, 3)

	result, err := sm.Mutate(st, input)
	require.NoError(t, err)
	assert.Equal(t, m.Mutated, result)
	assert.Equal(t, 1, fakes[0].calls+fakes[1].calls+fakes[2].calls)
	assert.Len(t, input.Bytes(), 1)
}

func TestHavocScheduledMutator_IterationsArePowersOfTwo(t *testing.T) {
	collection, _ := newFakeCollection("A")
	sm := NewHavocScheduledMutator(collection)
	st := newTestState(7)
	input := m.NewBytesInput(nil)

	assert.Equal(t, uint64(DefaultMaxStackPow), sm.MaxStackPow())
	assert.Equal(t, "HavocScheduledMutator[A]", sm.Name())

	seen := map[uint64]bool{}

	for i := 0; i < 2000; i++ {
		n := sm.Iterations(st, input)
		require.Equal(t, 1, bits.OnesCount64(n), "iterations %d must be a power of two", n)
		require.GreaterOrEqual(t, n, uint64(2))
		require.LessOrEqual(t, n, uint64(1)<<(DefaultMaxStackPow+1))
		seen[n] = true
	}

	// 2, 4, ..., 256
	assert.Len(t, seen, DefaultMaxStackPow+1)
}

func TestHavocScheduledMutator_ZeroStackPow(t *testing.T) {
	collection, fakes := newFakeCollection("A")
	sm := NewHavocScheduledMutatorWithMaxStackPow(collection, 0)
	st := newTestState(3)
	input := m.NewBytesInput(nil)

	for i := 0; i < 50; i++ {
		require.Equal(t, uint64(2), sm.Iterations(st, input))
	}

	result, err := sm.Mutate(st, input)
	require.NoError(t, err)
	assert.Equal(t, m.Mutated, result)
	assert.Equal(t, 2, fakes[0].calls)
}

func TestHavocScheduledMutator_AllSkipped(t *testing.T) {
	collection, fakes := newFakeCollection("A", "B")
	fakes[0].result = m.Skipped
	fakes[1].result = m.Skipped

	result, err := NewHavocScheduledMutator(collection).Mutate(newTestState(5), m.NewBytesInput([]byte("x")))
	require.NoError(t, err)
	assert.Equal(t, m.Skipped, result)
}

func TestScheduledMutators_EmptyCollectionPanics(t *testing.T) {
	empty := NewMutatorCollection[*m.BytesInput]()
	st := newTestState(1)
	input := m.NewBytesInput(nil)

	assert.PanicsWithValue(t,
		"SingleChoiceScheduledMutator: cannot schedule from an empty mutator collection",
		func() { NewSingleChoiceScheduledMutator(empty).Schedule(st, input) })
	assert.Panics(t, func() { NewHavocScheduledMutator(empty).Schedule(st, input) })
}

func TestScheduledMutators_ForwardPostExec(t *testing.T) {
	collection, fakes := newFakeCollection("A", "B")
	st := newTestState(1)

	require.NoError(t, NewSingleChoiceScheduledMutator(collection).PostExec(st, nil))
	require.NoError(t, NewHavocScheduledMutator(collection).PostExec(st, nil))

	assert.Equal(t, 2, fakes[0].postExecs)
	assert.Equal(t, 2, fakes[1].postExecs)
}

func TestHavocScheduledMutator_DeterministicReplay(t *testing.T) {
	run := func() ([]m.MutationID, []byte) {
		collection, _ := newFakeCollection("A", "B", "C", "D")
		sm := NewHavocScheduledMutator(collection)
		st := newTestState(0xdead)
		input := m.NewBytesInput(nil)

		ids := make([]m.MutationID, 0, 16)
		for i := 0; i < 16; i++ {
			ids = append(ids, sm.Schedule(st, input))
		}

		_, err := sm.Mutate(st, input)
		require.NoError(t, err)

		return ids, input.Bytes()
	}

	idsA, bytesA := run()
	idsB, bytesB := run()

	assert.Equal(t, idsA, idsB)
	assert.Equal(t, bytesA, bytesB)
}
