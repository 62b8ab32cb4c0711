package domain

import (
	"fmt"
	"log/slog"
	"slices"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// LoggerScheduledMutator records which mutations were applied and, when the
// result lands in the corpus, attaches their names as LogMutationMetadata.
type LoggerScheduledMutator[I m.Input] struct {
	name      string
	scheduled ScheduledMutator[I]
	log       []m.MutationID
}

// NewLoggerScheduledMutator wraps scheduled.
func NewLoggerScheduledMutator[I m.Input](scheduled ScheduledMutator[I]) *LoggerScheduledMutator[I] {
	return &LoggerScheduledMutator[I]{
		name:      "LoggerScheduledMutator[" + scheduled.Name() + "]",
		scheduled: scheduled,
	}
}

func (l *LoggerScheduledMutator[I]) Name() string {
	return l.name
}

func (l *LoggerScheduledMutator[I]) Mutations() *MutatorCollection[I] {
	return l.scheduled.Mutations()
}

func (l *LoggerScheduledMutator[I]) Iterations(st *state.State[I], input I) uint64 {
	return l.scheduled.Iterations(st, input)
}

func (l *LoggerScheduledMutator[I]) Schedule(st *state.State[I], input I) m.MutationID {
	return l.scheduled.Schedule(st, input)
}

// MutationLog returns a copy of the ids applied since the last Mutate started.
func (l *LoggerScheduledMutator[I]) MutationLog() []m.MutationID {
	return slices.Clone(l.log)
}

// Mutate clears the log and then applies the inner schedule, recording every id.
func (l *LoggerScheduledMutator[I]) Mutate(st *state.State[I], input I) (m.MutationResult, error) {
	l.log = l.log[:0]

	result := m.Skipped
	num := l.Iterations(st, input)

	for i := uint64(0); i < num; i++ {
		idx := l.Schedule(st, input)
		l.log = append(l.log, idx)

		outcome, err := l.Mutations().GetAndMutate(idx, st, input)
		if err != nil {
			return result, err
		}

		if outcome == m.Mutated {
			result = m.Mutated
		}
	}

	return result, nil
}

// PostExec attaches the mutation log to the new corpus entry, most recent
// mutation first. The log is cleared whatever happens.
func (l *LoggerScheduledMutator[I]) PostExec(st *state.State[I], id *m.CorpusID) error {
	defer func() { l.log = l.log[:0] }()

	if id != nil {
		if err := l.attachLog(st, *id); err != nil {
			return err
		}
	}

	return l.scheduled.PostExec(st, id)
}

func (l *LoggerScheduledMutator[I]) attachLog(st *state.State[I], id m.CorpusID) error {
	tc, err := st.Corpus().Get(id)
	if err != nil {
		return fmt.Errorf("failed to get testcase for mutation log: %w", err)
	}

	names := make([]string, 0, len(l.log))

	for i := len(l.log) - 1; i >= 0; i-- {
		name, ok := l.Mutations().Name(l.log[i])
		if !ok {
			return fmt.Errorf("%w: logged mutation %d of %d", m.ErrMutatorNotFound, l.log[i], l.Mutations().Len())
		}

		names = append(names, name)
	}

	tc.AddMetadata(m.NewLogMutationMetadata(names))

	if err := st.Corpus().Persist(id); err != nil {
		slog.Error("Failed to persist mutation log", "id", id, "error", err)
		return fmt.Errorf("failed to persist mutation log: %w", err)
	}

	slog.Debug("Attached mutation log", "id", id, "mutations", len(names))

	return nil
}
