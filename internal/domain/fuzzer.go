package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
	pkg "mutafuzz.dev/pkg/mutafuzz/pkg"
)

// maxJournalStderr bounds the stderr excerpt kept per solution.
const maxJournalStderr = 512

// Cloner is an input that can copy itself. The fuzzer mutates copies, never corpus entries.
type Cloner[I any] interface {
	m.Input
	Clone() I
}

// InputResult tells what happened to one evaluated input.
type InputResult int

const (
	// ResultSkipped means no mutation applied and nothing was executed.
	ResultSkipped InputResult = iota
	// ResultNone means the input ran but was not kept.
	ResultNone
	// ResultCorpus means the input was added to the corpus.
	ResultCorpus
	// ResultSolution means the input was added to the solutions.
	ResultSolution
)

func (r InputResult) String() string {
	switch r {
	case ResultSkipped:
		return "skipped"
	case ResultNone:
		return "none"
	case ResultCorpus:
		return "corpus"
	case ResultSolution:
		return "solution"
	default:
		return "unknown"
	}
}

// Fuzzer drives one fuzzing instance: pick a seed, mutate a copy, run it and
// keep it when the feedbacks say so.
type Fuzzer[I Cloner[I]] struct {
	mutator   Mutator[I]
	scheduler Scheduler[I]
	executor  Executor[I]
	feedback  Feedback[I]
	objective Feedback[I]
	stats     *Stats
	journal   pkg.FileSpill[m.SolutionRecord]
	runID     string
	instance  int
}

// NewFuzzer wires the fuzz loop collaborators.
func NewFuzzer[I Cloner[I]](
	mutator Mutator[I],
	scheduler Scheduler[I],
	executor Executor[I],
	feedback Feedback[I],
	objective Feedback[I],
) *Fuzzer[I] {
	return &Fuzzer[I]{
		mutator:   mutator,
		scheduler: scheduler,
		executor:  executor,
		feedback:  feedback,
		objective: objective,
		stats:     NewStats("0"),
	}
}

// SetStats replaces the stats sink.
func (f *Fuzzer[I]) SetStats(stats *Stats) {
	f.stats = stats
}

// Stats returns the stats sink.
func (f *Fuzzer[I]) Stats() *Stats {
	return f.stats
}

// SetJournal makes the fuzzer record every solution in journal.
func (f *Fuzzer[I]) SetJournal(journal pkg.FileSpill[m.SolutionRecord], runID string, instance int) {
	f.journal = journal
	f.runID = runID
	f.instance = instance
}

// FuzzOne runs one fuzzing attempt.
func (f *Fuzzer[I]) FuzzOne(ctx context.Context, st *state.State[I]) (InputResult, error) {
	id, err := f.scheduler.Next(st)
	if err != nil {
		return ResultNone, fmt.Errorf("failed to schedule next seed: %w", err)
	}

	st.SetCorpusIDCurrent(id.Ptr())

	tc, err := st.Corpus().Get(id)
	if err != nil {
		return ResultNone, fmt.Errorf("failed to get seed %d: %w", id, err)
	}

	input := tc.Input.Clone()

	mutated, err := f.mutator.Mutate(st, input)
	if err != nil {
		slog.Error("Failed to mutate input", "seed", id, "mutator", f.mutator.Name(), "error", err)
		return ResultNone, fmt.Errorf("failed to mutate seed %d: %w", id, err)
	}

	if mutated == m.Skipped {
		f.stats.IncSkipped()

		if err := f.mutator.PostExec(st, nil); err != nil {
			return ResultSkipped, fmt.Errorf("failed to run post exec: %w", err)
		}

		return ResultSkipped, nil
	}

	result, newID, err := f.evaluate(ctx, st, input, id.Ptr(), false)
	if err != nil {
		return result, err
	}

	var added *m.CorpusID
	if result == ResultCorpus {
		added = &newID
	}

	if err := f.mutator.PostExec(st, added); err != nil {
		return result, fmt.Errorf("failed to run post exec: %w", err)
	}

	return result, nil
}

// FuzzLoop calls FuzzOne until ctx is done or, when iterations is nonzero,
// after that many attempts.
func (f *Fuzzer[I]) FuzzLoop(ctx context.Context, st *state.State[I], iterations uint64) error {
	for i := uint64(0); iterations == 0 || i < iterations; i++ {
		if ctx.Err() != nil {
			return nil
		}

		if _, err := f.FuzzOne(ctx, st); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return err
		}
	}

	return nil
}

// EvaluateInput runs input once, outside of mutation. With forceAdd the input
// enters the corpus even when the feedback is not interested.
func (f *Fuzzer[I]) EvaluateInput(ctx context.Context, st *state.State[I], input I, forceAdd bool) (InputResult, error) {
	result, _, err := f.evaluate(ctx, st, input, nil, forceAdd)
	return result, err
}

func (f *Fuzzer[I]) evaluate(ctx context.Context, st *state.State[I], input I, parent *m.CorpusID, forceAdd bool) (InputResult, m.CorpusID, error) {
	exit, obs, err := f.executor.RunTarget(ctx, st, input)
	if err != nil {
		return ResultNone, 0, fmt.Errorf("failed to run target: %w", err)
	}

	st.IncExecutions()
	f.stats.IncExecutions()

	solution, err := f.objective.IsInteresting(st, input, exit, obs)
	if err != nil {
		return ResultNone, 0, fmt.Errorf("failed to evaluate objective %s: %w", f.objective.Name(), err)
	}

	if solution {
		if err := f.addSolution(st, input, parent, exit, obs); err != nil {
			return ResultNone, 0, err
		}

		return ResultSolution, 0, nil
	}

	interesting, err := f.feedback.IsInteresting(st, input, exit, obs)
	if err != nil {
		return ResultNone, 0, fmt.Errorf("failed to evaluate feedback %s: %w", f.feedback.Name(), err)
	}

	if !interesting && !forceAdd {
		return ResultNone, 0, nil
	}

	tc := m.NewTestcase(input)
	tc.ParentID = parent
	tc.Executions = st.Executions()

	id, err := st.Corpus().Add(tc)
	if err != nil {
		return ResultNone, 0, fmt.Errorf("failed to add testcase to corpus: %w", err)
	}

	if err := f.scheduler.OnAdd(st, id); err != nil {
		return ResultCorpus, id, fmt.Errorf("failed to notify scheduler: %w", err)
	}

	f.stats.SetCorpusSize(st.Corpus().Count())
	slog.Debug("Added testcase to corpus", "id", id, "name", tc.Filename, "exit", exit)

	return ResultCorpus, id, nil
}

func (f *Fuzzer[I]) addSolution(st *state.State[I], input I, parent *m.CorpusID, exit m.ExitKind, obs m.Observation) error {
	tc := m.NewTestcase(input)
	tc.ParentID = parent
	tc.Executions = st.Executions()

	id, err := st.Solutions().Add(tc)
	if err != nil {
		return fmt.Errorf("failed to add testcase to solutions: %w", err)
	}

	f.stats.IncObjectives()
	slog.Info("Found solution", "id", id, "name", tc.Filename, "exit", exit, "code", obs.ExitCode)

	if f.journal == nil {
		return nil
	}

	name := tc.Filename
	if name == "" {
		name = input.GenerateName(&id)
	}

	stderr := obs.Stderr
	if len(stderr) > maxJournalStderr {
		stderr = stderr[:maxJournalStderr]
	}

	record := m.SolutionRecord{
		RunID:      f.runID,
		Instance:   f.instance,
		Name:       name,
		ExitKind:   exit.String(),
		ExitCode:   obs.ExitCode,
		Duration:   obs.Duration,
		Executions: tc.Executions,
		Stderr:     string(stderr),
		FoundAt:    time.Now(),
	}

	if err := f.journal.Append(record); err != nil {
		slog.Error("Failed to journal solution", "name", name, "error", err)
		return fmt.Errorf("failed to journal solution: %w", err)
	}

	return nil
}

// ErrNoSeeds is returned when a fuzz loop is started without any seed input.
var ErrNoSeeds = errors.New("no seeds in corpus")
