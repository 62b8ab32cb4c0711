package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"mutafuzz.dev/pkg/mutafuzz/internal/adapter"
	"mutafuzz.dev/pkg/mutafuzz/internal/controller"
	"mutafuzz.dev/pkg/mutafuzz/internal/corpus"
	"mutafuzz.dev/pkg/mutafuzz/internal/encoding"
	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/rand"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
	pkg "mutafuzz.dev/pkg/mutafuzz/pkg"
)

// Scheduler kinds accepted in FuzzArgs.
const (
	SchedulerHavoc  = "havoc"
	SchedulerSingle = "single"
)

const journalPattern = ".journal-*.gob"

// FuzzArgs contains the arguments of a fuzzing run.
type FuzzArgs struct {
	Target         []string
	Seeds          []string
	CorpusDir      string
	SolutionsDir   string
	Dictionaries   []string
	Scheduler      string
	MaxStackPow    uint64
	LogMutations   bool
	Runs           uint64
	Duration       time.Duration
	Timeout        time.Duration
	Seed           uint64
	Parallel       int
	Tokens         bool
	MaxSize        int
	CrashOnNonZero bool
}

// TokenizeArgs contains the arguments for inspecting the tokenizer.
type TokenizeArgs struct {
	Paths []string
	Diff  bool
}

// ViewArgs contains the arguments for viewing a corpus directory.
type ViewArgs struct {
	Dir string
}

// Workflow defines the operations behind the CLI commands.
type Workflow interface {
	Fuzz(ctx context.Context, args FuzzArgs) error
	Tokenize(ctx context.Context, args TokenizeArgs) error
	View(ctx context.Context, args ViewArgs) error
}

// BytesMutationsFunc builds the mutators for raw byte inputs.
type BytesMutationsFunc func(maxSize int, withTokens bool) *MutatorCollection[*m.BytesInput]

// EncodedMutationsFunc builds the mutators for encoded inputs.
type EncodedMutationsFunc func(maxSize int) *MutatorCollection[*m.EncodedInput]

type workflow struct {
	adapter.SeedFSAdapter
	adapter.DictionaryAdapter
	ui               controller.UI
	bytesMutations   BytesMutationsFunc
	encodedMutations EncodedMutationsFunc
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	seedFS adapter.SeedFSAdapter,
	dictionaries adapter.DictionaryAdapter,
	ui controller.UI,
	bytesMutations BytesMutationsFunc,
	encodedMutations EncodedMutationsFunc,
) Workflow {
	return &workflow{
		SeedFSAdapter:     seedFS,
		DictionaryAdapter: dictionaries,
		ui:                ui,
		bytesMutations:    bytesMutations,
		encodedMutations:  encodedMutations,
	}
}

// fuzzSetup is everything that differs between byte and encoded fuzzing.
type fuzzSetup[I Cloner[I]] struct {
	codec     corpus.Codec[I]
	seeds     []I
	mutations func() *MutatorCollection[I]
	toBytes   func(I) ([]byte, error)
	tokens    *m.Tokens
}

func (w *workflow) Fuzz(ctx context.Context, args FuzzArgs) error {
	if len(args.Target) == 0 {
		return m.IllegalArgument("no target command given")
	}

	if args.Scheduler != "" && args.Scheduler != SchedulerHavoc && args.Scheduler != SchedulerSingle {
		return m.IllegalArgument("unknown scheduler %q", args.Scheduler)
	}

	seeds, err := w.Get(args.Seeds)
	if err != nil {
		return fmt.Errorf("get seeds: %w", err)
	}

	if len(seeds) == 0 {
		return ErrNoSeeds
	}

	tokens, err := w.Load(args.Dictionaries)
	if err != nil {
		return fmt.Errorf("load dictionaries: %w", err)
	}

	maxSize := args.MaxSize
	if maxSize <= 0 {
		maxSize = 1 << 20
	}

	if !args.Tokens {
		setup := fuzzSetup[*m.BytesInput]{
			codec:   corpus.BytesCodec{},
			toBytes: adapter.BytesTarget,
			tokens:  tokens,
			mutations: func() *MutatorCollection[*m.BytesInput] {
				return w.bytesMutations(maxSize, tokens.Len() > 0)
			},
		}

		for _, seed := range seeds {
			setup.seeds = append(setup.seeds, m.NewBytesInput(seed.Data))
		}

		return runFuzz(ctx, w, args, setup)
	}

	encoder := encoding.NewTokenInputEncoderDecoder()
	tokenizer := encoding.DefaultNaiveTokenizer()

	setup := fuzzSetup[*m.EncodedInput]{
		codec:   corpus.EncodedCodec{},
		toBytes: encoder.ToTargetBytes,
		tokens:  tokens,
		mutations: func() *MutatorCollection[*m.EncodedInput] {
			return w.encodedMutations(maxSize)
		},
	}

	for _, seed := range seeds {
		input, err := encoder.Encode(seed.Data, tokenizer)
		if err != nil {
			slog.Error("Failed to encode seed", "path", seed.Path, "error", err)
			return fmt.Errorf("encode seed %s: %w", seed.Path, err)
		}

		setup.seeds = append(setup.seeds, input)
	}

	// Encoding is finished before any instance starts, so the table is only read from here on.
	setup.tokens = encoding.TokensFromEncoder(encoder)

	return runFuzz(ctx, w, args, setup)
}

func runFuzz[I Cloner[I]](ctx context.Context, w *workflow, args FuzzArgs, setup fuzzSetup[I]) error {
	instances := max(args.Parallel, 1)
	runID := uuid.NewString()

	journalDir := args.SolutionsDir
	if journalDir == "" {
		dir, err := os.MkdirTemp("", "mutafuzz-journal-*")
		if err != nil {
			return fmt.Errorf("create journal dir: %w", err)
		}

		defer func() { _ = os.RemoveAll(dir) }()

		journalDir = dir
	}

	var base rand.Rand = rand.NewFromTime()
	if args.Seed != 0 {
		base = rand.New(args.Seed)
	}

	rands := make([]rand.Rand, instances)
	for i := range rands {
		rands[i] = base.Split()
	}

	if err := w.ui.Start(ctx, controller.WithFuzzMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	w.ui.DisplayFuzzStart(ctx, controller.FuzzInfo{
		RunID:     runID,
		Target:    args.Target,
		Instances: instances,
		Seeds:     len(setup.seeds),
		Tokens:    setup.tokens.Len(),
		Mutator:   describeMutator(args, setup.mutations()),
	})

	if args.Duration > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, args.Duration)
		defer cancel()
	}

	snapshots := make([]m.StatsSnapshot, instances)
	journals := make([]string, instances)

	err := RunInstances(ctx, instances, func(ctx context.Context, i int) error {
		snap, journal, err := fuzzInstance(ctx, args, setup, instanceDirs(args, i, instances), journalDir, rands[i], runID, i)
		snapshots[i] = snap
		journals[i] = journal

		if err != nil {
			return err
		}

		w.ui.DisplayInstanceDone(context.WithoutCancel(ctx), i, snap)

		return nil
	})

	w.ui.DisplaySummary(context.WithoutCancel(ctx), snapshots)

	records, journalErr := readJournals(journals)
	if journalErr != nil {
		slog.Error("Failed to read solution journal", "error", journalErr)
	}

	w.ui.DisplaySolutions(context.WithoutCancel(ctx), records)

	if err != nil {
		return fmt.Errorf("run fuzzing instances: %w", err)
	}

	return journalErr
}

type corpusDirs struct {
	corpus    string
	solutions string
}

func instanceDirs(args FuzzArgs, instance, instances int) corpusDirs {
	dirs := corpusDirs{corpus: args.CorpusDir, solutions: args.SolutionsDir}
	if instances == 1 {
		return dirs
	}

	sub := "instance-" + strconv.Itoa(instance)

	if dirs.corpus != "" {
		dirs.corpus = filepath.Join(dirs.corpus, sub)
	}

	if dirs.solutions != "" {
		dirs.solutions = filepath.Join(dirs.solutions, sub)
	}

	return dirs
}

func newInstanceState[I m.Input](dirs corpusDirs, codec corpus.Codec[I], r rand.Rand) (*state.State[I], error) {
	var (
		main      corpus.Corpus[I] = corpus.NewInMemoryCorpus[I]()
		solutions corpus.Corpus[I] = corpus.NewInMemoryCorpus[I]()
	)

	if dirs.corpus != "" {
		c, err := corpus.NewOnDiskCorpus(dirs.corpus, codec)
		if err != nil {
			return nil, err
		}

		main = c
	}

	if dirs.solutions != "" {
		c, err := corpus.NewOnDiskCorpus(dirs.solutions, codec)
		if err != nil {
			return nil, err
		}

		solutions = c
	}

	return state.New(r, main, solutions), nil
}

func fuzzInstance[I Cloner[I]](
	ctx context.Context,
	args FuzzArgs,
	setup fuzzSetup[I],
	dirs corpusDirs,
	journalDir string,
	r rand.Rand,
	runID string,
	instance int,
) (m.StatsSnapshot, string, error) {
	st, err := newInstanceState(dirs, setup.codec, r)
	if err != nil {
		return m.StatsSnapshot{}, "", fmt.Errorf("create state: %w", err)
	}

	if setup.tokens != nil && setup.tokens.Len() > 0 {
		st.AddMetadata(setup.tokens)
	}

	executor, err := adapter.NewCommandExecutor[I](adapter.CommandConfig{
		Args:           args.Target,
		Timeout:        args.Timeout,
		CrashOnNonZero: args.CrashOnNonZero,
	}, setup.toBytes)
	if err != nil {
		return m.StatsSnapshot{}, "", err
	}

	defer func() {
		if err := executor.Close(); err != nil {
			slog.Error("Failed to clean up executor", "instance", instance, "error", err)
		}
	}()

	mutator, err := BuildMutator(args.Scheduler, args.MaxStackPow, args.LogMutations, setup.mutations())
	if err != nil {
		return m.StatsSnapshot{}, "", err
	}

	fuzzer := NewFuzzer(
		mutator,
		NewQueueScheduler[I](),
		Executor[I](executor),
		Feedback[I](NewNoveltyFeedback[I]()),
		Feedback[I](FeedbackOr[I](NewCrashFeedback[I](), NewTimeoutFeedback[I]())),
	)

	stats := NewStats(strconv.Itoa(instance))
	fuzzer.SetStats(stats)

	journal, err := pkg.NewFileSpill[m.SolutionRecord](journalDir, journalPattern)
	if err != nil {
		return m.StatsSnapshot{}, "", fmt.Errorf("create solution journal: %w", err)
	}

	defer func() { _ = journal.Close() }()

	fuzzer.SetJournal(journal, runID, instance)

	for _, seed := range setup.seeds {
		if _, err := fuzzer.EvaluateInput(ctx, st, seed.Clone(), true); err != nil {
			if ctx.Err() != nil {
				break
			}

			return m.StatsSnapshot{}, journal.Path(), fmt.Errorf("evaluate seed: %w", err)
		}
	}

	if st.Corpus().Count() == 0 {
		slog.Warn("No seed entered the corpus", "instance", instance, "solutions", st.Solutions().Count())
	} else if err := fuzzer.FuzzLoop(ctx, st, args.Runs); err != nil {
		snap, _ := stats.Snapshot()
		return snap, journal.Path(), err
	}

	snap, err := stats.Snapshot()

	return snap, journal.Path(), err
}

// BuildMutator wraps mutations in the named scheduled mutator, logging the
// applied mutations when logMutations is set.
func BuildMutator[I m.Input](scheduler string, maxStackPow uint64, logMutations bool, mutations *MutatorCollection[I]) (Mutator[I], error) {
	if mutations.Len() == 0 {
		return nil, fmt.Errorf("%w: no mutators", m.ErrEmptyCollection)
	}

	var scheduled ScheduledMutator[I]

	switch scheduler {
	case SchedulerHavoc, "":
		scheduled = NewHavocScheduledMutatorWithMaxStackPow(mutations, maxStackPow)
	case SchedulerSingle:
		scheduled = NewSingleChoiceScheduledMutator(mutations)
	default:
		return nil, m.IllegalArgument("unknown scheduler %q", scheduler)
	}

	if logMutations {
		return NewLoggerScheduledMutator(scheduled), nil
	}

	return scheduled, nil
}

func describeMutator[I m.Input](args FuzzArgs, mutations *MutatorCollection[I]) string {
	mutator, err := BuildMutator(args.Scheduler, args.MaxStackPow, args.LogMutations, mutations)
	if err != nil {
		return err.Error()
	}

	return mutator.Name()
}

func readJournals(paths []string) ([]m.SolutionRecord, error) {
	var (
		records []m.SolutionRecord
		errs    []error
	)

	for _, path := range paths {
		if path == "" {
			continue
		}

		journal, err := pkg.OpenFileSpill[m.SolutionRecord](path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		err = journal.Range(func(_ uint64, record m.SolutionRecord) error {
			records = append(records, record)
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}

		_ = journal.Close()
	}

	return records, errors.Join(errs...)
}

func (w *workflow) Tokenize(ctx context.Context, args TokenizeArgs) error {
	if len(args.Paths) == 0 {
		return m.IllegalArgument("no files to tokenize")
	}

	if err := w.ui.Start(ctx, controller.WithTokenizeMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	tokenizer := encoding.DefaultNaiveTokenizer()
	encoder := encoding.NewTokenInputEncoderDecoder()

	for _, path := range args.Paths {
		data, err := w.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		tokens, err := tokenizer.Tokenize(data)
		if err != nil {
			return fmt.Errorf("tokenize %s: %w", path, err)
		}

		input, err := encoder.Encode(data, tokenizer)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}

		decoded, err := encoder.ToTargetBytes(input)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}

		report := controller.TokenizeReport{
			Path:    path,
			Tokens:  tokens,
			Codes:   input.Codes(),
			Decoded: string(decoded),
		}

		if args.Diff {
			report.Diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(string(data)),
				B:        difflib.SplitLines(string(decoded)),
				FromFile: path,
				ToFile:   path + " (decoded)",
				Context:  3,
			})
			if err != nil {
				return fmt.Errorf("diff %s: %w", path, err)
			}
		}

		if err := w.ui.DisplayTokens(ctx, report); err != nil {
			return err
		}
	}

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if _, err := os.Stat(args.Dir); err != nil {
		return fmt.Errorf("corpus path error: %w", err)
	}

	c, err := corpus.LoadOnDiskCorpus[*m.BytesInput](args.Dir, corpus.BytesCodec{})
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	entries := make([]controller.CorpusEntry, 0, c.Count())

	for _, id := range c.IDs() {
		tc, err := c.Get(id)
		if err != nil {
			return err
		}

		entry := controller.CorpusEntry{
			Name:       tc.Filename,
			Size:       tc.Input.Len(),
			Executions: tc.Executions,
		}

		if tc.ParentID != nil {
			entry.Parent = tc.ParentID.String()
		}

		if log, ok := m.MetadataOf[*m.LogMutationMetadata](tc.MetadataMap(), m.LogMutationMetadataName); ok {
			entry.Mutations = log.List
		}

		entries = append(entries, entry)
	}

	if err := w.ui.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	if err := w.ui.DisplayCorpus(ctx, args.Dir, entries); err != nil {
		return err
	}

	journals, err := filepath.Glob(filepath.Join(args.Dir, journalPattern))
	if err != nil {
		return fmt.Errorf("find solution journals: %w", err)
	}

	if len(journals) == 0 {
		return nil
	}

	records, err := readJournals(journals)
	w.ui.DisplaySolutions(ctx, records)

	return err
}
