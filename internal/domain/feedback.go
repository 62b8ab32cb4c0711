package domain

import (
	"github.com/cespare/xxhash/v2"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// Feedback decides whether an execution is worth keeping.
type Feedback[I m.Input] interface {
	Name() string
	IsInteresting(st *state.State[I], input I, exit m.ExitKind, obs m.Observation) (bool, error)
}

// NoveltyFeedback keeps executions whose exit kind and output were never seen before.
type NoveltyFeedback[I m.Input] struct {
	seen map[uint64]struct{}
}

func NewNoveltyFeedback[I m.Input]() *NoveltyFeedback[I] {
	return &NoveltyFeedback[I]{seen: make(map[uint64]struct{})}
}

func (f *NoveltyFeedback[I]) Name() string {
	return "NoveltyFeedback"
}

func (f *NoveltyFeedback[I]) IsInteresting(_ *state.State[I], _ I, exit m.ExitKind, obs m.Observation) (bool, error) {
	sig := signature(exit, obs)
	if _, ok := f.seen[sig]; ok {
		return false, nil
	}

	f.seen[sig] = struct{}{}

	return true, nil
}

// Signatures returns how many distinct behaviours were seen.
func (f *NoveltyFeedback[I]) Signatures() int {
	return len(f.seen)
}

func signature(exit m.ExitKind, obs m.Observation) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(exit)})
	_, _ = d.Write(obs.Stdout)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(obs.Stderr)

	return d.Sum64()
}

// ExitKindFeedback reports executions that ended with a given exit kind.
type ExitKindFeedback[I m.Input] struct {
	kind m.ExitKind
}

// NewCrashFeedback reports crashing executions.
func NewCrashFeedback[I m.Input]() *ExitKindFeedback[I] {
	return &ExitKindFeedback[I]{kind: m.ExitCrash}
}

// NewTimeoutFeedback reports executions that hit the deadline.
func NewTimeoutFeedback[I m.Input]() *ExitKindFeedback[I] {
	return &ExitKindFeedback[I]{kind: m.ExitTimeout}
}

func (f *ExitKindFeedback[I]) Name() string {
	switch f.kind {
	case m.ExitCrash:
		return "CrashFeedback"
	case m.ExitTimeout:
		return "TimeoutFeedback"
	default:
		return "ExitKindFeedback[" + f.kind.String() + "]"
	}
}

func (f *ExitKindFeedback[I]) IsInteresting(_ *state.State[I], _ I, exit m.ExitKind, _ m.Observation) (bool, error) {
	return exit == f.kind, nil
}

// ConstFeedback always returns the same verdict.
type ConstFeedback[I m.Input] struct {
	value bool
}

func NewConstFeedback[I m.Input](value bool) *ConstFeedback[I] {
	return &ConstFeedback[I]{value: value}
}

func (f *ConstFeedback[I]) Name() string {
	if f.value {
		return "ConstFeedback[true]"
	}

	return "ConstFeedback[false]"
}

func (f *ConstFeedback[I]) IsInteresting(_ *state.State[I], _ I, _ m.ExitKind, _ m.Observation) (bool, error) {
	return f.value, nil
}

// OrFeedback is interesting when any member is. Every member is evaluated
// so stateful feedbacks see each execution.
type OrFeedback[I m.Input] struct {
	feedbacks []Feedback[I]
}

func FeedbackOr[I m.Input](feedbacks ...Feedback[I]) *OrFeedback[I] {
	return &OrFeedback[I]{feedbacks: feedbacks}
}

func (f *OrFeedback[I]) Name() string {
	name := "OrFeedback["
	for i, fb := range f.feedbacks {
		if i > 0 {
			name += ", "
		}

		name += fb.Name()
	}

	return name + "]"
}

func (f *OrFeedback[I]) IsInteresting(st *state.State[I], input I, exit m.ExitKind, obs m.Observation) (bool, error) {
	interesting := false

	for _, fb := range f.feedbacks {
		ok, err := fb.IsInteresting(st, input, exit, obs)
		if err != nil {
			return false, err
		}

		interesting = interesting || ok
	}

	return interesting, nil
}
