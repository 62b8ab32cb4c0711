package domain

import (
	"context"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// Executor runs the target on one input.
type Executor[I m.Input] interface {
	RunTarget(ctx context.Context, st *state.State[I], input I) (m.ExitKind, m.Observation, error)
}
