// Package controller provides output adapters for displaying fuzzing results.
package controller

import (
	"context"

	"github.com/spf13/cobra"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeFuzz StartMode = iota
	ModeTokenize
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithFuzzMode sets the UI to fuzzing mode.
func WithFuzzMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeFuzz
	}
}

// WithTokenizeMode sets the UI to tokenizer inspection mode.
func WithTokenizeMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeTokenize
	}
}

// WithViewMode sets the UI to corpus viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// FuzzInfo describes a fuzzing run before it starts.
type FuzzInfo struct {
	RunID     string
	Target    []string
	Instances int
	Seeds     int
	Tokens    int
	Mutator   string
}

// CorpusEntry is one testcase shown by the corpus view.
type CorpusEntry struct {
	Name       string
	Size       int
	Executions uint64
	Parent     string
	Mutations  []string
}

// TokenizeReport is what the tokenize command shows for one file.
type TokenizeReport struct {
	Path    string
	Tokens  []string
	Codes   []uint32
	Decoded string
	Diff    string
}

// UI defines how results are displayed.
// Implementations can use different output methods.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayFuzzStart(ctx context.Context, info FuzzInfo)
	DisplayInstanceDone(ctx context.Context, instance int, snapshot m.StatsSnapshot)
	DisplaySummary(ctx context.Context, snapshots []m.StatsSnapshot)
	DisplaySolutions(ctx context.Context, records []m.SolutionRecord)
	DisplayTokens(ctx context.Context, report TokenizeReport) error
	DisplayCorpus(ctx context.Context, dir string, entries []CorpusEntry) error
}

// NewUI returns the UI writing to cmd's output.
func NewUI(cmd *cobra.Command) UI {
	return NewSimpleUI(cmd)
}
