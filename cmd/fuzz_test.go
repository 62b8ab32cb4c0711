package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
	domainmocks "mutafuzz.dev/pkg/mutafuzz/internal/domain/mocks"
)

func TestFuzzCmd_Defaults(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newFuzzCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Fuzz", mock.Anything, mock.MatchedBy(func(args domain.FuzzArgs) bool {
		return len(args.Target) == 1 &&
			args.Target[0] == "./target" &&
			args.Scheduler == "havoc" &&
			args.MaxStackPow == 7 &&
			args.Timeout == time.Second &&
			args.Parallel == 1 &&
			args.SolutionsDir == "solutions" &&
			args.CorpusDir == "" &&
			args.Runs == 0 &&
			!args.Tokens &&
			!args.LogMutations
	})).Return(nil)

	cmd.SetArgs([]string{"fuzz", "--", "./target"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestFuzzCmd_FlagsArePassedThrough(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newFuzzCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Fuzz", mock.Anything, mock.MatchedBy(func(args domain.FuzzArgs) bool {
		return len(args.Seeds) == 2 &&
			args.Seeds[0] == "./seeds/..." &&
			args.Seeds[1] == "extra.bin" &&
			args.CorpusDir == "queue" &&
			args.SolutionsDir == "crashes" &&
			args.Scheduler == "single" &&
			args.MaxStackPow == 3 &&
			args.LogMutations &&
			len(args.Dictionaries) == 1 && args.Dictionaries[0] == "json.dict" &&
			args.Runs == 1000 &&
			args.Duration == time.Minute &&
			args.Timeout == 250*time.Millisecond &&
			args.Seed == 42 &&
			args.Parallel == 4 &&
			args.Tokens &&
			args.MaxSize == 4096 &&
			args.CrashOnNonZero
	})).Return(nil)

	cmd.SetArgs([]string{
		"fuzz",
		"-i", "./seeds/...", "-i", "extra.bin",
		"-o", "queue",
		"--solutions", "crashes",
		"--scheduler", "single",
		"--max-stack-pow", "3",
		"--log-mutations",
		"-x", "json.dict",
		"--runs", "1000",
		"--duration", "1m",
		"--timeout", "250ms",
		"--seed", "42",
		"-p", "4",
		"--tokens",
		"--max-size", "4096",
		"--crash-on-nonzero",
		"--", "./target", "@@",
	})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestFuzzCmd_TargetArgumentsKeepTheirFlags(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newFuzzCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Fuzz", mock.Anything, mock.MatchedBy(func(args domain.FuzzArgs) bool {
		return len(args.Target) == 3 &&
			args.Target[0] == "xmllint" &&
			args.Target[1] == "--noout" &&
			args.Target[2] == "@@"
	})).Return(nil)

	cmd.SetArgs([]string{"fuzz", "--", "xmllint", "--noout", "@@"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestFuzzCmd_RequiresTarget(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newFuzzCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	cmd.SetArgs([]string{"fuzz"})
	err := cmd.Execute()
	require.Error(t, err)

	mockWorkflow.AssertNotCalled(t, "Fuzz", mock.Anything, mock.Anything)
}

func TestFuzzCmd_WorkflowErrorIsReturned(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newFuzzCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Fuzz", mock.Anything, mock.Anything).Return(domain.ErrNoSeeds)

	cmd.SetArgs([]string{"fuzz", "--", "./target"})
	err := cmd.Execute()
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrNoSeeds))
}
