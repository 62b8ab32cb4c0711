package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
	domainmocks "mutafuzz.dev/pkg/mutafuzz/internal/domain/mocks"
)

func TestTokenizeCmd_PassesPaths(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newTokenizeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Tokenize", mock.Anything, mock.MatchedBy(func(args domain.TokenizeArgs) bool {
		return len(args.Paths) == 2 &&
			args.Paths[0] == "a.js" &&
			args.Paths[1] == "b.js" &&
			!args.Diff
	})).Return(nil)

	cmd.SetArgs([]string{"tokenize", "a.js", "b.js"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestTokenizeCmd_DiffFlag(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newTokenizeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Tokenize", mock.Anything, mock.MatchedBy(func(args domain.TokenizeArgs) bool {
		return args.Diff
	})).Return(nil)

	cmd.SetArgs([]string{"tokenize", "--diff", "a.js"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestTokenizeCmd_RequiresFiles(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newTokenizeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	cmd.SetArgs([]string{"tokenize"})
	err := cmd.Execute()
	require.Error(t, err)
}
