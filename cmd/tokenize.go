package cmd

import (
	"github.com/spf13/cobra"

	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
)

var tokenizeDiffFlag bool

// tokenizeCmd represents the tokenize command.
var tokenizeCmd = newTokenizeCmd()

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [files...]",
		Short: "Show how files are split into tokens",
		Long: `Tokenize the given files the way --tokens fuzzing does and print every
token with its code, followed by the text the target would receive.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diff, err := cmd.Flags().GetBool("diff")
			if err != nil {
				return err
			}

			return workflow.Tokenize(cmd.Context(), domain.TokenizeArgs{Paths: args, Diff: diff})
		},
	}

	cmd.Flags().BoolVar(&tokenizeDiffFlag, "diff", false, "show a unified diff between each file and its decoded form")

	return cmd
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}
