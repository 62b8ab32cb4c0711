package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
)

// corpusCmd groups the commands that inspect corpus directories.
var corpusCmd = newCorpusCmd()

func newCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect corpus directories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newCorpusViewCmd())

	return cmd
}

func newCorpusViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [dir]",
		Short: "List the testcases of a corpus directory",
		Long: `List the testcases stored in a corpus or solutions directory with their
size, parent and recorded mutations. Without an argument the configured
corpus directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := viper.GetString(corpusConfigKey)
			if len(args) == 1 {
				dir = args[0]
			}

			if dir == "" {
				return cmd.Help()
			}

			return workflow.View(cmd.Context(), domain.ViewArgs{Dir: dir})
		},
	}
}

func init() {
	rootCmd.AddCommand(corpusCmd)
}
