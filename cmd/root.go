// Package cmd provides the root command and CLI setup for mutafuzz.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mutafuzz.dev/pkg/mutafuzz/internal/adapter"
	"mutafuzz.dev/pkg/mutafuzz/internal/controller"
	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
	"mutafuzz.dev/pkg/mutafuzz/internal/domain/mutations"
)

var seedFSAdapter adapter.SeedFSAdapter
var dictionaryAdapter adapter.DictionaryAdapter
var workflow domain.Workflow
var ui controller.UI

var verboseFlag bool
var logFileFlag string

func init() {
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
	}

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd)
	seedFSAdapter = adapter.NewLocalSeedFSAdapter()
	dictionaryAdapter = adapter.NewLocalDictionaryAdapter()
	workflow = domain.NewWorkflow(
		seedFSAdapter,
		dictionaryAdapter,
		ui,
		mutations.BytesMutations,
		mutations.EncodedMutations,
	)
}

const seedPatternsHelp = `Seed paths accept files and directories:
  - ./seeds        every file directly in seeds
  - ./seeds/...    every file below seeds, recursively
  - a.bin b.bin    individual files
Hidden files and directories are skipped.`

const rootLongDescription = `Mutafuzz is a mutational fuzzer for command-line programs. It mutates
seed inputs, feeds them to a target and keeps the ones that produce new
behavior, while inputs that crash or hang the target are saved as solutions.

` + seedPatternsHelp

const fuzzLongDescription = `Fuzz the target command given after "--".

The input is written to the target's stdin, or to a file whose path
replaces the "@@" argument.

` + seedPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mutafuzz",
		Short: "Mutational fuzzing tool",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "path of the log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := executeContext(); err != nil {
		os.Exit(1)
	}
}

// executeContext runs rootCmd with a context cancelled on interrupt, so a
// fuzzing run stops and still prints its summary.
func executeContext() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}
