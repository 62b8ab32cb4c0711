package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutafuzz.dev/pkg/mutafuzz/internal/domain"
)

var (
	seedsFlag          []string
	corpusFlag         string
	solutionsFlag      string
	schedulerFlag      string
	maxStackPowFlag    uint64
	logMutationsFlag   bool
	dictFlag           []string
	runsFlag           uint64
	durationFlag       time.Duration
	timeoutFlag        time.Duration
	seedFlag           uint64
	parallelFlag       int
	tokensFlag         bool
	maxSizeFlag        int
	crashOnNonZeroFlag bool
)

// fuzzCmd represents the fuzz command.
var fuzzCmd = newFuzzCmd()

func newFuzzCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuzz [flags] -- target [args...]",
		Short: "Fuzz a target command",
		Long:  fuzzLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Fuzz(cmd.Context(), domain.FuzzArgs{
				Target:         args,
				Seeds:          viper.GetStringSlice(seedsConfigKey),
				CorpusDir:      viper.GetString(corpusConfigKey),
				SolutionsDir:   viper.GetString(solutionsConfigKey),
				Dictionaries:   viper.GetStringSlice(dictConfigKey),
				Scheduler:      viper.GetString(schedulerConfigKey),
				MaxStackPow:    viper.GetUint64(maxStackPowConfigKey),
				LogMutations:   viper.GetBool(logMutationsConfigKey),
				Runs:           viper.GetUint64(runsConfigKey),
				Duration:       viper.GetDuration(durationConfigKey),
				Timeout:        viper.GetDuration(timeoutConfigKey),
				Seed:           viper.GetUint64(seedConfigKey),
				Parallel:       viper.GetInt(parallelConfigKey),
				Tokens:         viper.GetBool(tokensConfigKey),
				MaxSize:        viper.GetInt(maxSizeConfigKey),
				CrashOnNonZero: viper.GetBool(crashOnNonZeroConfigKey),
			})
		},
	}

	configureFuzzFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(fuzzCmd)
}

func configureFuzzFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringSliceVarP(&seedsFlag, seedsFlagName, "i", nil, "seed files or directories (can be repeated)")
	bindFlagToConfig(flags.Lookup(seedsFlagName), seedsConfigKey)

	flags.StringVarP(&corpusFlag, corpusFlagName, "o", "", "directory for the corpus (in memory when empty)")
	bindFlagToConfig(flags.Lookup(corpusFlagName), corpusConfigKey)

	flags.StringVar(&solutionsFlag, solutionsFlagName, defaultSolutionsDir, "directory for inputs that crash or hang the target")
	bindFlagToConfig(flags.Lookup(solutionsFlagName), solutionsConfigKey)

	flags.StringVar(&schedulerFlag, schedulerFlagName, defaultScheduler, "mutation scheduler: havoc or single")
	bindFlagToConfig(flags.Lookup(schedulerFlagName), schedulerConfigKey)

	flags.Uint64Var(&maxStackPowFlag, maxStackPowFlagName, defaultMaxStackPow, "havoc stacks up to 2^N mutations per input")
	bindFlagToConfig(flags.Lookup(maxStackPowFlagName), maxStackPowConfigKey)

	flags.BoolVar(&logMutationsFlag, logMutationsFlagName, defaultLogMutations, "record the mutations that produced each corpus entry")
	bindFlagToConfig(flags.Lookup(logMutationsFlagName), logMutationsConfigKey)

	flags.StringSliceVarP(&dictFlag, dictFlagName, "x", nil, "dictionary files with quoted tokens (can be repeated)")
	bindFlagToConfig(flags.Lookup(dictFlagName), dictConfigKey)

	flags.Uint64Var(&runsFlag, runsFlagName, 0, "fuzz iterations per instance (0 runs until interrupted)")
	bindFlagToConfig(flags.Lookup(runsFlagName), runsConfigKey)

	flags.DurationVar(&durationFlag, durationFlagName, 0, "stop fuzzing after this long (0 disables)")
	bindFlagToConfig(flags.Lookup(durationFlagName), durationConfigKey)

	flags.DurationVar(&timeoutFlag, timeoutFlagName, defaultTargetTimeout, "per-execution target timeout")
	bindFlagToConfig(flags.Lookup(timeoutFlagName), timeoutConfigKey)

	flags.Uint64Var(&seedFlag, seedFlagName, 0, "random seed (0 seeds from the clock)")
	bindFlagToConfig(flags.Lookup(seedFlagName), seedConfigKey)

	flags.IntVarP(&parallelFlag, parallelFlagName, "p", defaultParallel, "number of independent fuzzing instances")
	bindFlagToConfig(flags.Lookup(parallelFlagName), parallelConfigKey)

	flags.BoolVar(&tokensFlag, tokensFlagName, false, "fuzz token codes instead of raw bytes")
	bindFlagToConfig(flags.Lookup(tokensFlagName), tokensConfigKey)

	flags.IntVar(&maxSizeFlag, maxSizeFlagName, defaultMaxSize, "maximum input size in bytes or codes")
	bindFlagToConfig(flags.Lookup(maxSizeFlagName), maxSizeConfigKey)

	flags.BoolVar(&crashOnNonZeroFlag, crashOnNonZeroFlagName, defaultCrashOnNonZero, "treat any non-zero exit status as a crash")
	bindFlagToConfig(flags.Lookup(crashOnNonZeroFlagName), crashOnNonZeroConfigKey)
}
