package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "mutafuzz"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	verboseFlagName = "verbose"
	logFileFlagName = "log-file"

	seedsFlagName          = "seeds"
	corpusFlagName         = "corpus"
	solutionsFlagName      = "solutions"
	schedulerFlagName      = "scheduler"
	maxStackPowFlagName    = "max-stack-pow"
	logMutationsFlagName   = "log-mutations"
	dictFlagName           = "dict"
	runsFlagName           = "runs"
	durationFlagName       = "duration"
	timeoutFlagName        = "timeout"
	seedFlagName           = "seed"
	parallelFlagName       = "parallel"
	tokensFlagName         = "tokens"
	maxSizeFlagName        = "max-size"
	crashOnNonZeroFlagName = "crash-on-nonzero"

	seedsConfigKey          = "fuzz.seeds"
	corpusConfigKey         = "fuzz.corpus"
	solutionsConfigKey      = "fuzz.solutions"
	schedulerConfigKey      = "fuzz.scheduler"
	maxStackPowConfigKey    = "fuzz.max_stack_pow"
	logMutationsConfigKey   = "fuzz.log_mutations"
	dictConfigKey           = "fuzz.dictionaries"
	runsConfigKey           = "fuzz.runs"
	durationConfigKey       = "fuzz.duration"
	timeoutConfigKey        = "fuzz.timeout"
	seedConfigKey           = "fuzz.seed"
	parallelConfigKey       = "fuzz.parallel"
	tokensConfigKey         = "fuzz.tokens"
	maxSizeConfigKey        = "fuzz.max_size"
	crashOnNonZeroConfigKey = "fuzz.crash_on_nonzero"

	defaultScheduler      = "havoc"
	defaultMaxStackPow    = 7
	defaultTargetTimeout  = time.Second
	defaultParallel       = 1
	defaultMaxSize        = 1 << 20
	defaultSolutionsDir   = "solutions"
	defaultLogMutations   = false
	defaultCrashOnNonZero = false

	envPrefix = "MUTAFUZZ"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutafuzz.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(seedsConfigKey, []string{})
	viper.SetDefault(corpusConfigKey, "")
	viper.SetDefault(solutionsConfigKey, defaultSolutionsDir)
	viper.SetDefault(schedulerConfigKey, defaultScheduler)
	viper.SetDefault(maxStackPowConfigKey, defaultMaxStackPow)
	viper.SetDefault(logMutationsConfigKey, defaultLogMutations)
	viper.SetDefault(dictConfigKey, []string{})
	viper.SetDefault(runsConfigKey, 0)
	viper.SetDefault(durationConfigKey, time.Duration(0))
	viper.SetDefault(timeoutConfigKey, defaultTargetTimeout)
	viper.SetDefault(seedConfigKey, 0)
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(tokensConfigKey, false)
	viper.SetDefault(maxSizeConfigKey, defaultMaxSize)
	viper.SetDefault(crashOnNonZeroConfigKey, defaultCrashOnNonZero)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
