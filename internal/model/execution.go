package model

import "time"

// ExitKind classifies how one target execution ended.
type ExitKind int

const (
	// ExitOk means the target finished normally.
	ExitOk ExitKind = iota
	// ExitCrash means the target crashed or failed.
	ExitCrash
	// ExitTimeout means the target was killed after its deadline.
	ExitTimeout
	// ExitOom means the target ran out of memory.
	ExitOom
)

func (k ExitKind) String() string {
	switch k {
	case ExitOk:
		return "ok"
	case ExitCrash:
		return "crash"
	case ExitTimeout:
		return "timeout"
	case ExitOom:
		return "oom"
	default:
		return "unknown"
	}
}

// Observation is what an executor saw while running the target.
type Observation struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// StatsSnapshot is a point-in-time copy of one instance's fuzzing counters.
type StatsSnapshot struct {
	Executions uint64
	Objectives uint64
	Skipped    uint64
	CorpusSize uint64
	Elapsed    time.Duration
}

// Add merges two snapshots. Elapsed keeps the longer of the two.
func (s StatsSnapshot) Add(other StatsSnapshot) StatsSnapshot {
	return StatsSnapshot{
		Executions: s.Executions + other.Executions,
		Objectives: s.Objectives + other.Objectives,
		Skipped:    s.Skipped + other.Skipped,
		CorpusSize: s.CorpusSize + other.CorpusSize,
		Elapsed:    max(s.Elapsed, other.Elapsed),
	}
}

// ExecsPerSecond returns the execution rate over Elapsed.
func (s StatsSnapshot) ExecsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}

	return float64(s.Executions) / s.Elapsed.Seconds()
}
