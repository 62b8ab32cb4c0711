package model

import "time"

// SolutionRecord is one journal line describing an input that hit an objective.
type SolutionRecord struct {
	RunID      string
	Instance   int
	Name       string
	ExitKind   string
	ExitCode   int
	Duration   time.Duration
	Executions uint64
	Stderr     string
	FoundAt    time.Time
}
