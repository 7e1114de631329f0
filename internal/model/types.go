// Package model defines shared data structures.
package model

import "time"

// Config defines paint settings after flags and the config file are merged.
type Config struct {
	Message    string
	MinCommits int
	MaxCommits int
	// Start, when set, pins the anchor to the Sunday on or before it.
	Start     *time.Time
	WeeksBack int
	Charset   string
	Window    string
	Invert    bool
	DryRun    bool
	Preview   bool
	Font      string
	Repo      string
	EnvFile   string
	// Seed, when set, makes commit counts reproducible.
	Seed    *int64
	NoTUI   bool
	History bool
	Verbose bool
}

// Run status values stored in the ledger.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Run is one paint invocation recorded in the ledger.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Message    string
	Anchor     time.Time
	End        time.Time
	MinCommits int
	MaxCommits int
	Charset    string
	Window     string
	Inverted   bool
	DryRun     bool
	Status     string
	Commits    int
}

// RunDay stores the commits created for one calendar day of a run.
type RunDay struct {
	RunID   int64
	Date    time.Time
	Commits int
}
