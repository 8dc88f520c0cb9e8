package core

import "time"

// RunKind identifies which pipeline produced a run
type RunKind string

const (
	RunKindDAM RunKind = "dam"
	RunKindREM RunKind = "rem"
	RunKindSIN RunKind = "sin"
)

// Run is the audit record for one analysis run. It is written to the
// archive after a pipeline fully succeeds; failed batches leave no run.
type Run struct {
	ID         RunID     `json:"id" db:"id"`
	Kind       RunKind   `json:"kind" db:"kind"`
	Source     string    `json:"source" db:"source"`
	RowsIn     int       `json:"rows_in" db:"rows_in"`
	RowsKept   int       `json:"rows_kept" db:"rows_kept"`
	Parameters string    `json:"parameters,omitempty" db:"parameters"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NewRun creates a run record with a fresh ID and timestamp
func NewRun(kind RunKind, source string) *Run {
	return &Run{
		ID:        NewID(),
		Kind:      kind,
		Source:    source,
		CreatedAt: time.Now(),
	}
}
