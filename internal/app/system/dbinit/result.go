package dbinit

import (
	"fmt"
	"strings"
)

// Outcome classifies a run.
type Outcome int

const (
	// AlreadyInitialized means both collections existed and nothing was touched.
	AlreadyInitialized Outcome = iota
	// Initialized means collections, indexes and every seed record were written.
	Initialized
	// PartialFailure means initialization ran but at least one step failed.
	PartialFailure
)

func (o Outcome) String() string {
	switch o {
	case AlreadyInitialized:
		return "already_initialized"
	case Initialized:
		return "initialized"
	case PartialFailure:
		return "partial_failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Stage names where a failure happened.
const (
	StageCreate   = "create_collection"
	StageIndex    = "index"
	StageValidate = "validate"
	StageInsert   = "insert"
)

// Failure is one failed step of initialization.
type Failure struct {
	Stage      string
	Collection string
	Err        error
}

func (f Failure) Error() string {
	if f.Collection == "" {
		return f.Stage + ": " + f.Err.Error()
	}
	return f.Stage + " " + f.Collection + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error { return f.Err }

// Result reports what a run did.
type Result struct {
	Outcome        Outcome
	DonorsInserted int
	UnitsInserted  int
	Failures       []Failure
}

// Exit codes returned by ExitCode.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitPartialFailure = 2
)

// ExitCode maps the result to a process exit status. In lenient mode a
// partial failure still exits 0, matching the historical script.
func (r Result) ExitCode(lenient bool) int {
	if r.Outcome == PartialFailure && !lenient {
		return ExitPartialFailure
	}
	return ExitOK
}

// Err joins all failures into one error, or returns nil.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	parts := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Errorf("initialization incomplete: %s", strings.Join(parts, "; "))
}
