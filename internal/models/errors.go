package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable marks a single analyst's data source failing.
	// Tolerated: the analyst's report degrades to an error marker.
	ErrDataUnavailable = errors.New("data source unavailable")

	// ErrAllAnalystsFailed is fatal: the debate has no usable input.
	ErrAllAnalystsFailed = errors.New("all analysts failed")

	// ErrGenerationFailed is fatal at any reasoning call. A skipped agent
	// turn would corrupt the transcript's turn-order contract.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmbeddingUnavailable degrades retrieval to no context.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)

// StageError identifies where a fatal failure unwound from. Round and Role
// are zero-valued when the stage has no loop structure.
type StageError struct {
	Stage string
	Round int
	Role  string
	Err   error
}

func (e *StageError) Error() string {
	switch {
	case e.Role != "" && e.Round > 0:
		return fmt.Sprintf("stage %s failed at round %d (%s): %v", e.Stage, e.Round, e.Role, e.Err)
	case e.Role != "":
		return fmt.Sprintf("stage %s failed (%s): %v", e.Stage, e.Role, e.Err)
	default:
		return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
	}
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err with its pipeline position.
func NewStageError(stage string, round int, role string, err error) *StageError {
	return &StageError{Stage: stage, Round: round, Role: role, Err: err}
}
