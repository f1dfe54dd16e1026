package diagnosis

import (
	"fmt"
	"time"
)

// InputError marks a request rejected before the pipeline starts.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Message
}

// InferenceError wraps a failure of the scoring or explanation capability.
type InferenceError struct {
	Op  string // "score" or "explain"
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed during %s: %v", e.Op, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// SummarizationSchemaError means the text generator's output could not be
// turned into a valid ClinicalConclusion. Raw carries the full response so
// an operator can see what the generator actually said.
type SummarizationSchemaError struct {
	Reason string
	Raw    string
}

func (e *SummarizationSchemaError) Error() string {
	return "summarizer output rejected: " + e.Reason
}

// DependencyTimeoutError marks an external call that exceeded its bound.
type DependencyTimeoutError struct {
	Dependency string
	Timeout    time.Duration
}

func (e *DependencyTimeoutError) Error() string {
	return fmt.Sprintf("%s call exceeded %s timeout", e.Dependency, e.Timeout)
}

// RenderError wraps a document rendering failure. Upstream invariants make
// this a programming-error class rather than an expected condition.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("report rendering failed: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// StageError tags any stage failure with the stage that produced it. The
// orchestrator returns exactly one of these per failed run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
