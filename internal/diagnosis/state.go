package diagnosis

import "github.com/google/uuid"

// Stage identifies where a pipeline run currently is. Transitions are
// strictly linear; a failure moves directly to StageFailed.
type Stage string

const (
	StagePredicting  Stage = "PREDICTING"
	StageSummarizing Stage = "SUMMARIZING"
	StageRendering   Stage = "RENDERING"
	StageDone        Stage = "DONE"
	StageFailed      Stage = "FAILED"
)

// PipelineState is the accumulator threaded through the three stages.
// Each stage reads earlier fields and writes exactly one section of its
// own; nothing already published is mutated. The state lives for one run
// and is never persisted or shared between runs.
type PipelineState struct {
	RunID   uuid.UUID
	Stage   Stage
	Request DiagnosticRequest

	// Written by the predict stage.
	Prediction *PredictionResult

	// Written by the summarize stage.
	Conclusion *ClinicalConclusion

	// Written by the render stage.
	Document []byte
	Filename string
}
