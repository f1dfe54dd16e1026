package diagnosis

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Predictor turns a request into a ranked, explained prediction.
// We define the collaborator interfaces here to decouple the orchestrator
// from the concrete stage implementations.
type Predictor interface {
	Predict(ctx context.Context, req DiagnosticRequest) (*PredictionResult, error)
}

// Summarizer produces a validated clinical conclusion from a prediction.
type Summarizer interface {
	Summarize(ctx context.Context, result *PredictionResult) (*ClinicalConclusion, error)
}

// ReportMeta carries the request identity plus the injected generation
// time into the renderer. Freezing GeneratedAt makes output reproducible.
type ReportMeta struct {
	WorkerName    string
	Location      string
	PatientName   string
	PatientAge    *int
	PatientGender string
	GeneratedAt   time.Time
}

// Reporter renders the combined stage outputs into an opaque document.
type Reporter interface {
	Render(result *PredictionResult, conclusion *ClinicalConclusion, meta ReportMeta) ([]byte, error)
}

const DefaultReportPrefix = "ArogyaMitra_Report"

// Pipeline is the fixed three-stage orchestrator:
// predict -> summarize -> render. The first failing stage aborts the run;
// no partial document is ever produced.
type Pipeline struct {
	predictor  Predictor
	summarizer Summarizer
	reporter   Reporter
	prefix     string
	now        func() time.Time
	logger     *logrus.Logger
}

func NewPipeline(p Predictor, s Summarizer, r Reporter, prefix string, logger *logrus.Logger) *Pipeline {
	if prefix == "" {
		prefix = DefaultReportPrefix
	}
	return &Pipeline{
		predictor:  p,
		summarizer: s,
		reporter:   r,
		prefix:     prefix,
		now:        time.Now,
		logger:     logger,
	}
}

// SetClock replaces the time source. Call before the first run.
func (pl *Pipeline) SetClock(now func() time.Time) {
	pl.now = now
}

// Run executes one full pipeline pass. On failure the returned state keeps
// whatever earlier stages produced, Stage is StageFailed, and the error is
// a *StageError naming the stage that broke.
func (pl *Pipeline) Run(ctx context.Context, req DiagnosticRequest) (*PipelineState, error) {
	if len(req.Symptoms) == 0 {
		return nil, &InputError{Message: "at least one symptom is required"}
	}
	req.SetDefaults()

	state := &PipelineState{
		RunID:   uuid.New(),
		Stage:   StagePredicting,
		Request: req,
	}
	log := pl.logger.WithField("run_id", state.RunID)

	prediction, err := pl.predictor.Predict(ctx, req)
	if err != nil {
		return pl.fail(state, StagePredicting, err)
	}
	state.Prediction = prediction
	state.Stage = StageSummarizing
	log.WithFields(logrus.Fields{
		"diagnosis":  prediction.PrimaryDiagnosis,
		"confidence": prediction.ConfidenceScore,
		"matched":    len(prediction.MatchedSymptoms),
		"unmatched":  len(prediction.UnmatchedSymptoms),
	}).Info("Prediction complete")

	conclusion, err := pl.summarizer.Summarize(ctx, prediction)
	if err != nil {
		return pl.fail(state, StageSummarizing, err)
	}
	state.Conclusion = conclusion
	state.Stage = StageRendering
	log.WithField("escalate", conclusion.EscalateToDoctor).Info("Clinical summary validated")

	generatedAt := pl.now()
	document, err := pl.reporter.Render(prediction, conclusion, ReportMeta{
		WorkerName:    req.WorkerName,
		Location:      req.Location,
		PatientName:   req.PatientName,
		PatientAge:    req.PatientAge,
		PatientGender: req.PatientGender,
		GeneratedAt:   generatedAt,
	})
	if err != nil {
		return pl.fail(state, StageRendering, &RenderError{Err: err})
	}
	state.Document = document
	state.Filename = pl.filename(req.PatientName, generatedAt)
	state.Stage = StageDone
	log.WithFields(logrus.Fields{
		"filename": state.Filename,
		"bytes":    len(state.Document),
	}).Info("Report generated")

	return state, nil
}

func (pl *Pipeline) fail(state *PipelineState, stage Stage, err error) (*PipelineState, error) {
	state.Stage = StageFailed
	pl.logger.WithFields(logrus.Fields{
		"run_id": state.RunID,
		"stage":  stage,
	}).WithError(err).Error("Pipeline stage failed")
	return state, &StageError{Stage: stage, Err: err}
}

func (pl *Pipeline) filename(patientName string, ts time.Time) string {
	name := strings.ReplaceAll(patientName, " ", "_")
	return pl.prefix + "_" + name + "_" + ts.Format("20060102_150405") + ".pdf"
}
