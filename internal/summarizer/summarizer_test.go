package summarizer

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arogyamitra/internal/diagnosis"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (g *stubGenerator) Generate(_ context.Context, system, user string) (string, error) {
	g.lastSystem = system
	g.lastUser = user
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testPrediction() *diagnosis.PredictionResult {
	return &diagnosis.PredictionResult{
		PrimaryDiagnosis: "Influenza",
		ConfidenceScore:  81.5,
		SeverityScore:    2.5,
		TopPredictions: []diagnosis.TopPrediction{
			{Disease: "Influenza", Confidence: 81.5},
			{Disease: "Common Cold", Confidence: 12.3},
			{Disease: "Malaria", Confidence: 3.1},
		},
		MatchedSymptoms:   []string{"Fever", "Cough"},
		UnmatchedSymptoms: []string{},
		SymptomSeverities: []diagnosis.SeverityEntry{{Symptom: "Fever", Severity: 3}},
		Description:       "A contagious respiratory illness.",
		Precautions:       []string{"rest and stay hydrated"},
		LimeExplanation:   []diagnosis.ExplanationEntry{{Feature: "Fever", Impact: 0.21, Direction: diagnosis.DirectionSupports}},
	}
}

func TestSummarizeSuccess(t *testing.T) {
	payload := validConclusionJSON(t, nil)
	gen := &stubGenerator{response: "Sure, here you go:\n" + payload}
	svc := NewService(gen, time.Second, testLogger())

	conclusion, err := svc.Summarize(context.Background(), testPrediction())
	require.NoError(t, err)
	assert.False(t, conclusion.EscalateToDoctor)
	assert.NotEmpty(t, conclusion.DiagnosisSummary)

	// The user prompt carries the full prediction for the generator to
	// work from; the system prompt carries the schema contract.
	assert.Contains(t, gen.lastUser, "Influenza")
	assert.Contains(t, gen.lastSystem, "escalate_to_doctor")
}

func TestSummarizeMalformedResponse(t *testing.T) {
	gen := &stubGenerator{response: "I am unable to answer in JSON today."}
	svc := NewService(gen, time.Second, testLogger())

	_, err := svc.Summarize(context.Background(), testPrediction())
	require.Error(t, err)

	var schemaErr *diagnosis.SummarizationSchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, gen.response, schemaErr.Raw)
}

func TestSummarizeTimeout(t *testing.T) {
	svc := NewService(blockingGenerator{}, 10*time.Millisecond, testLogger())

	_, err := svc.Summarize(context.Background(), testPrediction())
	require.Error(t, err)

	var timeoutErr *diagnosis.DependencyTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "text generation", timeoutErr.Dependency)
	assert.Equal(t, 10*time.Millisecond, timeoutErr.Timeout)
}

func TestSummarizeGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream unavailable")}
	svc := NewService(gen, time.Second, testLogger())

	_, err := svc.Summarize(context.Background(), testPrediction())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text generation failed")

	var schemaErr *diagnosis.SummarizationSchemaError
	assert.False(t, errors.As(err, &schemaErr))
}
