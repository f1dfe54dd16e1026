package predictor

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"arogyamitra/internal/diagnosis"
)

const (
	topPredictionCount  = 3
	explanationFeatures = 10
	defaultSeverity     = 1

	descriptionFallback = "Description not available."
)

// Service implements the predict stage over the loaded model artifacts.
type Service struct {
	artifacts *Artifacts
	scorer    Scorer
	explainer Explainer
	logger    *logrus.Logger
}

func NewService(artifacts *Artifacts, logger *logrus.Logger) *Service {
	return &Service{
		artifacts: artifacts,
		scorer:    artifacts.Model,
		explainer: NewOcclusionExplainer(len(artifacts.Vocabulary)),
		logger:    logger,
	}
}

// Predict builds the one-hot feature vector from the reported symptoms,
// scores it, explains the top prediction, and assembles the result.
// Fully unmatched symptom lists still produce a prediction (over the zero
// vector); callers can detect that case by an empty MatchedSymptoms.
func (s *Service) Predict(ctx context.Context, req diagnosis.DiagnosticRequest) (*diagnosis.PredictionResult, error) {
	vector := make([]float64, len(s.artifacts.Vocabulary))
	var matched, unmatched []string
	var severities []diagnosis.SeverityEntry

	for _, raw := range req.Symptoms {
		norm := NormalizeSymptom(raw)
		idx, ok := s.artifacts.FeatureIndex(norm)
		if !ok {
			unmatched = append(unmatched, raw)
			continue
		}
		vector[idx] = 1
		display := displayName(norm)
		matched = append(matched, display)
		severity, ok := s.artifacts.Severity[norm]
		if !ok {
			severity = defaultSeverity
		}
		severities = append(severities, diagnosis.SeverityEntry{Symptom: display, Severity: severity})
	}

	probs, err := s.scorer.Score(vector)
	if err != nil {
		return nil, &diagnosis.InferenceError{Op: "score", Err: err}
	}
	classes := s.scorer.Classes()

	// Stable sort keeps the classifier's native class order on ties.
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] > probs[order[b]]
	})

	n := topPredictionCount
	if n > len(order) {
		n = len(order)
	}
	top := make([]diagnosis.TopPrediction, 0, n)
	for _, idx := range order[:n] {
		top = append(top, diagnosis.TopPrediction{
			Disease:    classes[idx],
			Confidence: round2(probs[idx] * 100),
		})
	}
	primary := top[0]

	contributions, err := s.explainer.Explain(vector, s.scorer.Score, explanationFeatures)
	if err != nil {
		return nil, &diagnosis.InferenceError{Op: "explain", Err: err}
	}
	explanation := make([]diagnosis.ExplanationEntry, 0, len(contributions))
	for _, c := range contributions {
		direction := diagnosis.DirectionAgainst
		if c.Weight > 0 {
			direction = diagnosis.DirectionSupports
		}
		explanation = append(explanation, diagnosis.ExplanationEntry{
			Feature:   displayName(s.artifacts.Vocabulary[c.Feature]),
			Impact:    round4(c.Weight),
			Direction: direction,
		})
	}

	if severities == nil {
		severities = []diagnosis.SeverityEntry{}
	}
	var severityScore float64
	if len(severities) > 0 {
		var sum int
		for _, entry := range severities {
			sum += entry.Severity
		}
		severityScore = round2(float64(sum) / float64(len(severities)))
	}

	description, ok := s.artifacts.Descriptions[primary.Disease]
	if !ok {
		description = descriptionFallback
	}
	precautions := s.artifacts.Precautions[primary.Disease]
	if precautions == nil {
		precautions = []string{}
	}

	s.logger.WithFields(logrus.Fields{
		"diagnosis": primary.Disease,
		"matched":   len(matched),
		"unmatched": len(unmatched),
	}).Debug("Prediction assembled")

	return &diagnosis.PredictionResult{
		PrimaryDiagnosis:  primary.Disease,
		ConfidenceScore:   primary.Confidence,
		SeverityScore:     severityScore,
		TopPredictions:    top,
		MatchedSymptoms:   emptyIfNil(matched),
		UnmatchedSymptoms: emptyIfNil(unmatched),
		SymptomSeverities: severities,
		Description:       description,
		Precautions:       precautions,
		LimeExplanation:   explanation,
	}, nil
}

// NormalizeSymptom maps free text onto the vocabulary form: trimmed,
// lowercased, spaces to underscores. Applying it twice is a no-op.
func NormalizeSymptom(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// displayName turns a vocabulary name back into title-cased display text,
// e.g. "high_fever" -> "High Fever".
func displayName(norm string) string {
	words := strings.Split(norm, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
