package predictor

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arogyamitra/internal/diagnosis"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// testArtifacts builds a small but fully consistent model context:
// 12 features (enough for a 10-entry explanation) and 3 classes.
func testArtifacts() *Artifacts {
	vocab := []string{
		"fever", "cough", "headache", "chills", "nausea", "fatigue",
		"skin_rash", "continuous_sneezing", "vomiting", "sweating",
		"joint_pain", "diarrhea",
	}
	low := func() []float64 {
		row := make([]float64, len(vocab))
		for i := range row {
			row[i] = 0.05
		}
		return row
	}
	flu := low()
	flu[0], flu[1], flu[5] = 0.9, 0.8, 0.7 // fever, cough, fatigue
	cold := low()
	cold[1], cold[2], cold[7] = 0.6, 0.4, 0.9 // cough, headache, sneezing
	malaria := low()
	malaria[0], malaria[3], malaria[8], malaria[9] = 0.85, 0.9, 0.6, 0.8

	a := &Artifacts{
		Vocabulary: vocab,
		Severity: map[string]int{
			"fever": 3, "cough": 2, "headache": 5, "chills": 3,
			"nausea": 5, "fatigue": 4, "skin_rash": 3,
			"continuous_sneezing": 4, "vomiting": 5, "sweating": 3,
			"joint_pain": 3, "diarrhea": 6,
		},
		Descriptions: map[string]string{
			"Influenza": "A contagious respiratory illness.",
		},
		Precautions: map[string][]string{
			"Influenza": {"rest and stay hydrated", "avoid contact with others"},
		},
		Model: &NaiveBayesModel{
			ClassNames:    []string{"Influenza", "Common Cold", "Malaria"},
			ClassLogPrior: []float64{-1.0986, -1.0986, -1.0986},
			FeatureProb:   [][]float64{flu, cold, malaria},
		},
	}
	a.buildIndex()
	return a
}

func TestPredictMatchedSymptoms(t *testing.T) {
	svc := NewService(testArtifacts(), testLogger())

	result, err := svc.Predict(context.Background(), diagnosis.DiagnosticRequest{
		Symptoms: []string{"fever", "cough"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Fever", "Cough"}, result.MatchedSymptoms)
	assert.Empty(t, result.UnmatchedSymptoms)
	assert.Equal(t, 2.5, result.SeverityScore)
	assert.Equal(t, []diagnosis.SeverityEntry{
		{Symptom: "Fever", Severity: 3},
		{Symptom: "Cough", Severity: 2},
	}, result.SymptomSeverities)

	require.Len(t, result.TopPredictions, 3)
	assert.Equal(t, result.PrimaryDiagnosis, result.TopPredictions[0].Disease)
	assert.Equal(t, result.ConfidenceScore, result.TopPredictions[0].Confidence)
	for i := 1; i < len(result.TopPredictions); i++ {
		assert.GreaterOrEqual(t, result.TopPredictions[i-1].Confidence, result.TopPredictions[i].Confidence)
	}

	assert.Equal(t, "Influenza", result.PrimaryDiagnosis)
	assert.Equal(t, "A contagious respiratory illness.", result.Description)
	assert.Equal(t, []string{"rest and stay hydrated", "avoid contact with others"}, result.Precautions)
}

func TestPredictAllUnmatchedStillPredicts(t *testing.T) {
	svc := NewService(testArtifacts(), testLogger())

	result, err := svc.Predict(context.Background(), diagnosis.DiagnosticRequest{
		Symptoms: []string{"unknown_thing"},
	})
	require.NoError(t, err)

	assert.Empty(t, result.MatchedSymptoms)
	assert.Equal(t, []string{"unknown_thing"}, result.UnmatchedSymptoms)
	assert.Equal(t, 0.0, result.SeverityScore)
	assert.NotEmpty(t, result.PrimaryDiagnosis)
	assert.Len(t, result.TopPredictions, 3)
}

func TestPredictExplanation(t *testing.T) {
	svc := NewService(testArtifacts(), testLogger())
	req := diagnosis.DiagnosticRequest{Symptoms: []string{"fever", "cough", "fatigue"}}

	result, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.LimeExplanation, 10)
	features := make(map[string]diagnosis.ExplanationEntry)
	for _, entry := range result.LimeExplanation {
		// Impacts are rounded for display; direction tracks the raw sign,
		// so only check it where the rounded value kept one.
		if entry.Impact > 0 {
			assert.Equal(t, diagnosis.DirectionSupports, entry.Direction)
		} else if entry.Impact < 0 {
			assert.Equal(t, diagnosis.DirectionAgainst, entry.Direction)
		}
		features[entry.Feature] = entry
	}
	// A present feature strongly associated with the prediction supports it.
	fever, ok := features["Fever"]
	require.True(t, ok, "fever should rank among the top contributing features")
	assert.Greater(t, fever.Impact, 0.0)

	// Identical inputs explain identically across runs.
	again, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, result.LimeExplanation, again.LimeExplanation)
}

func TestPredictDescriptionFallback(t *testing.T) {
	a := testArtifacts()
	delete(a.Descriptions, "Influenza")
	delete(a.Precautions, "Influenza")
	svc := NewService(a, testLogger())

	result, err := svc.Predict(context.Background(), diagnosis.DiagnosticRequest{Symptoms: []string{"fever", "cough"}})
	require.NoError(t, err)
	assert.Equal(t, descriptionFallback, result.Description)
	assert.NotNil(t, result.Precautions)
	assert.Empty(t, result.Precautions)
}

func TestNormalizeSymptom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fever", "fever"},
		{"  Chest Pain  ", "chest_pain"},
		{"continuous sneezing", "continuous_sneezing"},
		{"skin_rash", "skin_rash"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeSymptom(tt.in)
			assert.Equal(t, tt.want, got)
			// Normalizing is idempotent.
			assert.Equal(t, got, NormalizeSymptom(got))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "High Fever", displayName("high_fever"))
	assert.Equal(t, "Cough", displayName("cough"))
}
