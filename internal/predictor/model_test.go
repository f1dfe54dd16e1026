package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreNormalized(t *testing.T) {
	model := testArtifacts().Model

	vector := make([]float64, len(model.FeatureProb[0]))
	vector[0], vector[1] = 1, 1
	probs, err := model.Score(vector)
	require.NoError(t, err)
	require.Len(t, probs, len(model.ClassNames))

	var sum float64
	for _, p := range probs {
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 1.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestScoreVectorLengthMismatch(t *testing.T) {
	model := testArtifacts().Model
	_, err := model.Score(make([]float64, 3))
	assert.Error(t, err)
}

func TestModelValidate(t *testing.T) {
	model := testArtifacts().Model
	require.NoError(t, model.Validate(len(model.FeatureProb[0])))

	assert.Error(t, model.Validate(len(model.FeatureProb[0])+1), "feature count mismatch")

	broken := &NaiveBayesModel{
		ClassNames:    []string{"A", "B"},
		ClassLogPrior: []float64{-0.69},
		FeatureProb:   [][]float64{{0.5}, {0.5}},
	}
	assert.Error(t, broken.Validate(1), "prior count mismatch")

	empty := &NaiveBayesModel{}
	assert.Error(t, empty.Validate(0))
}
