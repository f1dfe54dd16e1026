package predictor

import (
	"fmt"
	"math"
)

// ScoreFunc maps a feature vector to a probability distribution over the
// full class space.
type ScoreFunc func(vector []float64) ([]float64, error)

// Scorer is the scoring capability consumed by the predict stage.
type Scorer interface {
	Classes() []string
	Score(vector []float64) ([]float64, error)
}

// NaiveBayesModel is a Bernoulli naive Bayes classifier over the symptom
// vocabulary, loaded from a trained artifact. FeatureProb[c][j] is the
// probability that feature j is present given class c.
type NaiveBayesModel struct {
	ClassNames    []string    `json:"classes"`
	ClassLogPrior []float64   `json:"class_log_prior"`
	FeatureProb   [][]float64 `json:"feature_prob"`
}

// probEps keeps log terms finite when an artifact carries a hard 0 or 1.
const probEps = 1e-9

func (m *NaiveBayesModel) Classes() []string { return m.ClassNames }

// Validate checks the artifact's dimensions against the vocabulary size.
func (m *NaiveBayesModel) Validate(numFeatures int) error {
	if len(m.ClassNames) == 0 {
		return fmt.Errorf("model has no classes")
	}
	if len(m.ClassLogPrior) != len(m.ClassNames) {
		return fmt.Errorf("model has %d classes but %d priors", len(m.ClassNames), len(m.ClassLogPrior))
	}
	if len(m.FeatureProb) != len(m.ClassNames) {
		return fmt.Errorf("model has %d classes but %d feature rows", len(m.ClassNames), len(m.FeatureProb))
	}
	for i, row := range m.FeatureProb {
		if len(row) != numFeatures {
			return fmt.Errorf("class %q has %d feature probabilities, expected %d", m.ClassNames[i], len(row), numFeatures)
		}
	}
	return nil
}

// Score returns the posterior distribution over classes for one feature
// vector. The probabilities are normalized to sum to 1.
func (m *NaiveBayesModel) Score(vector []float64) ([]float64, error) {
	if len(m.FeatureProb) == 0 {
		return nil, fmt.Errorf("model has no feature probabilities")
	}
	if len(vector) != len(m.FeatureProb[0]) {
		return nil, fmt.Errorf("feature vector has length %d, model expects %d", len(vector), len(m.FeatureProb[0]))
	}

	logJoint := make([]float64, len(m.ClassNames))
	for c := range m.ClassNames {
		s := m.ClassLogPrior[c]
		for j, x := range vector {
			p := m.FeatureProb[c][j]
			if p < probEps {
				p = probEps
			} else if p > 1-probEps {
				p = 1 - probEps
			}
			s += x*math.Log(p) + (1-x)*math.Log(1-p)
		}
		logJoint[c] = s
	}

	// Softmax with max subtraction for numerical stability.
	max := logJoint[0]
	for _, v := range logJoint[1:] {
		if v > max {
			max = v
		}
	}
	probs := make([]float64, len(logJoint))
	var sum float64
	for c, v := range logJoint {
		probs[c] = math.Exp(v - max)
		sum += probs[c]
	}
	for c := range probs {
		probs[c] /= sum
	}
	return probs, nil
}
