package predictor

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Contribution is one signed feature weight from the explainer, referring
// to a vocabulary index.
type Contribution struct {
	Feature int
	Weight  float64
}

// Explainer is the local-explanation capability consumed by the predict
// stage: given an input vector and a scoring function, return the ranked
// feature contributions toward the predicted class.
type Explainer interface {
	Explain(vector []float64, score ScoreFunc, numFeatures int) ([]Contribution, error)
}

// OcclusionExplainer estimates per-feature contributions by toggling each
// feature on and off inside randomly perturbed copies of the input and
// measuring the shift in the predicted class probability. The random
// source is seeded so identical inputs explain identically across runs.
type OcclusionExplainer struct {
	numFeatures int
	samples     int
	seed        int64
	flipProb    float64
}

func NewOcclusionExplainer(numFeatures int) *OcclusionExplainer {
	return &OcclusionExplainer{
		numFeatures: numFeatures,
		samples:     64,
		seed:        42,
		flipProb:    0.25,
	}
}

func (e *OcclusionExplainer) Explain(vector []float64, score ScoreFunc, numFeatures int) ([]Contribution, error) {
	if len(vector) != e.numFeatures {
		return nil, fmt.Errorf("vector has length %d, explainer expects %d", len(vector), e.numFeatures)
	}

	base, err := score(vector)
	if err != nil {
		return nil, fmt.Errorf("scoring input: %w", err)
	}
	target := argmax(base)

	rng := rand.New(rand.NewSource(e.seed))
	sums := make([]float64, len(vector))
	z := make([]float64, len(vector))

	for s := 0; s < e.samples; s++ {
		// Perturb around the instance: each feature keeps its observed
		// value with probability 1-flipProb.
		for j, x := range vector {
			if rng.Float64() < e.flipProb {
				z[j] = 1 - x
			} else {
				z[j] = x
			}
		}
		for j := range vector {
			orig := z[j]

			z[j] = 1
			on, err := score(z)
			if err != nil {
				return nil, fmt.Errorf("scoring perturbation: %w", err)
			}
			z[j] = 0
			off, err := score(z)
			if err != nil {
				return nil, fmt.Errorf("scoring perturbation: %w", err)
			}
			z[j] = orig

			sums[j] += on[target] - off[target]
		}
	}

	weights := make([]Contribution, len(vector))
	for j := range vector {
		presenceEffect := sums[j] / float64(e.samples)
		// A present feature contributes its presence effect; an absent one
		// contributes the effect of its absence.
		w := presenceEffect
		if vector[j] == 0 {
			w = -presenceEffect
		}
		weights[j] = Contribution{Feature: j, Weight: w}
	}

	sort.SliceStable(weights, func(a, b int) bool {
		return math.Abs(weights[a].Weight) > math.Abs(weights[b].Weight)
	})
	if numFeatures < len(weights) {
		weights = weights[:numFeatures]
	}
	return weights, nil
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
