package policies

import "github.com/zeu5/qlearning-rl/types"

// Linear approximates Q(s,a) as the dot product of the extracted features and a weight vector
type Linear struct {
	weights   *WeightVector
	extractor types.FeatureExtractor
}

var _ QFunction = &Linear{}

// NewLinear uses the identity extractor when extractor is nil
func NewLinear(extractor types.FeatureExtractor, weights *WeightVector) *Linear {
	if extractor == nil {
		extractor = types.IdentityExtractor()
	}
	if weights == nil {
		weights = NewWeightVector()
	}
	return &Linear{
		weights:   weights,
		extractor: extractor,
	}
}

func (l *Linear) value(features types.Features) float64 {
	sum := 0.0
	for f, v := range features {
		sum += v * l.weights.Get(f)
	}
	return sum
}

// Value only sums over the features returned for (state, action)
func (l *Linear) Value(state types.State, action types.Action) float64 {
	return l.value(l.extractor.Features(state, action))
}

// Update applies one semi-gradient TD(0) step to the weights of the extracted features
func (l *Linear) Update(tr types.Transition, alpha, discount float64) {
	features := l.extractor.Features(tr.State, tr.Action)
	difference := tr.Reward + discount*nextStateValue(l, tr.NextState) - l.value(features)
	for f, v := range features {
		l.weights.Add(f, alpha*difference*v)
	}
}

func (l *Linear) Weights() *WeightVector {
	return l.weights
}

func (l *Linear) Snapshot() map[string]float64 {
	return l.weights.Copy()
}
