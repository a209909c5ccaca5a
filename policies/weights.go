package policies

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

// WeightVector is a sparse feature -> weight map
// Unseen features read as 0 and are only created by Set or Add
type WeightVector struct {
	weights map[string]float64
}

func NewWeightVector() *WeightVector {
	return &WeightVector{
		weights: make(map[string]float64),
	}
}

// NewWeightVectorFrom copies the given weights
func NewWeightVectorFrom(weights map[string]float64) *WeightVector {
	w := NewWeightVector()
	for f, v := range weights {
		w.weights[f] = v
	}
	return w
}

func (w *WeightVector) Get(feature string) float64 {
	return w.weights[feature]
}

func (w *WeightVector) Set(feature string, val float64) {
	w.weights[feature] = val
}

// Add increments the weight of the feature, a zero delta leaves the vector untouched
func (w *WeightVector) Add(feature string, delta float64) {
	if delta == 0 {
		return
	}
	w.weights[feature] += delta
}

func (w *WeightVector) Len() int {
	return len(w.weights)
}

func (w *WeightVector) Copy() map[string]float64 {
	out := make(map[string]float64, len(w.weights))
	for f, v := range w.weights {
		out[f] = v
	}
	return out
}

// NamedWeight is a learned value with its feature or (state, action) name
type NamedWeight struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TopWeights returns the n weights with the largest magnitude, all of them when n <= 0
// Equal magnitudes are ordered by name
func TopWeights(weights map[string]float64, n int) []NamedWeight {
	out := make([]NamedWeight, 0, len(weights))
	for name, v := range weights {
		out = append(out, NamedWeight{Name: name, Value: v})
	}
	slices.SortFunc(out, func(a, b NamedWeight) int {
		absA, absB := math.Abs(a.Value), math.Abs(b.Value)
		switch {
		case absA > absB:
			return -1
		case absA < absB:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
