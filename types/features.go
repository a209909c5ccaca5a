package types

import "fmt"

// Features of a (state, action) pair indexed by name
type Features map[string]float64

// FeatureExtractor maps a (state, action) pair to its features.
// Implementations should be pure, a fresh map is expected on every call
type FeatureExtractor interface {
	Features(State, Action) Features
}

// FeatureExtractorFunc adapts a function to a FeatureExtractor
type FeatureExtractorFunc func(State, Action) Features

func (f FeatureExtractorFunc) Features(s State, a Action) Features {
	return f(s, a)
}

// StateActionKey is the name used for a (state, action) pair
func StateActionKey(state, action string) string {
	return fmt.Sprintf("(%s, %s)", state, action)
}

// IdentityExtractor returns one indicator feature per (state, action) pair.
// A linear agent with this extractor behaves like a tabular one.
func IdentityExtractor() FeatureExtractor {
	return FeatureExtractorFunc(func(s State, a Action) Features {
		return Features{StateActionKey(s.Hash(), a.Hash()): 1.0}
	})
}
