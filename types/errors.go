package types

import "errors"

var (
	// ErrInvalidHyperparameter is returned when epsilon, alpha or discount are outside of their range
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")
	// ErrMissingPersistedState is returned by a WeightStore when there is nothing usable to load
	ErrMissingPersistedState = errors.New("missing persisted state")
)
