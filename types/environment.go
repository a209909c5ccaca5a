package types

import "context"

// Environment is the episodic system the agent interacts with
type Environment interface {
	// Reset called at the start of each episode
	Reset() (State, error)
	// Step executes the action and returns the next state with the reward of the transition
	Step(Action) (State, float64, error)
}

// State of the environment that the agent observes
type State interface {
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
	// Legal actions from the state, empty for terminal states.
	// The order is significant, greedy selection breaks ties by it
	Actions() []Action
}

// An Action that the agent can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}

// WeightStore persists a mapping from feature name to weight
type WeightStore interface {
	LoadWeights(context.Context) (map[string]float64, error)
	SaveWeights(context.Context, map[string]float64) error
}

// Terminal returns true if the state has no legal actions
func Terminal(s State) bool {
	return s == nil || len(s.Actions()) == 0
}

// LegalActions returns the actions of the state, nil for a nil state
func LegalActions(s State) []Action {
	if s == nil {
		return nil
	}
	return s.Actions()
}
