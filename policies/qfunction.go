package policies

import (
	"math"

	"github.com/zeu5/qlearning-rl/types"
)

// QFunction is an action-value estimate that can be updated from transitions
type QFunction interface {
	Value(types.State, types.Action) float64
	Update(t types.Transition, alpha, discount float64)
	Snapshot() map[string]float64
}

// BestValue returns the highest value among the actions, 0 when there are none
func BestValue(q QFunction, state types.State, actions []types.Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	maxVal := math.Inf(-1)
	for _, a := range actions {
		if val := q.Value(state, a); val > maxVal {
			maxVal = val
		}
	}
	return maxVal
}

// BestAction returns the action with the highest value
// Actions are scanned in order and the earliest one wins ties
func BestAction(q QFunction, state types.State, actions []types.Action) (types.Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	maxAction := actions[0]
	maxVal := q.Value(state, maxAction)
	for _, a := range actions[1:] {
		if val := q.Value(state, a); val > maxVal {
			maxAction = a
			maxVal = val
		}
	}
	return maxAction, true
}

// nextStateValue is the bootstrapped value of the state reached by a transition
func nextStateValue(q QFunction, next types.State) float64 {
	return BestValue(q, next, types.LegalActions(next))
}
