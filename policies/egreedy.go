package policies

import (
	"fmt"

	"github.com/zeu5/qlearning-rl/types"
	"golang.org/x/exp/rand"
)

// EGreedy picks a uniformly random action with probability epsilon and the best action otherwise
type EGreedy struct {
	epsilon float64
	rand    *rand.Rand
}

func NewEGreedy(epsilon float64, seed uint64) (*EGreedy, error) {
	if err := checkProbability("epsilon", epsilon); err != nil {
		return nil, err
	}
	return &EGreedy{
		epsilon: epsilon,
		rand:    rand.New(rand.NewSource(seed)),
	}, nil
}

func (e *EGreedy) Epsilon() float64 {
	return e.epsilon
}

func (e *EGreedy) SetEpsilon(epsilon float64) error {
	if err := checkProbability("epsilon", epsilon); err != nil {
		return err
	}
	e.epsilon = epsilon
	return nil
}

// NextAction returns false when there are no actions to pick from
func (e *EGreedy) NextAction(q QFunction, state types.State, actions []types.Action) (types.Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	if e.rand.Float64() < e.epsilon {
		return actions[e.rand.Intn(len(actions))], true
	}
	return BestAction(q, state, actions)
}

func checkProbability(name string, val float64) error {
	if !(val >= 0 && val <= 1) {
		return fmt.Errorf("%s %v not in [0, 1]: %w", name, val, types.ErrInvalidHyperparameter)
	}
	return nil
}
