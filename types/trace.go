package types

import "encoding/json"

// Trace of an episode as quadruplets (state, action, nextState, reward)
type Trace struct {
	states     []State
	actions    []Action
	nextStates []State
	rewards    []float64
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]State, 0),
		actions:    make([]Action, 0),
		nextStates: make([]State, 0),
		rewards:    make([]float64, 0),
	}
}

func (t *Trace) Slice(from, to int) *Trace {
	slicedTrace := NewTrace()
	for i := from; i < to; i++ {
		slicedTrace.Append(t.states[i], t.actions[i], t.nextStates[i], t.rewards[i])
	}
	return slicedTrace
}

func (t *Trace) Append(state State, action Action, nextState State, reward float64) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.nextStates = append(t.nextStates, nextState)
	t.rewards = append(t.rewards, reward)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (State, Action, State, float64, bool) {
	if i < 0 || i >= len(t.states) {
		return nil, nil, nil, 0, false
	}
	return t.states[i], t.actions[i], t.nextStates[i], t.rewards[i], true
}

func (t *Trace) Last() (State, Action, State, float64, bool) {
	return t.Get(len(t.states) - 1)
}

// Return is the undiscounted sum of the rewards in the trace
func (t *Trace) Return() float64 {
	sum := 0.0
	for _, r := range t.rewards {
		sum += r
	}
	return sum
}

type traceStep struct {
	State     string  `json:"state"`
	Action    string  `json:"action"`
	NextState string  `json:"next_state"`
	Reward    float64 `json:"reward"`
}

// MarshalJSON records the trace by the hashes of states and actions
func (t *Trace) MarshalJSON() ([]byte, error) {
	steps := make([]traceStep, len(t.states))
	for i := range t.states {
		step := traceStep{
			Action: t.actions[i].Hash(),
			Reward: t.rewards[i],
		}
		if t.states[i] != nil {
			step.State = t.states[i].Hash()
		}
		if t.nextStates[i] != nil {
			step.NextState = t.nextStates[i].Hash()
		}
		steps[i] = step
	}
	return json.Marshal(steps)
}
