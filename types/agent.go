package types

// Agent is the environment facing contract of a learning agent.
// The calls are expected in the sequence Act -> ObserveTransition -> [EndOfEpisode]
type Agent interface {
	// Act returns the action to take, false when the state has no legal actions
	Act(State) (Action, bool)
	// ObserveTransition updates the agent on the executed transition
	ObserveTransition(state State, action Action, nextState State, reward float64)
	// StartEpisode is called before the first action of an episode
	StartEpisode()
	// EndOfEpisode is called with the last state of the episode
	EndOfEpisode(State)
	// IsTraining is false once the training episodes are exhausted
	IsTraining() bool
	// SetEpsilon changes the exploration probability
	SetEpsilon(float64) error
}

// Recorder is an agent that can record its learned parameters
type Recorder interface {
	Record(path string) error
}

// Transition executed in the environment
type Transition struct {
	State     State
	Action    Action
	NextState State
	Reward    float64
}
