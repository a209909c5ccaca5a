package types

import (
	"context"
	"time"
)

// EpisodeContext stores the information used and produced by an episode
type EpisodeContext struct {
	Context context.Context

	Episode int    // index of the episode in the experiment
	Trace   *Trace // transitions executed in the episode

	Timesteps     int  // number of executed transitions
	Training      bool // the agent was training when the episode started
	TrainingEnded bool // the episode was the last training episode
	Terminal      bool // the episode reached a state with no legal actions
	HorizonEnd    bool // the episode was cut by the horizon

	Err         error
	RunDuration time.Duration
}

func NewEpisodeContext(ctx context.Context, episode int) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Episode: episode,
		Trace:   NewTrace(),
	}
}

func (e *EpisodeContext) SetError(err error) {
	e.Err = err
}

// Return of the episode
func (e *EpisodeContext) Return() float64 {
	return e.Trace.Return()
}
