package types

import (
	"context"
	"fmt"
	"time"
)

// RunnerConfig configures the episode driver
type RunnerConfig struct {
	Episodes int
	// Maximum number of steps of an episode, unbounded when not positive
	Horizon     int
	Agent       Agent
	Environment Environment
	// Stop feeding transitions to the agent once training is over
	FreezeAfterTraining bool
}

// Runner drives an Agent through episodes of an Environment
type Runner struct {
	config *RunnerConfig
	// collects the traces of the run
	// Only populated if the Run function is invoked
	traces      []*Trace
	agent       Agent
	environment Environment
}

// Instantiates a new Runner
func NewRunner(config *RunnerConfig) *Runner {
	return &Runner{
		config:      config,
		traces:      make([]*Trace, 0, config.Episodes),
		agent:       config.Agent,
		environment: config.Environment,
	}
}

// Traces of the episodes executed by Run
func (r *Runner) Traces() []*Trace {
	return r.traces
}

// Run the agent for the specified number of episodes
func (r *Runner) Run(ctx context.Context) error {
	for i := 0; i < r.config.Episodes; i++ {
		eCtx := NewEpisodeContext(ctx, i)
		r.RunEpisode(eCtx)
		r.traces = append(r.traces, eCtx.Trace)
		if eCtx.Err != nil {
			return fmt.Errorf("episode %d: %w", i, eCtx.Err)
		}
	}
	return nil
}

// RunEpisode runs a single episode, the outcome is stored in the episode context
func (r *Runner) RunEpisode(eCtx *EpisodeContext) {
	start := time.Now()
	defer func() {
		eCtx.RunDuration = time.Since(start)
		if rec := recover(); rec != nil {
			eCtx.SetError(fmt.Errorf("%v", rec))
		}
	}()

	state, err := r.environment.Reset()
	if err != nil {
		eCtx.SetError(fmt.Errorf("reset: %w", err))
		return
	}
	eCtx.Training = r.agent.IsTraining()
	learn := eCtx.Training || !r.config.FreezeAfterTraining

	r.agent.StartEpisode()
	for i := 0; r.config.Horizon <= 0 || i < r.config.Horizon; i++ {
		select {
		case <-eCtx.Context.Done():
			eCtx.SetError(eCtx.Context.Err())
			return
		default:
		}

		action, ok := r.agent.Act(state)
		if !ok {
			break
		}
		nextState, reward, err := r.environment.Step(action)
		if err != nil {
			eCtx.SetError(fmt.Errorf("step %d: %w", i, err))
			return
		}
		if learn {
			r.agent.ObserveTransition(state, action, nextState, reward)
		}
		eCtx.Trace.Append(state, action, nextState, reward)
		eCtx.Timesteps++
		state = nextState
	}

	if Terminal(state) {
		eCtx.Terminal = true
	} else {
		eCtx.HorizonEnd = true
	}

	r.agent.EndOfEpisode(state)
	// exploration is disabled for the evaluation episodes
	if eCtx.Training && !r.agent.IsTraining() {
		eCtx.TrainingEnded = true
		if err := r.agent.SetEpsilon(0); err != nil {
			eCtx.SetError(err)
		}
	}
}
