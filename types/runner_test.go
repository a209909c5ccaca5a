package types_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/zeu5/qlearning-rl/policies"
	"github.com/zeu5/qlearning-rl/types"
)

func newAgent(t *testing.T, training int, epsilon float64) *policies.QAgent {
	t.Helper()
	config := policies.DefaultConfig()
	config.TrainingEpisodes = training
	config.Epsilon = epsilon
	config.Alpha = 0.5
	config.Discount = 0.9
	config.Seed = 3
	config.Output = &bytes.Buffer{}
	agent, err := policies.NewQAgent(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return agent
}

func TestRunnerStopsAtTerminal(t *testing.T) {
	agent := newAgent(t, 5, 0)
	// forward is preferred once it has been rewarded
	agent.ObserveTransition(&chainState{pos: 2, length: 3}, forward, &chainState{pos: 3, length: 3}, 1)
	agent.ObserveTransition(&chainState{pos: 1, length: 3}, forward, &chainState{pos: 2, length: 3}, 0.1)
	agent.ObserveTransition(&chainState{pos: 0, length: 3}, forward, &chainState{pos: 1, length: 3}, 0.1)

	runner := types.NewRunner(&types.RunnerConfig{
		Episodes:    1,
		Horizon:     100,
		Agent:       agent,
		Environment: newChainEnv(3),
	})
	eCtx := types.NewEpisodeContext(context.Background(), 0)
	runner.RunEpisode(eCtx)

	if eCtx.Err != nil {
		t.Fatalf("unexpected error: %s", eCtx.Err)
	}
	if !eCtx.Terminal || eCtx.HorizonEnd {
		t.Errorf("episode should end at the terminal state")
	}
	if eCtx.Timesteps != 3 || eCtx.Trace.Len() != 3 {
		t.Errorf("expected 3 steps, got %d", eCtx.Timesteps)
	}
	if eCtx.Return() != 1 {
		t.Errorf("expected return 1, got %f", eCtx.Return())
	}
	if agent.EpisodesSoFar() != 1 {
		t.Errorf("end of episode should be called once")
	}
}

func TestRunnerHorizon(t *testing.T) {
	agent := newAgent(t, 5, 0)
	// stay wins ties
	runner := types.NewRunner(&types.RunnerConfig{
		Episodes:    1,
		Horizon:     4,
		Agent:       agent,
		Environment: newChainEnv(3),
	})
	eCtx := types.NewEpisodeContext(context.Background(), 0)
	runner.RunEpisode(eCtx)
	if !eCtx.HorizonEnd || eCtx.Terminal {
		t.Errorf("episode should be cut by the horizon")
	}
	if eCtx.Timesteps != 4 {
		t.Errorf("expected 4 steps, got %d", eCtx.Timesteps)
	}
}

func TestRunnerTrainingBoundary(t *testing.T) {
	agent := newAgent(t, 3, 0.5)
	runner := types.NewRunner(&types.RunnerConfig{
		Episodes:            6,
		Horizon:             20,
		Agent:               agent,
		Environment:         newChainEnv(2),
		FreezeAfterTraining: true,
	})

	ended := 0
	var frozen map[string]float64
	for i := 0; i < 6; i++ {
		eCtx := types.NewEpisodeContext(context.Background(), i)
		runner.RunEpisode(eCtx)
		if eCtx.Err != nil {
			t.Fatalf("unexpected error: %s", eCtx.Err)
		}
		if eCtx.Training != (i < 3) {
			t.Errorf("episode %d: unexpected training flag %v", i, eCtx.Training)
		}
		if eCtx.TrainingEnded {
			ended += 1
			if i != 2 {
				t.Errorf("training should end with episode 2, ended with %d", i)
			}
		}
		if i == 2 {
			frozen = agent.Snapshot()
		}
	}
	after := agent.Snapshot()
	for k, v := range frozen {
		if after[k] != v {
			t.Errorf("value of %s changed after training: %f != %f", k, v, after[k])
		}
	}
	if ended != 1 {
		t.Errorf("expected the boundary once, got %d", ended)
	}
	if agent.Epsilon() != 0 {
		t.Errorf("exploration should be disabled after training, epsilon %f", agent.Epsilon())
	}
}

func TestRunnerRecoversErrors(t *testing.T) {
	env := newChainEnv(3)
	env.failAt = 0
	runner := types.NewRunner(&types.RunnerConfig{
		Episodes:    2,
		Horizon:     10,
		Agent:       newAgent(t, 1, 0),
		Environment: env,
	})
	if err := runner.Run(context.Background()); err == nil {
		t.Errorf("expected the step error")
	}
	if len(runner.Traces()) != 1 {
		t.Errorf("run should stop at the first failing episode")
	}

	env = newChainEnv(3)
	env.panicAt = 0
	runner = types.NewRunner(&types.RunnerConfig{
		Episodes:    1,
		Horizon:     10,
		Agent:       newAgent(t, 1, 0),
		Environment: env,
	})
	eCtx := types.NewEpisodeContext(context.Background(), 0)
	runner.RunEpisode(eCtx)
	if eCtx.Err == nil {
		t.Errorf("a panic should be recorded as the episode error")
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := types.NewRunner(&types.RunnerConfig{
		Episodes:    1,
		Agent:       newAgent(t, 1, 0),
		Environment: newChainEnv(3),
	})
	err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context cancelled, got %v", err)
	}
}
