package policies

import (
	"context"
	"fmt"
	"io"

	"github.com/zeu5/qlearning-rl/storage"
	"github.com/zeu5/qlearning-rl/types"
)

// QAgent learns a QFunction from the observed transitions and acts epsilon-greedily on it
// The agent trains for Config.TrainingEpisodes episodes and then evaluates for the rest of its lifetime
type QAgent struct {
	config Config
	q      QFunction
	policy *EGreedy
	out    io.Writer

	training           bool
	episodesSoFar      int
	episodeRewards     float64
	accumTrainRewards  float64
	accumEvalRewards   float64
	trainingSnapshot   map[string]float64
	trainingCompleteAt int
}

var _ types.Agent = &QAgent{}
var _ types.Recorder = &QAgent{}

// NewQAgent fails only on invalid hyperparameters
// Weights that cannot be loaded from Config.Store are replaced by zero weights
func NewQAgent(ctx context.Context, config Config) (*QAgent, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	policy, err := NewEGreedy(config.Epsilon, config.Seed)
	if err != nil {
		return nil, err
	}
	agent := &QAgent{
		config:   config,
		policy:   policy,
		out:      config.output(),
		training: config.TrainingEpisodes > 0,
	}

	switch config.Variant {
	case VariantTabular:
		agent.q = NewTabular()
	case VariantLinear:
		agent.q = NewLinear(config.Extractor, agent.loadWeights(ctx))
	}
	return agent, nil
}

func (a *QAgent) loadWeights(ctx context.Context) *WeightVector {
	if a.config.Store == nil {
		return NewWeightVector()
	}
	weights, err := a.config.Store.LoadWeights(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load weights: %s, starting from zero weights\n", err)
		return NewWeightVector()
	}
	return NewWeightVectorFrom(weights)
}

// Act returns false when the state has no legal actions
func (a *QAgent) Act(state types.State) (types.Action, bool) {
	return a.policy.NextAction(a.q, state, types.LegalActions(state))
}

func (a *QAgent) ObserveTransition(state types.State, action types.Action, nextState types.State, reward float64) {
	a.episodeRewards += reward
	a.q.Update(types.Transition{
		State:     state,
		Action:    action,
		NextState: nextState,
		Reward:    reward,
	}, a.config.Alpha, a.config.Discount)
}

func (a *QAgent) StartEpisode() {
	a.episodeRewards = 0
}

// EndOfEpisode counts the episode and switches to evaluation after the last training episode
func (a *QAgent) EndOfEpisode(_ types.State) {
	if a.training {
		a.accumTrainRewards += a.episodeRewards
	} else {
		a.accumEvalRewards += a.episodeRewards
	}
	a.episodesSoFar += 1

	if a.training && a.episodesSoFar == a.config.TrainingEpisodes {
		a.training = false
		a.trainingCompleteAt = a.episodesSoFar
		a.trainingSnapshot = a.q.Snapshot()
		if a.config.OnTrainingComplete != nil {
			a.config.OnTrainingComplete(a.q.Snapshot())
		}
	}
}

func (a *QAgent) IsTraining() bool {
	return a.training
}

func (a *QAgent) SetEpsilon(epsilon float64) error {
	return a.policy.SetEpsilon(epsilon)
}

func (a *QAgent) Epsilon() float64 {
	return a.policy.Epsilon()
}

func (a *QAgent) QFunction() QFunction {
	return a.q
}

// Value of the action in the state under the current estimate
func (a *QAgent) Value(state types.State, action types.Action) float64 {
	return a.q.Value(state, action)
}

// Snapshot copies the current learned values
func (a *QAgent) Snapshot() map[string]float64 {
	return a.q.Snapshot()
}

// TrainingSnapshot returns the values captured when training ended, false if it has not ended yet
func (a *QAgent) TrainingSnapshot() (map[string]float64, bool) {
	if a.trainingSnapshot == nil {
		return nil, false
	}
	out := make(map[string]float64, len(a.trainingSnapshot))
	for k, v := range a.trainingSnapshot {
		out[k] = v
	}
	return out, true
}

// Record writes the current learned values as a JSON object
func (a *QAgent) Record(path string) error {
	return storage.NewFileStore(path).SaveWeights(context.Background(), a.q.Snapshot())
}

// Stats of the episodes observed by the agent
type Stats struct {
	Episodes           int
	TrainingEpisodes   int
	EvaluationEpisodes int
	Training           bool

	CurrentEpisodeReward float64
	TrainingReward       float64
	EvaluationReward     float64
}

func (s Stats) AverageTrainingReward() float64 {
	if s.TrainingEpisodes == 0 {
		return 0
	}
	return s.TrainingReward / float64(s.TrainingEpisodes)
}

func (s Stats) AverageEvaluationReward() float64 {
	if s.EvaluationEpisodes == 0 {
		return 0
	}
	return s.EvaluationReward / float64(s.EvaluationEpisodes)
}

func (a *QAgent) Stats() Stats {
	trainingEpisodes := a.episodesSoFar
	if !a.training {
		trainingEpisodes = a.trainingCompleteAt
	}
	return Stats{
		Episodes:             a.episodesSoFar,
		TrainingEpisodes:     trainingEpisodes,
		EvaluationEpisodes:   a.episodesSoFar - trainingEpisodes,
		Training:             a.training,
		CurrentEpisodeReward: a.episodeRewards,
		TrainingReward:       a.accumTrainRewards,
		EvaluationReward:     a.accumEvalRewards,
	}
}

func (a *QAgent) EpisodesSoFar() int {
	return a.episodesSoFar
}
