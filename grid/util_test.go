package grid

import (
	"context"
	"testing"

	"github.com/zeu5/qlearning-rl/types"
)

type scriptedAgent struct {
	actions []types.Action
	next    int
}

func (s *scriptedAgent) Act(state types.State) (types.Action, bool) {
	if len(state.Actions()) == 0 || s.next >= len(s.actions) {
		return nil, false
	}
	a := s.actions[s.next]
	s.next += 1
	return a, true
}

func (s *scriptedAgent) ObserveTransition(types.State, types.Action, types.State, float64) {}
func (s *scriptedAgent) StartEpisode() { s.next = 0 }
func (s *scriptedAgent) EndOfEpisode(types.State) {}
func (s *scriptedAgent) IsTraining() bool { return false }
func (s *scriptedAgent) SetEpsilon(float64) error { return nil }

func TestVisitsAnalyzer(t *testing.T) {
	env := newTestEnvironment(t, []string{"S.G"}, 0)
	runner := types.NewRunner(&types.RunnerConfig{
		Episodes:    2,
		Horizon:     10,
		Agent:       &scriptedAgent{actions: []types.Action{MovementEast, MovementEast}},
		Environment: env,
	})
	analyzer := NewVisitsAnalyzer(env.Height, env.Width)()
	for i := 0; i < 2; i++ {
		eCtx := types.NewEpisodeContext(context.Background(), i)
		runner.RunEpisode(eCtx)
		if eCtx.Err != nil {
			t.Fatalf("unexpected error: %s", eCtx.Err)
		}
		analyzer.Analyze(0, "scripted", eCtx)
	}

	dataSet := analyzer.DataSet().(*GridDataSet)
	for j := 0; j < 3; j++ {
		if dataSet.Visits[0][j] != 2 {
			t.Errorf("expected 2 visits of (0, %d), got %d", j, dataSet.Visits[0][j])
		}
	}
	if dataSet.Max() != 2 {
		t.Errorf("expected max 2, got %f", dataSet.Max())
	}

	merged := MergeGridDatasets([]types.DataSet{dataSet, dataSet}).(*GridDataSet)
	if merged.Visits[0][2] != 4 || merged.Width != 3 {
		t.Errorf("unexpected merged dataset %+v", merged)
	}
}
