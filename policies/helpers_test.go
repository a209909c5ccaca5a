package policies

import (
	"context"
	"errors"
	"math"

	"github.com/zeu5/qlearning-rl/types"
)

type testAction string

func (a testAction) Hash() string {
	return string(a)
}

type testState struct {
	name    string
	actions []types.Action
}

func (s *testState) Hash() string {
	return s.name
}

func (s *testState) Actions() []types.Action {
	return s.actions
}

func newTestState(name string, actions ...string) *testState {
	s := &testState{name: name, actions: make([]types.Action, len(actions))}
	for i, a := range actions {
		s.actions[i] = testAction(a)
	}
	return s
}

type failingStore struct{}

func (failingStore) LoadWeights(context.Context) (map[string]float64, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) SaveWeights(context.Context, map[string]float64) error {
	return errors.New("connection refused")
}

type mapStore struct {
	weights map[string]float64
	saved   map[string]float64
}

func (m *mapStore) LoadWeights(context.Context) (map[string]float64, error) {
	if m.weights == nil {
		return nil, types.ErrMissingPersistedState
	}
	return m.weights, nil
}

func (m *mapStore) SaveWeights(_ context.Context, w map[string]float64) error {
	m.saved = w
	return nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
