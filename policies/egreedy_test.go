package policies

import (
	"errors"
	"math"
	"testing"

	"github.com/zeu5/qlearning-rl/types"
)

func TestEGreedyNoExploration(t *testing.T) {
	policy, err := NewEGreedy(0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	q := NewTabular()
	s := newTestState("A", "North", "South", "East")
	q.Table().Set("A", "East", 1)

	best, _ := BestAction(q, s, s.Actions())
	for i := 0; i < 100; i++ {
		a, ok := policy.NextAction(q, s, s.Actions())
		if !ok || a != best {
			t.Fatalf("expected %s, got %v", best.Hash(), a)
		}
	}
}

func TestEGreedyFullExploration(t *testing.T) {
	policy, _ := NewEGreedy(1, 42)
	q := NewTabular()
	s := newTestState("A", "North", "South", "East")
	q.Table().Set("A", "East", 1)

	trials := 30000
	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		a, ok := policy.NextAction(q, s, s.Actions())
		if !ok {
			t.Fatalf("expected an action")
		}
		counts[a.Hash()] += 1
	}
	for _, a := range s.Actions() {
		freq := float64(counts[a.Hash()]) / float64(trials)
		if math.Abs(freq-1.0/3) > 0.03 {
			t.Errorf("frequency of %s is %f, expected about 1/3", a.Hash(), freq)
		}
	}
}

func TestEGreedyNoActions(t *testing.T) {
	for _, epsilon := range []float64{0, 0.5, 1} {
		policy, _ := NewEGreedy(epsilon, 7)
		if a, ok := policy.NextAction(NewTabular(), newTestState("T"), nil); ok || a != nil {
			t.Errorf("expected no action with epsilon %f, got %v", epsilon, a)
		}
	}
}

func TestEGreedySetEpsilon(t *testing.T) {
	policy, _ := NewEGreedy(0.5, 7)
	for _, epsilon := range []float64{-0.1, 1.1, math.NaN()} {
		if err := policy.SetEpsilon(epsilon); !errors.Is(err, types.ErrInvalidHyperparameter) {
			t.Errorf("expected invalid hyperparameter for %f, got %v", epsilon, err)
		}
	}
	if policy.Epsilon() != 0.5 {
		t.Errorf("epsilon should be unchanged after a rejected update")
	}
	if err := policy.SetEpsilon(0); err != nil || policy.Epsilon() != 0 {
		t.Errorf("expected epsilon 0, got %f (%v)", policy.Epsilon(), err)
	}
}
