package benchmarks

import (
	"context"
	"os"
	"path"
	"testing"

	"github.com/zeu5/qlearning-rl/storage"
)

func TestGridQLearning(t *testing.T) {
	episodes, horizon, runs, saveFile = 30, 50, 1, t.TempDir()
	o := &gridOptions{
		training:     20,
		epsilon:      0.1,
		alpha:        0.2,
		discount:     0.9,
		features:     "grid",
		noise:        0.1,
		parallel:     1,
		recordPolicy: true,
		store:        "file",
		top:          3,
	}
	if err := GridQLearning(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	for _, name := range []string{"tabular", "linear"} {
		if _, err := os.Stat(path.Join(saveFile, "policies", name+"_0.json")); err != nil {
			t.Errorf("expected the recorded policy of %s: %s", name, err)
		}
		weights, err := storage.NewFileStore(path.Join(saveFile, "weights", name+".json")).LoadWeights(context.Background())
		if err != nil {
			t.Errorf("expected the saved weights of %s: %s", name, err)
		}
		if len(weights) == 0 {
			t.Errorf("expected learned values for %s", name)
		}
	}
}

func TestUnknownOptions(t *testing.T) {
	if _, _, err := newWeightStore("disk", "", "tabular"); err == nil {
		t.Errorf("expected an error for an unknown store")
	}
	o := &gridOptions{features: "pixels"}
	episodes, horizon, runs, saveFile = 1, 1, 1, t.TempDir()
	if err := GridQLearning(context.Background(), o); err == nil {
		t.Errorf("expected an error for unknown features")
	}
}
