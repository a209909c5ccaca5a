package types_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/zeu5/qlearning-rl/policies"
	"github.com/zeu5/qlearning-rl/types"
)

func chainExperiment(name string, variant policies.Variant) *types.Experiment {
	return types.NewExperiment(name, func() (types.Agent, error) {
		config := policies.DefaultConfig()
		config.Variant = variant
		config.Epsilon = 0.3
		config.TrainingEpisodes = 5
		config.Output = &bytes.Buffer{}
		return policies.NewQAgent(context.Background(), config)
	}, func() types.Environment {
		return newChainEnv(3)
	})
}

func runComparison(t *testing.T, parallel int) (string, map[string][]types.DataSet) {
	t.Helper()
	recordPath := t.TempDir()
	out := &bytes.Buffer{}
	comparison := types.NewComparison(&types.ComparisonConfig{
		Runs:                1,
		Episodes:            10,
		Horizon:             20,
		RecordPath:          recordPath,
		RecordTraces:        true,
		RecordPolicy:        true,
		ParallelExperiments: parallel,
		Output:              out,
	})
	comparison.AddExperiment(chainExperiment("tabular", policies.VariantTabular))
	comparison.AddExperiment(chainExperiment("linear", policies.VariantLinear))

	collected := make(map[string][]types.DataSet)
	collect := func(name string) types.Comparator {
		return func(_ int, _ []string, ds []types.DataSet) {
			collected[name] = ds
		}
	}
	comparison.AddAnalysis("returns", types.NewReturnsAnalyzer, collect("returns"))
	comparison.AddAnalysis("coverage", types.NewCoverageAnalyzer, collect("coverage"))

	if err := comparison.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return recordPath, collected
}

func TestComparisonRecords(t *testing.T) {
	for _, parallel := range []int{0, 2} {
		recordPath, collected := runComparison(t, parallel)

		for _, name := range []string{"tabular", "linear"} {
			f, err := os.Open(path.Join(recordPath, "traces", name+"_0.jsonl"))
			if err != nil {
				t.Fatalf("expected a trace file for %s: %s", name, err)
			}
			lines := 0
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				var steps []map[string]interface{}
				if err := json.Unmarshal(scanner.Bytes(), &steps); err != nil {
					t.Errorf("invalid trace line: %s", err)
				}
				lines += 1
			}
			f.Close()
			if lines != 10 {
				t.Errorf("expected 10 traces for %s, got %d", name, lines)
			}

			if _, err := os.Stat(path.Join(recordPath, "policies", name+"_0.json")); err != nil {
				t.Errorf("expected a policy file for %s: %s", name, err)
			}
		}
		if _, err := os.Stat(path.Join(recordPath, "comparison_config.json")); err != nil {
			t.Errorf("expected the comparison config: %s", err)
		}

		returns := collected["returns"]
		if len(returns) != 2 {
			t.Fatalf("expected returns of 2 experiments, got %d", len(returns))
		}
		for i, ds := range returns {
			if len(ds.([]float64)) != 10 {
				t.Errorf("experiment %d: expected 10 returns, got %d", i, len(ds.([]float64)))
			}
		}
		coverage := collected["coverage"][0].([]int)
		if coverage[len(coverage)-1] < 1 {
			t.Errorf("expected some coverage, got %v", coverage)
		}
	}
}

func TestComparisonAbortsOnErrors(t *testing.T) {
	comparison := types.NewComparison(&types.ComparisonConfig{
		Runs:                   1,
		Episodes:               10,
		Horizon:                5,
		RecordPath:             t.TempDir(),
		ConsecutiveErrorsAbort: 2,
		Output:                 &bytes.Buffer{},
	})
	comparison.AddExperiment(types.NewExperiment("failing", func() (types.Agent, error) {
		config := policies.DefaultConfig()
		config.Output = &bytes.Buffer{}
		return policies.NewQAgent(context.Background(), config)
	}, func() types.Environment {
		env := newChainEnv(3)
		env.failAt = 0
		return env
	}))
	if err := comparison.Run(context.Background()); err == nil {
		t.Errorf("expected the experiment to abort")
	}
}
