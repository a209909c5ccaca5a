package benchmarks

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/qlearning-rl/grid"
	"github.com/zeu5/qlearning-rl/policies"
	"github.com/zeu5/qlearning-rl/server"
	"github.com/zeu5/qlearning-rl/types"
)

type gridOptions struct {
	training int
	epsilon  float64
	alpha    float64
	discount float64
	seed     uint64
	features string

	layout string
	noise  float64

	parallel     int
	recordTraces bool
	recordPolicy bool
	freeze       bool

	store     string
	redisAddr string
	serve     string
	top       int
}

func (o *gridOptions) extractor(env *grid.Environment) (types.FeatureExtractor, error) {
	switch o.features {
	case "identity":
		return types.IdentityExtractor(), nil
	case "grid":
		return env.Extractor(), nil
	}
	return nil, fmt.Errorf("unknown features %q, expected identity or grid", o.features)
}

// printTopWeights prints the learned values with the largest magnitude
func printTopWeights(name string, weights map[string]float64, n int) {
	fmt.Printf("\nLearned values of %s (%d entries):\n", name, len(weights))
	for _, w := range policies.TopWeights(weights, n) {
		fmt.Printf("  %-20s %10.4f\n", w.Name, w.Value)
	}
}

// GridQLearning compares the tabular and linear agents on a gridworld
func GridQLearning(ctx context.Context, o *gridOptions) error {
	envConfig := grid.DefaultConfig()
	if o.layout != "" {
		envConfig.Layout = strings.Split(o.layout, ",")
	}
	envConfig.Noise = o.noise
	envConfig.Seed = o.seed
	probe, err := grid.NewEnvironment(envConfig)
	if err != nil {
		return err
	}
	extractor, err := o.extractor(probe)
	if err != nil {
		return err
	}

	var snapshots *server.SnapshotServer
	if o.serve != "" {
		snapshots = server.NewSnapshotServer(ctx, o.serve)
		snapshots.Start()
		fmt.Printf("Serving snapshots on %s\n", o.serve)
	}

	c := types.NewComparison(&types.ComparisonConfig{
		Runs:                runs,
		Episodes:            episodes,
		Horizon:             horizon,
		RecordPath:          saveFile,
		RecordTraces:        o.recordTraces,
		RecordPolicy:        o.recordPolicy,
		FreezeAfterTraining: o.freeze,
		ParallelExperiments: o.parallel,
	})
	c.AddAnalysis("Returns", types.NewReturnsAnalyzer, types.ReturnsPlotter(path.Join(saveFile, "returns"), 50))
	c.AddAnalysis("Summary", types.NewReturnsAnalyzer, types.ReturnsSummaryComparator(os.Stdout, 100))
	c.AddAnalysis("Coverage", types.NewCoverageAnalyzer, types.CoveragePlotter(path.Join(saveFile, "coverage"), os.Stdout))
	c.AddAnalysis("Visits", grid.NewVisitsAnalyzer(probe.Height, probe.Width), grid.VisitsHeatMap(path.Join(saveFile, "visits")))

	for _, variant := range []policies.Variant{policies.VariantTabular, policies.VariantLinear} {
		variant := variant
		name := string(variant)
		store, release, err := newWeightStore(o.store, o.redisAddr, name)
		if err != nil {
			return err
		}
		defer release()

		run := 0
		agentConstructor := func() (types.Agent, error) {
			runName := fmt.Sprintf("%s_%d", name, run)
			run += 1

			config := policies.DefaultConfig()
			config.Variant = variant
			config.Extractor = extractor
			config.Epsilon = o.epsilon
			config.Alpha = o.alpha
			config.Discount = o.discount
			config.TrainingEpisodes = o.training
			config.Seed = o.seed + uint64(run)
			config.Store = store
			config.OnTrainingComplete = func(weights map[string]float64) {
				if store != nil {
					saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
					defer cancel()
					if err := store.SaveWeights(saveCtx, weights); err != nil {
						fmt.Printf("\nCould not save weights of %s: %s\n", runName, err)
					}
				}
				if snapshots != nil {
					snapshots.Publish(runName, weights)
				}
				printTopWeights(runName, weights, o.top)
			}
			return policies.NewQAgent(ctx, config)
		}
		c.AddExperiment(types.NewExperiment(name, agentConstructor, func() types.Environment {
			env, _ := grid.NewEnvironment(envConfig)
			return env
		}))
	}

	return c.Run(ctx)
}

func GridCommand() *cobra.Command {
	o := &gridOptions{}
	defaults := policies.DefaultConfig()
	envDefaults := grid.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Compare the tabular and linear agents on a gridworld",
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

			doneCh := make(chan struct{}) // channel for done signal from application

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-sigCh:
				case <-doneCh:
				}
				cancel()
			}()
			defer close(doneCh)

			stopProfiling := startProfiling()
			defer stopProfiling()

			return GridQLearning(ctx, o)
		},
	}
	cmd.PersistentFlags().IntVar(&o.training, "training", 500, "Number of training episodes of each agent")
	cmd.PersistentFlags().Float64Var(&o.epsilon, "epsilon", defaults.Epsilon, "Exploration probability while training")
	cmd.PersistentFlags().Float64Var(&o.alpha, "alpha", defaults.Alpha, "Learning rate")
	cmd.PersistentFlags().Float64Var(&o.discount, "discount", defaults.Discount, "Discount factor")
	cmd.PersistentFlags().Uint64Var(&o.seed, "seed", 0, "Seed of the random sources")
	cmd.PersistentFlags().StringVar(&o.features, "features", "grid", "Features of the linear agent (identity, grid)")
	cmd.PersistentFlags().StringVar(&o.layout, "layout", strings.Join(envDefaults.Layout, ","), "Rows of the grid separated by commas ('.' empty, '#' wall, 'S' start, 'G' goal, 'P' pit)")
	cmd.PersistentFlags().Float64Var(&o.noise, "noise", envDefaults.Noise, "Probability of slipping perpendicular to the intended move")
	cmd.PersistentFlags().IntVar(&o.parallel, "parallel", 1, "Number of experiments run at the same time")
	cmd.PersistentFlags().BoolVar(&o.recordTraces, "record-traces", false, "Record the traces of every episode")
	cmd.PersistentFlags().BoolVar(&o.recordPolicy, "record-policy", true, "Record the learned values at the end of every run")
	cmd.PersistentFlags().BoolVar(&o.freeze, "freeze", false, "Stop learning once training is over")
	cmd.PersistentFlags().StringVar(&o.store, "store", "none", "Where the learned values are loaded from and saved to (none, file, redis)")
	cmd.PersistentFlags().StringVar(&o.redisAddr, "redis-addr", "127.0.0.1:6379", "Address of the redis server used by the redis store")
	cmd.PersistentFlags().StringVar(&o.serve, "serve", "", "Serve the learned values over http on this address")
	cmd.PersistentFlags().IntVar(&o.top, "top", 10, "Number of learned values printed when training ends")
	return cmd
}
