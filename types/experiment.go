package types

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/qlearning-rl/util"
)

// AgentConstructor creates a fresh agent for every run of an experiment
type AgentConstructor func() (Agent, error)

// EnvironmentConstructor creates a fresh environment for every run of an experiment
type EnvironmentConstructor func() Environment

type experimentRunConfig struct {
	// execution configuration
	CurrentRun          int
	Episodes            int
	Horizon             int
	FreezeAfterTraining bool
	Analyzers           []Analyzer
	Context             context.Context

	// threshold to abort the experiment
	ConsecutiveErrorsAbort int

	// record flags
	RecordTraces   bool
	RecordPolicy   bool
	ReportSavePath string

	// where the status line goes
	Status func(string)

	//misc
	LongestExpNameLen int
}

// Experiment encapsulates the agent and environment to run and analyze
type Experiment struct {
	Name     string
	agentCtr AgentConstructor
	envCtr   EnvironmentConstructor
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, agent AgentConstructor, environment EnvironmentConstructor) *Experiment {
	return &Experiment{
		Name:     name,
		agentCtr: agent,
		envCtr:   environment,
	}
}

func (e *Experiment) recordTrace(rConfig *experimentRunConfig, trace *Trace) error {
	tracesFile := path.Join(rConfig.ReportSavePath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".jsonl")
	bs, err := json.Marshal(trace)
	if err != nil {
		return err
	}
	return util.AppendToFile(tracesFile, string(bs))
}

// Run the experiment for the specified number of episodes
// Each episode is passed to the analyzers, erroring episodes included
func (e *Experiment) Run(rConfig *experimentRunConfig) error {
	agent, err := e.agentCtr()
	if err != nil {
		return fmt.Errorf("experiment %s: creating agent: %w", e.Name, err)
	}
	runner := NewRunner(&RunnerConfig{
		Episodes:            rConfig.Episodes,
		Horizon:             rConfig.Horizon,
		Agent:               agent,
		Environment:         e.envCtr(),
		FreezeAfterTraining: rConfig.FreezeAfterTraining,
	})

	if rConfig.RecordTraces {
		tracesFolder := path.Join(rConfig.ReportSavePath, "traces")
		if _, err := os.Stat(tracesFolder); err != nil {
			os.MkdirAll(tracesFolder, os.ModePerm)
		}
	}

	totalEpisodes := 0     // total episodes executed
	totalWithError := 0    // episodes ended with an error
	totalTerminal := 0     // episodes ended in a terminal state
	totalHorizon := 0      // episodes ended with the horizon reached
	trainingEpisodes := 0  // episodes run while training
	consecutiveErrors := 0 // used to abort the experiment

	EPPadding := len(strconv.Itoa(rConfig.Episodes))
	status := func() {
		if rConfig.Status == nil {
			return
		}
		rConfig.Status(fmt.Sprintf("Exp:%*s, Eps:%*d/%d, Train:%*d || Terminal:%*d, Horizon:%*d, Err:%*d",
			rConfig.LongestExpNameLen, e.Name, EPPadding, totalEpisodes, rConfig.Episodes, EPPadding, trainingEpisodes,
			EPPadding, totalTerminal, EPPadding, totalHorizon, EPPadding, totalWithError))
	}
	status()

	for episode := 0; episode < rConfig.Episodes; episode++ {
		select {
		case <-rConfig.Context.Done():
			return rConfig.Context.Err()
		default:
		}

		eCtx := NewEpisodeContext(rConfig.Context, episode)
		runner.RunEpisode(eCtx)
		totalEpisodes += 1
		if eCtx.Training {
			trainingEpisodes += 1
		}

		if eCtx.Err != nil {
			totalWithError += 1
			consecutiveErrors += 1
		} else {
			consecutiveErrors = 0
			if eCtx.Terminal {
				totalTerminal += 1
			} else if eCtx.HorizonEnd {
				totalHorizon += 1
			}
		}

		if rConfig.RecordTraces {
			if err := e.recordTrace(rConfig, eCtx.Trace); err != nil {
				return fmt.Errorf("experiment %s: recording trace: %w", e.Name, err)
			}
		}

		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.CurrentRun, e.Name, eCtx)
		}

		if rConfig.ConsecutiveErrorsAbort > 0 && consecutiveErrors >= rConfig.ConsecutiveErrorsAbort {
			return fmt.Errorf("experiment %s: aborted after %d consecutive errors: %w", e.Name, consecutiveErrors, eCtx.Err)
		}
		status()
	}

	if rConfig.RecordPolicy {
		if rec, ok := agent.(Recorder); ok {
			policyFile := path.Join(rConfig.ReportSavePath, "policies", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".json")
			if err := rec.Record(policyFile); err != nil {
				return fmt.Errorf("experiment %s: recording policy: %w", e.Name, err)
			}
		}
	}
	return nil
}

// Generic Dataset that contains information after processing the episodes
type DataSet interface{}

// Analyzer compresses the information of the episodes to a DataSet
type Analyzer interface {
	// run, experiment name, episode
	Analyze(int, string, *EpisodeContext)
	// Resulting dataset
	DataSet() DataSet
}

// AnalyzerConstructor creates one analyzer per experiment run
type AnalyzerConstructor func() Analyzer

// Comparator differentiates between different datasets with associated names
// run, experiment names, datasets
type Comparator func(int, []string, []DataSet)

func NoopComparator() Comparator {
	return func(int, []string, []DataSet) {}
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs     int // number of runs
	Episodes int // number of episodes
	Horizon  int // number of steps

	RecordPath string // path to store the results

	// threshold to abort an experiment, 10 when not set
	ConsecutiveErrorsAbort int

	// record flags
	RecordTraces bool
	RecordPolicy bool

	FreezeAfterTraining bool

	// number of experiments run at the same time, sequential when less than 2
	ParallelExperiments int
	// seconds between two refreshes of the parallel status
	PrintFrequency int

	// where progress is printed, os.Stdout when nil
	Output io.Writer
}

// Comparison contains the different experiments to compare
// The episodes obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]AnalyzerConstructor
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.ConsecutiveErrorsAbort == 0 {
		config.ConsecutiveErrorsAbort = 10
	}
	if config.PrintFrequency <= 0 {
		config.PrintFrequency = 1
	}

	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]AnalyzerConstructor),
		comparators: make(map[string]Comparator),
		cConfig:     config,
	}
}

// prepare the output folders
func (c *Comparison) prepareFolders() error {
	cfg := c.cConfig
	foldersToCreate := []string{cfg.RecordPath}
	if cfg.RecordTraces {
		foldersToCreate = append(foldersToCreate, path.Join(cfg.RecordPath, "traces"))
	}
	if cfg.RecordPolicy {
		foldersToCreate = append(foldersToCreate, path.Join(cfg.RecordPath, "policies"))
	}
	for _, s := range foldersToCreate {
		if err := os.MkdirAll(s, os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig

	out := make(map[string]interface{})
	out["runs"] = cfg.Runs
	out["episodes"] = cfg.Episodes
	out["horizon"] = cfg.Horizon
	out["record_traces"] = cfg.RecordTraces
	out["record_policy"] = cfg.RecordPolicy
	out["freeze_after_training"] = cfg.FreezeAfterTraining
	out["parallel_experiments"] = cfg.ParallelExperiments

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments

	analyzers := make([]string, 0)
	for name := range c.analyzers {
		analyzers = append(analyzers, name)
	}
	out["analyzers"] = analyzers

	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return util.WriteToFile(path.Join(cfg.RecordPath, "comparison_config.json"), string(bs))
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer AnalyzerConstructor, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if err := c.prepareFolders(); err != nil {
		return err
	}
	if err := c.recordConfig(); err != nil {
		return err
	}

	longestNameLen := 0
	for _, e := range c.Experiments {
		if len(e.Name) > longestNameLen {
			longestNameLen = len(e.Name)
		}
	}

	for run := 0; run < c.cConfig.Runs; run++ { // number of runs
		fmt.Fprintf(c.cConfig.Output, "Run %d\n", run+1)
		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		var err error
		if c.cConfig.ParallelExperiments > 1 {
			err = c.runParallel(ctx, run, longestNameLen, datasets)
		} else {
			err = c.runSequential(ctx, run, longestNameLen, datasets)
		}
		if err != nil {
			return err
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			names[i] = e.Name
		}
		for name, comp := range c.comparators {
			comp(run, names, datasets[name])
		}
	}
	return nil
}

func (c *Comparison) runSequential(ctx context.Context, run, longestNameLen int, datasets map[string][]DataSet) error {
	status := func(s string) {
		fmt.Fprintf(c.cConfig.Output, "\r%s", s)
	}
	for i := range c.Experiments {
		if err := c.runExperiment(ctx, run, i, longestNameLen, status, datasets); err != nil {
			return err
		}
		fmt.Fprintln(c.cConfig.Output)
	}
	return nil
}

// runExperiment runs experiment i and stores the datasets of its analyzers at index i
func (c *Comparison) runExperiment(ctx context.Context, run, i, longestNameLen int, status func(string), datasets map[string][]DataSet) error {
	names := make([]string, 0, len(c.analyzers))
	analyzers := make([]Analyzer, 0, len(c.analyzers))
	for name, ctr := range c.analyzers {
		names = append(names, name)
		analyzers = append(analyzers, ctr())
	}

	err := c.Experiments[i].Run(&experimentRunConfig{
		CurrentRun:             run,
		Episodes:               c.cConfig.Episodes,
		Horizon:                c.cConfig.Horizon,
		FreezeAfterTraining:    c.cConfig.FreezeAfterTraining,
		Analyzers:              analyzers,
		Context:                ctx,
		ConsecutiveErrorsAbort: c.cConfig.ConsecutiveErrorsAbort,
		RecordTraces:           c.cConfig.RecordTraces,
		RecordPolicy:           c.cConfig.RecordPolicy,
		ReportSavePath:         c.cConfig.RecordPath,
		Status:                 status,
		LongestExpNameLen:      longestNameLen,
	})
	if err != nil {
		return err
	}
	for j, name := range names {
		datasets[name][i] = analyzers[j].DataSet()
	}
	return nil
}
