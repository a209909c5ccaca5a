package types

import (
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ReturnsAnalyzer records the undiscounted return of every episode
type ReturnsAnalyzer struct {
	returns []float64
}

var _ Analyzer = &ReturnsAnalyzer{}

func NewReturnsAnalyzer() Analyzer {
	return &ReturnsAnalyzer{returns: make([]float64, 0)}
}

func (r *ReturnsAnalyzer) Analyze(_ int, _ string, eCtx *EpisodeContext) {
	r.returns = append(r.returns, eCtx.Return())
}

func (r *ReturnsAnalyzer) DataSet() DataSet {
	out := make([]float64, len(r.returns))
	copy(out, r.returns)
	return out
}

// CoverageAnalyzer records the cumulative number of distinct states visited after every episode
type CoverageAnalyzer struct {
	uniqueStates    map[string]bool
	numUniqueStates []int
}

var _ Analyzer = &CoverageAnalyzer{}

func NewCoverageAnalyzer() Analyzer {
	return &CoverageAnalyzer{
		uniqueStates:    make(map[string]bool),
		numUniqueStates: make([]int, 0),
	}
}

func (c *CoverageAnalyzer) Analyze(_ int, _ string, eCtx *EpisodeContext) {
	trace := eCtx.Trace
	for j := 0; j < trace.Len(); j++ {
		s, _, next, _, _ := trace.Get(j)
		c.uniqueStates[s.Hash()] = true
		if next != nil {
			c.uniqueStates[next.Hash()] = true
		}
	}
	c.numUniqueStates = append(c.numUniqueStates, len(c.uniqueStates))
}

func (c *CoverageAnalyzer) DataSet() DataSet {
	out := make([]int, len(c.numUniqueStates))
	copy(out, c.numUniqueStates)
	return out
}

// MovingAverage smooths the values with a trailing window
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

func linePlot(title, yLabel string, names []string, series [][]float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = yLabel
	for i := 0; i < len(names); i++ {
		points := make(plotter.XYs, len(series[i]))
		for j, v := range series[i] {
			points[j] = plotter.XY{
				X: float64(j),
				Y: v,
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(names[i], line)
	}
	return p
}

// ReturnsPlotter plots the smoothed returns of every experiment in one figure per run
func ReturnsPlotter(plotPath string, window int) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, ds []DataSet) {
		series := make([][]float64, len(names))
		for i := range names {
			series[i] = MovingAverage(ds[i].([]float64), window)
		}
		p := linePlot("Returns", "Return (moving average)", names, series)
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_returns.png"))
	}
}

// CoveragePlotter plots the number of distinct states visited by every experiment
func CoveragePlotter(plotPath string, out io.Writer) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, ds []DataSet) {
		series := make([][]float64, len(names))
		for i := range names {
			uniqueStates := ds[i].([]int)
			series[i] = make([]float64, len(uniqueStates))
			for j, v := range uniqueStates {
				series[i][j] = float64(v)
			}
			if len(uniqueStates) > 0 {
				fmt.Fprintf(out, "Number of unique states: %d for experiment: %s\n", uniqueStates[len(uniqueStates)-1], names[i])
			}
		}
		p := linePlot("Coverage", "States covered", names, series)
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_coverage.png"))
	}
}

// ReturnsSummary is the mean and standard deviation of the last episodes of an experiment
type ReturnsSummary struct {
	Experiment string
	Episodes   int
	Mean       float64
	StdDev     float64
}

// SummarizeReturns computes the summary over the last window returns, all of them when window <= 0
func SummarizeReturns(name string, returns []float64, window int) ReturnsSummary {
	if window > 0 && len(returns) > window {
		returns = returns[len(returns)-window:]
	}
	summary := ReturnsSummary{Experiment: name, Episodes: len(returns)}
	if len(returns) == 0 {
		return summary
	}
	summary.Mean, summary.StdDev = stat.MeanStdDev(returns, nil)
	if len(returns) == 1 {
		summary.StdDev = 0
	}
	return summary
}

// ReturnsSummaryComparator prints the summary of the last window returns of every experiment
func ReturnsSummaryComparator(out io.Writer, window int) Comparator {
	return func(run int, names []string, ds []DataSet) {
		for i, name := range names {
			s := SummarizeReturns(name, ds[i].([]float64), window)
			fmt.Fprintf(out, "Run %d, experiment: %s, last %d episodes, mean return: %.3f, std dev: %.3f\n",
				run, s.Experiment, s.Episodes, s.Mean, s.StdDev)
		}
	}
}
