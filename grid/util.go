package grid

import (
	"encoding/json"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/qlearning-rl/types"
	"github.com/zeu5/qlearning-rl/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// GridDataSet counts the visits of every cell
type GridDataSet struct {
	Visits map[int]map[int]int
	Height int
	Width  int
}

var _ plotter.GridXYZ = &GridDataSet{}

// row 0 of the layout is drawn at the top
func (g *GridDataSet) Dims() (int, int) {
	return g.Width, g.Height
}

func (g *GridDataSet) Z(j, r int) float64 {
	return float64(g.Visits[g.Height-1-r][j])
}

func (g *GridDataSet) X(j int) float64 {
	return float64(j)
}

func (g *GridDataSet) Y(r int) float64 {
	return float64(r)
}

func (g *GridDataSet) Min() float64 {
	return 0.0
}

func (g *GridDataSet) Max() float64 {
	max := 0
	for _, vals := range g.Visits {
		for _, count := range vals {
			if count > max {
				max = count
			}
		}
	}
	return float64(max)
}

func (g *GridDataSet) visit(p *Position) {
	if _, ok := g.Visits[p.I]; !ok {
		g.Visits[p.I] = make(map[int]int)
	}
	g.Visits[p.I][p.J] += 1
}

func MergeGridDatasets(dataSets []types.DataSet) types.DataSet {
	newDataset := &GridDataSet{
		Visits: make(map[int]map[int]int),
		Height: 0,
		Width:  0,
	}
	for _, d := range dataSets {
		dGrid := d.(*GridDataSet)
		if dGrid.Height > newDataset.Height {
			newDataset.Height = dGrid.Height
		}
		if dGrid.Width > newDataset.Width {
			newDataset.Width = dGrid.Width
		}
		for i, vals := range dGrid.Visits {
			if _, ok := newDataset.Visits[i]; !ok {
				newDataset.Visits[i] = make(map[int]int)
			}
			for j, visits := range vals {
				newDataset.Visits[i][j] += visits
			}
		}
	}
	return newDataset
}

// VisitsAnalyzer counts the cells visited by the episodes, final cells included
type VisitsAnalyzer struct {
	dataSet *GridDataSet
}

var _ types.Analyzer = &VisitsAnalyzer{}

func NewVisitsAnalyzer(height, width int) types.AnalyzerConstructor {
	return func() types.Analyzer {
		return &VisitsAnalyzer{
			dataSet: &GridDataSet{
				Visits: make(map[int]map[int]int),
				Height: height,
				Width:  width,
			},
		}
	}
}

func (v *VisitsAnalyzer) Analyze(_ int, _ string, eCtx *types.EpisodeContext) {
	trace := eCtx.Trace
	for i := 0; i < trace.Len(); i++ {
		state, _, _, _, _ := trace.Get(i)
		if pos, ok := state.(*Position); ok {
			v.dataSet.visit(pos)
		}
	}
	if _, _, last, _, ok := trace.Last(); ok {
		if pos, ok := last.(*Position); ok {
			v.dataSet.visit(pos)
		}
	}
}

func (v *VisitsAnalyzer) DataSet() types.DataSet {
	return v.dataSet
}

// VisitsHeatMap draws the visits of every experiment and stores the counts as JSON
func VisitsHeatMap(figPath string) types.Comparator {
	if _, err := os.Stat(figPath); err != nil {
		os.MkdirAll(figPath, os.ModePerm)
	}
	return func(run int, s []string, ds []types.DataSet) {
		for i := 0; i < len(s); i++ {
			name := s[i]
			dataSet := ds[i].(*GridDataSet)
			prefix := path.Join(figPath, strconv.Itoa(run)+"_"+name+"_visits")

			bs, _ := json.Marshal(dataSet)
			util.WriteToFile(prefix+".json", string(bs))

			if dataSet.Max() == 0 {
				continue
			}
			p := plot.New()
			p.Title.Text = name
			p.Add(plotter.NewHeatMap(dataSet, palette.Heat(20, 1)))
			p.Save(4*vg.Inch, 4*vg.Inch, prefix+".png")
		}
	}
}
