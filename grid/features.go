package grid

import "github.com/zeu5/qlearning-rl/types"

// Feature names of the gridworld extractor
const (
	FeatureBias         = "bias"
	FeatureGoalDistance = "goal-distance"
	FeatureNextToPit    = "next-to-pit"
	FeatureBlocked      = "blocked"
)

// Extractor describes the cell an action intends to reach
// Distances are scaled by the size of the grid so that weights stay small
func (e *Environment) Extractor() types.FeatureExtractor {
	scale := float64(e.Height + e.Width)
	return types.FeatureExtractorFunc(func(s types.State, a types.Action) types.Features {
		features := types.Features{FeatureBias: 1.0}
		pos, ok := s.(*Position)
		if !ok {
			return features
		}
		movement, ok := a.(*Movement)
		if !ok {
			return features
		}

		i, j := e.move(pos.I, pos.J, movement)
		if i == pos.I && j == pos.J {
			features[FeatureBlocked] = 1.0
		}
		features[FeatureGoalDistance] = float64(e.goalDistance(i, j)) / scale
		if e.nextToPit(i, j) {
			features[FeatureNextToPit] = 1.0
		}
		return features
	})
}

// manhattan distance to the closest goal
func (e *Environment) goalDistance(i, j int) int {
	best := -1
	for _, g := range e.goals {
		d := abs(g.I-i) + abs(g.J-j)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// true if the cell or one of its neighbours is a pit
func (e *Environment) nextToPit(i, j int) bool {
	if e.cell(i, j) == Pit {
		return true
	}
	for _, m := range AllMovements {
		ni, nj := i+m.(*Movement).DI, j+m.(*Movement).DJ
		if ni < 0 || ni >= e.Height || nj < 0 || nj >= e.Width {
			continue
		}
		if e.cell(ni, nj) == Pit {
			return true
		}
	}
	return false
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
