package policies

import "github.com/zeu5/qlearning-rl/types"

// Tabular stores one estimate per (state, action) pair
type Tabular struct {
	qTable *ValueTable
}

var _ QFunction = &Tabular{}

func NewTabular() *Tabular {
	return &Tabular{
		qTable: NewValueTable(),
	}
}

func (t *Tabular) Value(state types.State, action types.Action) float64 {
	return t.qTable.Get(state.Hash(), action.Hash())
}

// Update moves Q(s,a) towards r + discount * max_a' Q(s',a')
func (t *Tabular) Update(tr types.Transition, alpha, discount float64) {
	stateHash := tr.State.Hash()
	actionHash := tr.Action.Hash()

	nextVal := nextStateValue(t, tr.NextState)
	curVal := t.qTable.Get(stateHash, actionHash)
	t.qTable.Set(stateHash, actionHash, (1-alpha)*curVal+alpha*(tr.Reward+discount*nextVal))
}

func (t *Tabular) Table() *ValueTable {
	return t.qTable
}

func (t *Tabular) Snapshot() map[string]float64 {
	return t.qTable.Snapshot()
}
