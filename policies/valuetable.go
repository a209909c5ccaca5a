package policies

import "github.com/zeu5/qlearning-rl/types"

// ValueTable is a sparse (state, action) -> value map
// Unseen entries read as 0 and are only created by Set
type ValueTable struct {
	table map[string]map[string]float64
	size  int
}

func NewValueTable() *ValueTable {
	return &ValueTable{
		table: make(map[string]map[string]float64),
	}
}

func (q *ValueTable) Get(state, action string) float64 {
	actions, ok := q.table[state]
	if !ok {
		return 0
	}
	return actions[action]
}

func (q *ValueTable) Has(state, action string) bool {
	actions, ok := q.table[state]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

func (q *ValueTable) Set(state, action string, val float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	if _, ok := q.table[state][action]; !ok {
		q.size += 1
	}
	q.table[state][action] = val
}

// Len returns the number of entries written so far
func (q *ValueTable) Len() int {
	return q.size
}

// Snapshot copies the table keyed by types.StateActionKey
func (q *ValueTable) Snapshot() map[string]float64 {
	out := make(map[string]float64, q.size)
	for state, actions := range q.table {
		for action, val := range actions {
			out[types.StateActionKey(state, action)] = val
		}
	}
	return out
}
