package types_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/zeu5/qlearning-rl/types"
)

func TestMovingAverage(t *testing.T) {
	avg := types.MovingAverage([]float64{1, 3, 5, 7}, 2)
	expected := []float64{1, 2, 4, 6}
	for i := range expected {
		if math.Abs(avg[i]-expected[i]) > 1e-9 {
			t.Errorf("position %d: expected %f, got %f", i, expected[i], avg[i])
		}
	}
}

func TestSummarizeReturns(t *testing.T) {
	s := types.SummarizeReturns("tabular", []float64{100, 1, 3}, 2)
	if s.Episodes != 2 || s.Mean != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.StdDev-math.Sqrt2) > 1e-9 {
		t.Errorf("expected std dev sqrt(2), got %f", s.StdDev)
	}
	if empty := types.SummarizeReturns("empty", nil, 5); empty.Episodes != 0 || empty.Mean != 0 {
		t.Errorf("unexpected empty summary %+v", empty)
	}

	out := &bytes.Buffer{}
	types.ReturnsSummaryComparator(out, 0)(0, []string{"tabular"}, []types.DataSet{[]float64{1, 1}})
	if !strings.Contains(out.String(), "experiment: tabular") {
		t.Errorf("unexpected summary output %q", out.String())
	}
}

func TestTraceJSON(t *testing.T) {
	trace := types.NewTrace()
	trace.Append(&chainState{pos: 0, length: 1}, forward, &chainState{pos: 1, length: 1}, 1)
	bs, err := trace.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := `[{"state":"0","action":"forward","next_state":"1","reward":1}]`
	if string(bs) != expected {
		t.Errorf("expected %s, got %s", expected, string(bs))
	}
	if _, _, _, _, ok := trace.Get(1); ok {
		t.Errorf("out of range step should not be found")
	}
}
