package types_test

import (
	"errors"
	"strconv"

	"github.com/zeu5/qlearning-rl/types"
)

type chainAction string

func (a chainAction) Hash() string {
	return string(a)
}

var (
	forward = chainAction("forward")
	stay    = chainAction("stay")
)

type chainState struct {
	pos, length int
}

func (s *chainState) Hash() string {
	return strconv.Itoa(s.pos)
}

func (s *chainState) Actions() []types.Action {
	if s.pos >= s.length {
		return nil
	}
	return []types.Action{stay, forward}
}

// chainEnv rewards reaching the last cell of a line of cells
type chainEnv struct {
	length  int
	pos     int
	failAt  int
	resets  int
	panicAt int
}

func newChainEnv(length int) *chainEnv {
	return &chainEnv{length: length, failAt: -1, panicAt: -1}
}

func (c *chainEnv) Reset() (types.State, error) {
	c.pos = 0
	c.resets += 1
	return &chainState{pos: 0, length: c.length}, nil
}

func (c *chainEnv) Step(a types.Action) (types.State, float64, error) {
	if c.pos == c.failAt {
		return nil, 0, errors.New("step failed")
	}
	if c.pos == c.panicAt {
		panic("environment crashed")
	}
	if a.Hash() == forward.Hash() {
		c.pos += 1
	}
	reward := 0.0
	if c.pos == c.length {
		reward = 1
	}
	return &chainState{pos: c.pos, length: c.length}, reward, nil
}
