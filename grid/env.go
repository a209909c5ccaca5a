package grid

import (
	"errors"
	"fmt"

	"github.com/zeu5/qlearning-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

var (
	ErrInvalidLayout = errors.New("invalid layout")
	ErrEpisodeEnded  = errors.New("episode ended")
)

// Layout symbols
const (
	Empty = '.'
	Wall  = '#'
	Start = 'S'
	Goal  = 'G'
	Pit   = 'P'
)

var DefaultLayout = []string{
	"...G",
	".#.P",
	"S...",
}

type Config struct {
	// rows from top to bottom
	Layout []string

	LivingReward float64 // reward of every move that does not end the episode
	GoalReward   float64
	PitReward    float64

	// probability of moving perpendicular to the intended direction, split evenly between the two sides
	Noise float64
	Seed  uint64
}

func DefaultConfig() Config {
	return Config{
		Layout:       DefaultLayout,
		LivingReward: -0.04,
		GoalReward:   1,
		PitReward:    -1,
		Noise:        0.2,
	}
}

// Environment is a gridworld where the episode ends on a goal or a pit
// Moving into a wall or off the grid leaves the agent in place
type Environment struct {
	Height int
	Width  int
	CurPos *Position

	config Config
	cells  [][]byte
	start  Position
	goals  []Position
	rand   rand.Source
}

var _ types.Environment = &Environment{}

func NewEnvironment(config Config) (*Environment, error) {
	if config.Noise < 0 || config.Noise > 1 {
		return nil, fmt.Errorf("noise %v not in [0, 1]: %w", config.Noise, ErrInvalidLayout)
	}
	if len(config.Layout) == 0 {
		return nil, fmt.Errorf("empty layout: %w", ErrInvalidLayout)
	}
	e := &Environment{
		Height: len(config.Layout),
		Width:  len(config.Layout[0]),
		config: config,
		cells:  make([][]byte, len(config.Layout)),
		goals:  make([]Position, 0),
		rand:   rand.NewSource(config.Seed),
	}
	starts := 0
	for i, row := range config.Layout {
		if len(row) != e.Width {
			return nil, fmt.Errorf("row %d has %d cells, expected %d: %w", i, len(row), e.Width, ErrInvalidLayout)
		}
		e.cells[i] = []byte(row)
		for j := 0; j < len(row); j++ {
			switch row[j] {
			case Start:
				starts += 1
				e.start = Position{I: i, J: j}
			case Goal:
				e.goals = append(e.goals, Position{I: i, J: j})
			case Empty, Wall, Pit:
			default:
				return nil, fmt.Errorf("unknown cell %q at (%d, %d): %w", row[j], i, j, ErrInvalidLayout)
			}
		}
	}
	if starts != 1 {
		return nil, fmt.Errorf("expected one start cell, found %d: %w", starts, ErrInvalidLayout)
	}
	if len(e.goals) == 0 {
		return nil, fmt.Errorf("no goal cell: %w", ErrInvalidLayout)
	}
	return e, nil
}

func (e *Environment) cell(i, j int) byte {
	return e.cells[i][j]
}

func (e *Environment) position(i, j int) *Position {
	c := e.cell(i, j)
	return &Position{I: i, J: j, terminal: c == Goal || c == Pit}
}

func (e *Environment) Reset() (types.State, error) {
	e.CurPos = e.position(e.start.I, e.start.J)
	return e.CurPos, nil
}

// move returns where the movement leads from (i, j)
func (e *Environment) move(i, j int, m *Movement) (int, int) {
	ni, nj := i+m.DI, j+m.DJ
	if ni < 0 || ni >= e.Height || nj < 0 || nj >= e.Width || e.cell(ni, nj) == Wall {
		return i, j
	}
	return ni, nj
}

// sample the direction actually taken for the intended movement
func (e *Environment) sample(m *Movement) *Movement {
	if e.config.Noise == 0 {
		return m
	}
	directions := []*Movement{m, m.left(), m.right()}
	weights := []float64{1 - e.config.Noise, e.config.Noise / 2, e.config.Noise / 2}
	i, ok := sampleuv.NewWeighted(weights, e.rand).Take()
	if !ok {
		return m
	}
	return directions[i]
}

func (e *Environment) Step(a types.Action) (types.State, float64, error) {
	if e.CurPos == nil || e.CurPos.terminal {
		return nil, 0, ErrEpisodeEnded
	}
	movement, ok := a.(*Movement)
	if !ok {
		return nil, 0, fmt.Errorf("unknown action %v", a)
	}

	i, j := e.move(e.CurPos.I, e.CurPos.J, e.sample(movement))
	e.CurPos = e.position(i, j)

	reward := e.config.LivingReward
	switch e.cell(i, j) {
	case Goal:
		reward = e.config.GoalReward
	case Pit:
		reward = e.config.PitReward
	}
	return e.CurPos, reward, nil
}

type Position struct {
	I int
	J int

	terminal bool
}

var _ types.State = &Position{}

func (p *Position) Hash() string {
	return fmt.Sprintf("(%d, %d)", p.I, p.J)
}

func (p *Position) Eq(other Position) bool {
	return p.I == other.I && p.J == other.J
}

func (p *Position) Terminal() bool {
	return p.terminal
}

// Actions is empty on goal and pit cells
func (p *Position) Actions() []types.Action {
	if p.terminal {
		return nil
	}
	return AllMovements
}

type Movement struct {
	Direction string
	DI        int
	DJ        int
}

var _ types.Action = &Movement{}

func (m *Movement) Hash() string {
	return m.Direction
}

func (m *Movement) left() *Movement {
	switch m {
	case MovementNorth:
		return MovementWest
	case MovementSouth:
		return MovementEast
	case MovementEast:
		return MovementNorth
	}
	return MovementSouth
}

func (m *Movement) right() *Movement {
	switch m {
	case MovementNorth:
		return MovementEast
	case MovementSouth:
		return MovementWest
	case MovementEast:
		return MovementSouth
	}
	return MovementNorth
}

var (
	MovementNorth                = &Movement{"North", -1, 0}
	MovementSouth                = &Movement{"South", 1, 0}
	MovementEast                 = &Movement{"East", 0, 1}
	MovementWest                 = &Movement{"West", 0, -1}
	AllMovements  []types.Action = []types.Action{
		MovementNorth,
		MovementSouth,
		MovementEast,
		MovementWest,
	}
)
