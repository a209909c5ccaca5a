package policies

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/zeu5/qlearning-rl/types"
)

// Variant selects the value function of the agent
type Variant string

const (
	VariantTabular Variant = "tabular"
	VariantLinear  Variant = "linear"
)

// Config of a QAgent
type Config struct {
	Variant Variant
	// Features used by the linear variant, identity features when nil
	Extractor types.FeatureExtractor

	Epsilon  float64 // exploration probability
	Alpha    float64 // learning rate
	Discount float64 // discount factor

	// number of episodes the agent trains for before switching to evaluation
	TrainingEpisodes int
	// seed of the exploration random source
	Seed uint64

	// initial weights of the linear variant
	Store types.WeightStore
	// called once with a snapshot of the learned values when training ends
	OnTrainingComplete func(map[string]float64)
	// notices are printed here, os.Stdout when nil
	Output io.Writer
}

func DefaultConfig() Config {
	return Config{
		Variant:          VariantTabular,
		Epsilon:          0.05,
		Alpha:            0.2,
		Discount:         0.8,
		TrainingEpisodes: 0,
	}
}

// Validate returns an error wrapping types.ErrInvalidHyperparameter for out of range values
func (c Config) Validate() error {
	if err := checkProbability("epsilon", c.Epsilon); err != nil {
		return err
	}
	if math.IsNaN(c.Alpha) || c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha %v not in (0, 1]: %w", c.Alpha, types.ErrInvalidHyperparameter)
	}
	if err := checkProbability("discount", c.Discount); err != nil {
		return err
	}
	if c.TrainingEpisodes < 0 {
		return fmt.Errorf("training episodes %d is negative: %w", c.TrainingEpisodes, types.ErrInvalidHyperparameter)
	}
	switch c.Variant {
	case VariantTabular, VariantLinear:
	default:
		return fmt.Errorf("unknown variant %q: %w", c.Variant, types.ErrInvalidHyperparameter)
	}
	return nil
}

func (c Config) output() io.Writer {
	if c.Output == nil {
		return os.Stdout
	}
	return c.Output
}
