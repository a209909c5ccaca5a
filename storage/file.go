package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/zeu5/qlearning-rl/types"
	"github.com/zeu5/qlearning-rl/util"
)

// FileStore keeps the weights as a JSON object in a single file
type FileStore struct {
	path string
}

var _ types.WeightStore = &FileStore{}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

// LoadWeights wraps types.ErrMissingPersistedState when the file is absent or cannot be decoded
func (f *FileStore) LoadWeights(_ context.Context) (map[string]float64, error) {
	bs, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", f.path, types.ErrMissingPersistedState)
		}
		return nil, fmt.Errorf("reading %s: %s: %w", f.path, err, types.ErrMissingPersistedState)
	}
	weights := make(map[string]float64)
	if err := json.Unmarshal(bs, &weights); err != nil {
		return nil, fmt.Errorf("decoding %s: %s: %w", f.path, err, types.ErrMissingPersistedState)
	}
	return weights, nil
}

func (f *FileStore) SaveWeights(_ context.Context, weights map[string]float64) error {
	bs, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("encoding weights: %w", err)
	}
	return util.WriteToFile(f.path, string(bs))
}
