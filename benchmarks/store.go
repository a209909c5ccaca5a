package benchmarks

import (
	"fmt"
	"path"

	"github.com/zeu5/qlearning-rl/storage"
	"github.com/zeu5/qlearning-rl/types"
)

// newWeightStore returns the store of the named agent and a function to release it
func newWeightStore(kind, redisAddr, name string) (types.WeightStore, func(), error) {
	switch kind {
	case "", "none":
		return nil, func() {}, nil
	case "file":
		return storage.NewFileStore(path.Join(saveFile, "weights", name+".json")), func() {}, nil
	case "redis":
		store := storage.NewRedisStore(redisAddr, "qlearning:weights:"+name)
		return store, func() { store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q, expected file, redis or none", kind)
}
