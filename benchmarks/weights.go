package benchmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func WeightsCommand() *cobra.Command {
	var store string
	var redisAddr string
	var top int

	cmd := &cobra.Command{
		Use:   "weights [name]",
		Short: "Print the stored learned values of an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := newWeightStore(store, redisAddr, args[0])
			if err != nil {
				return err
			}
			defer release()
			if s == nil {
				return fmt.Errorf("a store is required, use file or redis")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			weights, err := s.LoadWeights(ctx)
			if err != nil {
				return err
			}
			printTopWeights(args[0], weights, top)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&store, "store", "file", "Where the learned values are stored (file, redis)")
	cmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "127.0.0.1:6379", "Address of the redis server used by the redis store")
	cmd.PersistentFlags().IntVar(&top, "top", 0, "Number of values printed, all of them when 0")
	return cmd
}
