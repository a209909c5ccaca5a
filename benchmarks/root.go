package benchmarks

import "github.com/spf13/cobra"

var (
	episodes   int
	horizon    int
	saveFile   string
	runs       int
	cpuprofile string
	memprofile string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "qlearning",
		Short: "Q-learning agents on episodic environments",
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 1000, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 100, "Horizon of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a cpu profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a memory profile to this file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(GridCommand())
	rootCommand.AddCommand(WeightsCommand())
	return rootCommand
}
