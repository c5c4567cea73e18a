package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the named targets, or every target",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			noCache, _ := cmd.Flags().GetBool("no-cache")

			return c.app.Build(cmd.Context(), args, app.BuildOptions{
				ProjectFile: c.projectFile,
				Board:       c.board,
				Jobs:        jobs,
				NoCache:     noCache,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of tasks to run in parallel (default: number of CPUs)")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache and force execution")
	return cmd
}
