package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the targets declared by the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := c.app.List(cmd.Context(), c.projectFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				_, _ = fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func (c *CLI) newBoardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "boards",
		Short:       "List the supported boards",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoProject: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, name := range c.app.Boards() {
				_, _ = fmt.Fprintln(out, name)
			}
		},
	}
}
