package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/engine/composer"
	"go.trai.ch/zerr"
)

func (c *CLI) newConfigureCmd() *cobra.Command {
	var (
		cflags    []string
		cxxflags  []string
		linkflags []string
		defines   []string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Compose the board environment and locate its toolchain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pairs, err := parseDefines(defines)
			if err != nil {
				return err
			}

			cfg, err := c.app.Configure(cmd.Context(), app.ConfigureOptions{
				ProjectFile: c.projectFile,
				Board:       c.board,
				Overrides: composer.Overrides{
					CFlags:    cflags,
					CXXFlags:  cxxflags,
					LinkFlags: linkflags,
					Defines:   pairs,
				},
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configured board %s\n", cfg.Board)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&cflags, "cflags", nil, "Extra C compiler flag, placed before the board's (repeatable)")
	cmd.Flags().StringArrayVar(&cxxflags, "cxxflags", nil, "Extra C++ compiler flag, placed before the board's (repeatable)")
	cmd.Flags().StringArrayVar(&linkflags, "linkflags", nil, "Extra linker flag, placed before the board's (repeatable)")
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "Extra definition NAME or NAME=VALUE (repeatable)")
	return cmd
}

func parseDefines(values []string) ([]domain.DefinePair, error) {
	pairs := make([]domain.DefinePair, 0, len(values))
	for _, v := range values {
		name, value, _ := strings.Cut(v, "=")
		if name == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "definition has no name"), "define", v)
		}
		pairs = append(pairs, domain.DefinePair{Name: name, Value: value})
	}
	return pairs, nil
}
