// Package commands implements the CLI commands for forge.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/build"
	"go.trai.ch/forge/internal/core/domain"
)

// CLI represents the command line interface for forge.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	projectFile string
	board       string
	quiet       bool
	setLevel    func(domain.LogLevel)
}

// Option configures a CLI.
type Option func(*CLI)

// WithLogLevel lets --quiet lower the log verbosity through set.
func WithLogLevel(set func(domain.LogLevel)) Option {
	return func(c *CLI) {
		c.setLevel = set
	}
}

// Application represents the application logic interface.
type Application interface {
	Configure(ctx context.Context, opts app.ConfigureOptions) (*domain.Configuration, error)
	Build(ctx context.Context, targets []string, opts app.BuildOptions) error
	List(ctx context.Context, projectFile string) ([]string, error)
	Boards() []string
}

// ProjectLocator finds the project file when --config was not given.
type ProjectLocator func(name string) (string, error)

// New creates a new CLI instance with the given app.
func New(a Application, locate ProjectLocator, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "forge",
		Short:         "Configure and build firmware for a flight controller board",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.PersistentFlags().StringVarP(&c.projectFile, "config", "c", "",
		"Path to the project file (default: "+domain.ProjectFileName+" in this or a parent directory)")
	rootCmd.PersistentFlags().StringVarP(&c.board, "board", "b", "", "Board to configure or build (default: the project's board)")

	rootCmd.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "Only log warnings and errors")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if c.quiet && c.setLevel != nil {
			c.setLevel(domain.LogLevelWarn)
		}
		if c.projectFile != "" || locate == nil {
			return nil
		}
		// Commands that never read the project skip discovery.
		if cmd.Annotations[annotationNoProject] == "true" || cmd.Name() == "help" {
			return nil
		}
		path, err := locate(domain.ProjectFileName)
		if err != nil {
			return err
		}
		c.projectFile = path
		return nil
	}

	rootCmd.AddCommand(c.newConfigureCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newBoardsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

const annotationNoProject = "forge/no-project"

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
