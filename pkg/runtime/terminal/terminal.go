package terminal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/de-tools/quarterly-synth/pkg/runtime/terminal/commands"
	"github.com/de-tools/quarterly-synth/pkg/runtime/terminal/export"
	"github.com/de-tools/quarterly-synth/pkg/services/config"
	"github.com/de-tools/quarterly-synth/pkg/services/rules"
	"github.com/de-tools/quarterly-synth/pkg/services/workflow"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reporter   *export.Reporter
	rootCmd    *cobra.Command
	logs       io.Writer
	configPath string

	registry workflow.Registry
	calendar *domain.Calendar
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Logs   io.Writer
	// Registry replaces the generators built from settings.
	Registry workflow.Registry
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
		logs:     opts.Logs,
		registry: opts.Registry,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) Registry() workflow.Registry {
	return cli.registry
}

func (cli *CLI) Calendar() *domain.Calendar {
	return cli.calendar
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "quarterly-synth",
		Short:             "Synthesize quarterly dashboard data from a baseline period",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML config file")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(commands.NewGenerateCmd("enterprise", "Generate enterprise dashboard snapshots",
		cli, cli.reporter, rules.Enterprise))
	cmd.AddCommand(commands.NewGenerateCmd("business-units", "Generate business-unit dashboard snapshots",
		cli, cli.reporter, rules.BusinessUnit))
	cmd.AddCommand(commands.NewGenerateCmd("all", "Generate enterprise and business-unit snapshots",
		cli, cli.reporter, rules.Enterprise, rules.BusinessUnit))
	cmd.AddCommand(commands.NewPeriodsCmd(cli, cli.reporter))

	return cmd
}

// setup resolves settings, the calendar and the logger before any command
// touches baseline data.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(cli.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := NewLogger(cli.logs, settings.LogLevel)
	if err != nil {
		return err
	}
	cmd.SetContext(logger.WithContext(cmd.Context()))

	cli.calendar, err = settings.Calendar()
	if err != nil {
		return fmt.Errorf("invalid period calendar: %w", err)
	}

	if cli.registry == nil {
		cli.registry, err = NewRegistry(settings, cli.calendar)
		if err != nil {
			return err
		}
	}
	return nil
}

// NewLogger writes human-readable logs at the configured level.
func NewLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: w != os.Stderr}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
