package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/de-tools/quarterly-synth/pkg/runtime/terminal/export"
	"github.com/de-tools/quarterly-synth/pkg/services/workflow"
	"github.com/spf13/cobra"
)

// Session exposes what the root command resolved from settings.
type Session interface {
	Registry() workflow.Registry
	Calendar() *domain.Calendar
}

type GenerateCmd struct {
	generators []string
	session    Session
	reporter   *export.Reporter
}

// NewGenerateCmd runs the named generators in order. Every generator runs
// even if an earlier one fails; the failures are returned together.
func NewGenerateCmd(use, short string, session Session, reporter *export.Reporter, generators ...string) *cobra.Command {
	gc := &GenerateCmd{generators: generators, session: session, reporter: reporter}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE:  gc.run,
	}
}

func (gc *GenerateCmd) run(cmd *cobra.Command, _ []string) error {
	var errs []error
	for _, name := range gc.generators {
		if err := gc.generate(cmd.Context(), name); err != nil {
			errs = append(errs, fmt.Errorf("%s generator: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (gc *GenerateCmd) generate(ctx context.Context, name string) error {
	runner, err := gc.session.Registry().Create(ctx, name)
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	return gc.reporter.Summary(summary)
}
