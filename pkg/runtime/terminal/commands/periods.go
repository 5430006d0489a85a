package commands

import (
	"github.com/de-tools/quarterly-synth/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

func NewPeriodsCmd(session Session, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "List the period calendar and the periods that will be generated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reporter.Periods(session.Calendar())
		},
	}
}
