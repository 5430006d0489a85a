package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/quarterly-synth/pkg/server"
	"github.com/de-tools/quarterly-synth/pkg/services/config"
	"github.com/de-tools/quarterly-synth/pkg/services/preview"
	"github.com/de-tools/quarterly-synth/pkg/services/rules"
	"github.com/de-tools/quarterly-synth/pkg/store/local"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:          "web",
		Short:        "Serve synthesized dashboard snapshots over HTTP",
		SilenceUsage: true,
		RunE:         runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML config file")
	config.RegisterFlags(rootCmd.Flags())
	config.RegisterServerFlags(rootCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(cfgPath, cmd.Flags())
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	calendar, err := settings.Calendar()
	if err != nil {
		return fmt.Errorf("invalid period calendar: %w", err)
	}

	enterprise, err := rules.Resolve(settings.EnterpriseRules, rules.Enterprise)
	if err != nil {
		return err
	}
	businessUnit, err := rules.Resolve(settings.BusinessUnitRules, rules.BusinessUnit)
	if err != nil {
		return err
	}

	enterpriseDir, err := local.NewStore(settings.DataDir)
	if err != nil {
		return err
	}
	businessUnitDir, err := local.NewStore(settings.BusinessUnitDir)
	if err != nil {
		return err
	}

	explorer, err := preview.NewExplorer(preview.Settings{
		Calendar:        calendar,
		Enterprise:      enterprise,
		BusinessUnit:    businessUnit,
		EnterpriseDir:   enterpriseDir,
		BusinessUnitDir: businessUnitDir,
		Seed:            settings.Seed,
	})
	if err != nil {
		return fmt.Errorf("failed to create explorer: %w", err)
	}

	logger.Info().
		Str("data_dir", settings.DataDir).
		Str("baseline", calendar.Baseline).
		Uint64("seed", settings.Seed).
		Msg("serving synthesized snapshots")

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(settings.Server.Host, settings.Server.Port),
		Dependencies: server.Dependencies{
			Explorer: explorer,
			Logger:   logger,
		},
	})

	return api.Start()
}
