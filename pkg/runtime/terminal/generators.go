package terminal

import (
	"context"

	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/de-tools/quarterly-synth/pkg/services/config"
	"github.com/de-tools/quarterly-synth/pkg/services/rules"
	"github.com/de-tools/quarterly-synth/pkg/services/workflow"
	"github.com/de-tools/quarterly-synth/pkg/store"
	"github.com/de-tools/quarterly-synth/pkg/store/local"
	s3store "github.com/de-tools/quarterly-synth/pkg/store/s3"
)

const businessUnitPrefix = "business-units"

// NewRegistry registers the enterprise and business-unit generators. Rule
// tables are resolved eagerly so a bad override fails before any run starts.
func NewRegistry(settings *config.Settings, calendar *domain.Calendar) (workflow.Registry, error) {
	enterprise, err := rules.Resolve(settings.EnterpriseRules, rules.Enterprise)
	if err != nil {
		return nil, err
	}
	businessUnit, err := rules.Resolve(settings.BusinessUnitRules, rules.BusinessUnit)
	if err != nil {
		return nil, err
	}

	registry := workflow.NewRegistry()
	runnerConfig := workflow.RunnerConfig{Seed: settings.Seed}

	err = registry.Register(rules.Enterprise, func(ctx context.Context) (*workflow.Runner, error) {
		input, err := local.NewStore(settings.DataDir)
		if err != nil {
			return nil, err
		}
		sink, err := newSink(ctx, settings, settings.EnterpriseOutputDir(), "")
		if err != nil {
			return nil, err
		}
		return workflow.NewRunner(enterprise, calendar, workflow.EnterpriseLayout{}, input, sink, runnerConfig), nil
	})
	if err != nil {
		return nil, err
	}

	err = registry.Register(rules.BusinessUnit, func(ctx context.Context) (*workflow.Runner, error) {
		input, err := local.NewStore(settings.BusinessUnitDir)
		if err != nil {
			return nil, err
		}
		sink, err := newSink(ctx, settings, settings.BusinessUnitOutputDir(), businessUnitPrefix)
		if err != nil {
			return nil, err
		}
		return workflow.NewRunner(businessUnit, calendar, workflow.BusinessUnitLayout{}, input, sink, runnerConfig), nil
	})
	if err != nil {
		return nil, err
	}

	return registry, nil
}

func newSink(ctx context.Context, settings *config.Settings, dir, sub string) (store.Sink, error) {
	if settings.S3.Bucket == "" {
		s, err := local.NewStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := s3store.NewFromEnvironment(ctx, settings.S3.Bucket, settings.S3.Prefix, settings.S3.Region)
	if err != nil {
		return nil, err
	}
	if sub != "" {
		s = s.WithPrefix(sub)
	}
	return s, nil
}
