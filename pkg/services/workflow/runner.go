package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/de-tools/quarterly-synth/pkg/document"
	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/de-tools/quarterly-synth/pkg/services/synth"
	"github.com/de-tools/quarterly-synth/pkg/services/variation"
	"github.com/de-tools/quarterly-synth/pkg/store"
	"github.com/de-tools/quarterly-synth/pkg/store/local"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrBaselineNotFound = errors.New("baseline not found")

type Runner struct {
	profile  domain.Profile
	calendar *domain.Calendar
	layout   Layout
	input    *local.Store
	sink     store.Sink
	config   RunnerConfig
}

type RunnerConfig struct {
	Seed uint64
}

type baselineDoc struct {
	path string
	unit string
	doc  *document.Object
}

func NewRunner(
	profile domain.Profile,
	calendar *domain.Calendar,
	layout Layout,
	input *local.Store,
	sink store.Sink,
	config RunnerConfig,
) *Runner {
	return &Runner{
		profile:  profile,
		calendar: calendar,
		layout:   layout,
		input:    input,
		sink:     sink,
		config:   config,
	}
}

// Run generates every target period for every baseline. Configuration and
// baseline problems are reported before anything is written.
func (r *Runner) Run(ctx context.Context) (*domain.RunSummary, error) {
	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().
		Str("run_id", runID).
		Str("profile", r.profile.Name).
		Logger()
	ctx = logger.WithContext(ctx)

	periods, err := r.calendar.TargetPeriods()
	if err != nil {
		return nil, fmt.Errorf("invalid target periods: %w", err)
	}

	generator, err := synth.NewGenerator(r.profile, r.calendar, variation.New(r.config.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	baselines, err := r.loadBaselines(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.RunSummary{
		RunID:    runID,
		Profile:  r.profile.Name,
		Baseline: r.calendar.Baseline,
		Seed:     r.config.Seed,
	}

	for _, period := range periods {
		logger.Info().Str("period", period.String()).Msg("generating period")

		for _, b := range baselines {
			doc, err := generator.Generate(ctx, b.doc, period.Label)
			if err != nil {
				return summary, fmt.Errorf("failed to generate %s for %s: %w", period, filepath.Base(b.path), err)
			}

			data, err := document.Marshal(doc)
			if err != nil {
				return summary, fmt.Errorf("failed to encode %s for %s: %w", period, filepath.Base(b.path), err)
			}

			name := r.layout.OutputName(b.path, r.calendar.Baseline, period.Label)
			if err := r.sink.Put(ctx, name, data); err != nil {
				return summary, err
			}

			summary.Files = append(summary.Files, domain.GeneratedFile{
				Period: period,
				Source: filepath.Base(b.path),
				Output: r.sink.Location(name),
				Unit:   b.unit,
			})
			logger.Info().
				Str("unit", b.unit).
				Str("period", period.String()).
				Str("output", r.sink.Location(name)).
				Msg("created")
		}
	}

	return summary, nil
}

func (r *Runner) loadBaselines(ctx context.Context) ([]baselineDoc, error) {
	logger := zerolog.Ctx(ctx)

	paths, err := r.layout.Baselines(r.input, r.calendar.Baseline)
	if err != nil {
		return nil, err
	}

	out := make([]baselineDoc, 0, len(paths))
	for _, p := range paths {
		doc, err := local.Load(p)
		if err != nil {
			return nil, fmt.Errorf("failed to load baseline: %w", err)
		}
		out = append(out, baselineDoc{path: p, unit: r.layout.Unit(p, doc), doc: doc})
	}

	logger.Info().Int("baselines", len(out)).Str("dir", r.input.Dir()).Msg("loaded baseline data")
	return out, nil
}
