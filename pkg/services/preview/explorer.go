package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/quarterly-synth/pkg/document"
	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/de-tools/quarterly-synth/pkg/services/synth"
	"github.com/de-tools/quarterly-synth/pkg/services/variation"
	"github.com/de-tools/quarterly-synth/pkg/services/workflow"
	"github.com/de-tools/quarterly-synth/pkg/store/local"
)

var ErrUnitNotFound = errors.New("business unit not found")

// Explorer synthesizes single dashboard documents on request.
type Explorer interface {
	Calendar() *domain.Calendar
	ListBusinessUnits(ctx context.Context) ([]string, error)
	GetEnterprise(ctx context.Context, period string) (*document.Object, error)
	GetBusinessUnit(ctx context.Context, unit, period string) (*document.Object, error)
}

type Settings struct {
	Calendar        *domain.Calendar
	Enterprise      domain.Profile
	BusinessUnit    domain.Profile
	EnterpriseDir   *local.Store
	BusinessUnitDir *local.Store
	Seed            uint64
}

type explorer struct {
	settings Settings
}

func NewExplorer(settings Settings) (Explorer, error) {
	if settings.Calendar == nil {
		return nil, fmt.Errorf("calendar is required")
	}
	if settings.EnterpriseDir == nil || settings.BusinessUnitDir == nil {
		return nil, fmt.Errorf("baseline directories are required")
	}
	return &explorer{settings: settings}, nil
}

func (e *explorer) Calendar() *domain.Calendar {
	return e.settings.Calendar
}

func (e *explorer) ListBusinessUnits(_ context.Context) ([]string, error) {
	baseline := e.settings.Calendar.Baseline
	files, err := workflow.BusinessUnitLayout{}.Baselines(e.settings.BusinessUnitDir, baseline)
	if errors.Is(err, workflow.ErrBaselineNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	units := make([]string, 0, len(files))
	for _, f := range files {
		units = append(units, workflow.UnitID(f, baseline))
	}
	return units, nil
}

func (e *explorer) GetEnterprise(ctx context.Context, period string) (*document.Object, error) {
	files, err := workflow.EnterpriseLayout{}.Baselines(e.settings.EnterpriseDir, e.settings.Calendar.Baseline)
	if err != nil {
		return nil, err
	}
	return e.generate(ctx, e.settings.Enterprise, files[0], period)
}

func (e *explorer) GetBusinessUnit(ctx context.Context, unit, period string) (*document.Object, error) {
	if unit == "" || strings.ContainsAny(unit, `/\`) || strings.Contains(unit, "..") {
		return nil, fmt.Errorf("%w: %q", ErrUnitNotFound, unit)
	}

	name := unit + "-" + e.settings.Calendar.Baseline + ".json"
	ok, err := e.settings.BusinessUnitDir.Exists(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnitNotFound, unit)
	}
	return e.generate(ctx, e.settings.BusinessUnit, e.settings.BusinessUnitDir.Location(name), period)
}

// generate serves the baseline as-is for the baseline period and a freshly
// seeded variation otherwise, so repeated requests return the same document.
func (e *explorer) generate(ctx context.Context, profile domain.Profile, path, period string) (*document.Object, error) {
	cal := e.settings.Calendar
	p, err := cal.Lookup(period)
	if err != nil {
		return nil, err
	}

	baseline, err := local.Load(path)
	if err != nil {
		return nil, err
	}
	if p.Label == cal.Baseline {
		return baseline, nil
	}

	g, err := synth.NewGenerator(profile, cal, variation.New(e.settings.Seed))
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, baseline, p.Label)
}
