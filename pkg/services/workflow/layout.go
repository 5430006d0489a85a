package workflow

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/de-tools/quarterly-synth/pkg/document"
	"github.com/de-tools/quarterly-synth/pkg/store/local"
)

// Layout describes where a generator finds its baselines and how it names
// the snapshots it produces.
type Layout interface {
	// Baselines returns the baseline files for the baseline period label.
	Baselines(input *local.Store, baseline string) ([]string, error)
	// OutputName derives the snapshot file name for a baseline file and period.
	OutputName(source, baseline, period string) string
	// Unit names the entity a baseline describes.
	Unit(source string, doc *document.Object) string
}

const enterprisePrefix = "enterprise-dashboard-"

// EnterpriseLayout reads a single enterprise-dashboard-<period>.json file.
type EnterpriseLayout struct{}

func (EnterpriseLayout) Baselines(input *local.Store, baseline string) ([]string, error) {
	name := enterprisePrefix + baseline + ".json"
	ok, err := input.Exists(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBaselineNotFound, input.Location(name))
	}
	return []string{input.Location(name)}, nil
}

func (EnterpriseLayout) OutputName(_, _, period string) string {
	return enterprisePrefix + period + ".json"
}

func (EnterpriseLayout) Unit(string, *document.Object) string {
	return "enterprise"
}

// BusinessUnitLayout reads every <unit>-<period>.json file in a directory.
type BusinessUnitLayout struct{}

func (BusinessUnitLayout) Baselines(input *local.Store, baseline string) ([]string, error) {
	files, err := input.Discover("*-" + baseline + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBaselineNotFound, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no baseline data files found in %s", ErrBaselineNotFound, input.Dir())
	}
	return files, nil
}

func (BusinessUnitLayout) OutputName(source, baseline, period string) string {
	return UnitID(source, baseline) + "-" + period + ".json"
}

func (BusinessUnitLayout) Unit(_ string, doc *document.Object) string {
	if name, ok := doc.Get("name"); ok {
		if s, ok := name.(string); ok && s != "" {
			return s
		}
	}
	return "Unknown"
}

// UnitID strips the baseline period and extension from a business-unit file,
// e.g. consumer-banking-q3-2024.json -> consumer-banking.
func UnitID(source, baseline string) string {
	return strings.TrimSuffix(filepath.Base(source), "-"+baseline+".json")
}
