// Package rules loads the declarative per-field variation tables.
package rules

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"gopkg.in/yaml.v3"
)

const (
	Enterprise   = "enterprise"
	BusinessUnit = "business-unit"
)

//go:embed profiles/*.yaml
var builtin embed.FS

type profileFile struct {
	Name        string           `yaml:"name"`
	PeriodField string           `yaml:"period_field"`
	DateField   string           `yaml:"date_field"`
	Fields      []fieldEntry     `yaml:"fields"`
	Aggregates  []aggregateEntry `yaml:"aggregates"`
	StatusFlips []flipEntry      `yaml:"status_flips"`
}

type fieldEntry struct {
	Path       string   `yaml:"path"`
	Keys       []string `yaml:"keys"`
	Kind       string   `yaml:"kind"`
	Improves   bool     `yaml:"improves"`
	Volatility float64  `yaml:"volatility"`
	Min        *float64 `yaml:"min"`
	Max        *float64 `yaml:"max"`
	SkipWhen   string   `yaml:"skip_when"`
}

type aggregateEntry struct {
	Target string `yaml:"target"`
	Parts  string `yaml:"parts"`
}

type flipEntry struct {
	Path              string  `yaml:"path"`
	Field             string  `yaml:"field"`
	CloseProbability  float64 `yaml:"close_probability"`
	ReopenProbability float64 `yaml:"reopen_probability"`
}

// Builtin returns the profile compiled into the binary.
func Builtin(name string) (domain.Profile, error) {
	data, err := builtin.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return domain.Profile{}, fmt.Errorf("unknown profile %q, available: %v", name, Names())
	}
	return Parse(data)
}

// Names lists the built-in profiles.
func Names() []string {
	entries, err := builtin.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func LoadFile(path string) (domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Resolve loads the override file when one is given and the built-in
// profile otherwise.
func Resolve(path, name string) (domain.Profile, error) {
	if path == "" {
		return Builtin(name)
	}
	p, err := LoadFile(path)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to load %s rules: %w", name, err)
	}
	return p, nil
}

// Parse decodes and validates a profile. Entries with keys expand into one
// rule per key, in the order listed.
func Parse(data []byte) (domain.Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var pf profileFile
	if err := dec.Decode(&pf); err != nil {
		return domain.Profile{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	profile := domain.Profile{
		Name:        pf.Name,
		PeriodField: pf.PeriodField,
		DateField:   pf.DateField,
	}

	for _, f := range pf.Fields {
		base := splitPath(f.Path)
		paths := [][]string{base}
		if len(f.Keys) > 0 {
			paths = paths[:0]
			for _, k := range f.Keys {
				paths = append(paths, append(append([]string(nil), base...), k))
			}
		}
		for _, p := range paths {
			profile.Fields = append(profile.Fields, domain.FieldRule{
				Path:       p,
				Kind:       domain.RuleKind(f.Kind),
				Improves:   f.Improves,
				Volatility: f.Volatility,
				Min:        f.Min,
				Max:        f.Max,
				SkipWhen:   splitPath(f.SkipWhen),
			})
		}
	}

	for _, a := range pf.Aggregates {
		profile.Aggregates = append(profile.Aggregates, domain.AggregateRule{
			Target: splitPath(a.Target),
			Parts:  splitPath(a.Parts),
		})
	}

	for _, s := range pf.StatusFlips {
		profile.StatusFlips = append(profile.StatusFlips, domain.StatusFlipRule{
			Path:              splitPath(s.Path),
			Field:             s.Field,
			CloseProbability:  s.CloseProbability,
			ReopenProbability: s.ReopenProbability,
		})
	}

	if err := profile.Validate(); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func splitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}
