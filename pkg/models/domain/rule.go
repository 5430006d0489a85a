package domain

import (
	"fmt"
	"strings"
)

type RuleKind string

const (
	RuleKindValue RuleKind = "value"
	RuleKindCount RuleKind = "count"
)

const (
	DefaultValueMin = 0
	DefaultValueMax = 100
	DefaultCountMin = 0
	DefaultCountMax = 999999
)

// FieldRule describes how a single numeric field drifts away from the baseline.
type FieldRule struct {
	Path       []string
	Kind       RuleKind
	Improves   bool
	Volatility float64
	Min        *float64
	Max        *float64
	// SkipWhen names a sibling path; the rule is not applied if that object is present and non-empty.
	SkipWhen []string
}

func (r FieldRule) Name() string {
	return strings.Join(r.Path, ".")
}

// Bounds returns the clamp range, falling back to the kind's defaults.
func (r FieldRule) Bounds() (float64, float64) {
	lo, hi := float64(DefaultValueMin), float64(DefaultValueMax)
	if r.Kind == RuleKindCount {
		lo, hi = DefaultCountMin, DefaultCountMax
	}
	if r.Min != nil {
		lo = *r.Min
	}
	if r.Max != nil {
		hi = *r.Max
	}
	return lo, hi
}

func (r FieldRule) Validate() error {
	if len(r.Path) == 0 {
		return fmt.Errorf("rule path cannot be empty")
	}
	for _, seg := range r.Path {
		if seg == "" {
			return fmt.Errorf("rule %q has an empty path segment", r.Name())
		}
	}
	if r.Kind != RuleKindValue && r.Kind != RuleKindCount {
		return fmt.Errorf("rule %q has unsupported kind %q", r.Name(), r.Kind)
	}
	if r.Volatility < 0 {
		return fmt.Errorf("rule %q has negative volatility", r.Name())
	}
	if lo, hi := r.Bounds(); lo > hi {
		return fmt.Errorf("rule %q has min %v greater than max %v", r.Name(), lo, hi)
	}
	return nil
}

// AggregateRule recomputes Target as the sum of the numeric members of the Parts object.
type AggregateRule struct {
	Target []string
	Parts  []string
}

func (r AggregateRule) Validate() error {
	if len(r.Target) == 0 || len(r.Parts) == 0 {
		return fmt.Errorf("aggregate rule needs both target and parts paths")
	}
	return nil
}

// StatusFlipRule toggles finding statuses in the list at Path.
type StatusFlipRule struct {
	Path              []string
	Field             string
	CloseProbability  float64
	ReopenProbability float64
}

func (r StatusFlipRule) Validate() error {
	if len(r.Path) == 0 || r.Field == "" {
		return fmt.Errorf("status flip rule needs a path and a field")
	}
	for _, p := range []float64{r.CloseProbability, r.ReopenProbability} {
		if p < 0 || p > 1 {
			return fmt.Errorf("status flip probability %v outside [0, 1]", p)
		}
	}
	return nil
}

// Profile is the complete set of rules for one kind of dashboard document.
type Profile struct {
	Name        string
	PeriodField string
	DateField   string
	Fields      []FieldRule
	Aggregates  []AggregateRule
	StatusFlips []StatusFlipRule
}

func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if p.PeriodField == "" || p.DateField == "" {
		return fmt.Errorf("profile %q must name its period and date fields", p.Name)
	}
	for _, r := range p.Fields {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
	}
	for _, r := range p.Aggregates {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
	}
	for _, r := range p.StatusFlips {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
	}
	return nil
}
