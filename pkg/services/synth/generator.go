package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/quarterly-synth/pkg/document"
	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/de-tools/quarterly-synth/pkg/services/variation"
	"github.com/rs/zerolog"
)

var ErrNotNumeric = errors.New("field is not numeric")

// Generator derives period snapshots from a baseline document using one profile.
type Generator struct {
	profile   domain.Profile
	calendar  *domain.Calendar
	perturber *variation.Perturber
}

func NewGenerator(profile domain.Profile, calendar *domain.Calendar, perturber *variation.Perturber) (*Generator, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if calendar == nil {
		return nil, fmt.Errorf("calendar cannot be nil")
	}
	if perturber == nil {
		return nil, fmt.Errorf("perturber cannot be nil")
	}
	return &Generator{profile: profile, calendar: calendar, perturber: perturber}, nil
}

// Generate returns a new document for the given period label. The baseline is
// only read.
func (g *Generator) Generate(ctx context.Context, baseline *document.Object, label string) (*document.Object, error) {
	period, err := g.calendar.Lookup(label)
	if err != nil {
		return nil, err
	}

	doc := baseline.Clone()
	g.updateMetadata(doc, period)

	for _, rule := range g.profile.Fields {
		if err := g.applyField(ctx, doc, rule, period.Offset); err != nil {
			return nil, err
		}
	}

	// derived fields only after every part has been varied
	for _, agg := range g.profile.Aggregates {
		if err := recompute(doc, agg); err != nil {
			return nil, err
		}
	}

	for _, flip := range g.profile.StatusFlips {
		g.flipStatuses(ctx, doc, flip, period.Offset)
	}

	return doc, nil
}

func (g *Generator) updateMetadata(doc *document.Object, period domain.Period) {
	doc.Set(g.profile.PeriodField, strings.ToUpper(period.Label))
	doc.Set(g.profile.DateField, period.Date)
}

func (g *Generator) applyField(ctx context.Context, doc *document.Object, rule domain.FieldRule, offset int) error {
	logger := zerolog.Ctx(ctx)

	if len(rule.SkipWhen) > 0 {
		if guard, ok := doc.Resolve(rule.SkipWhen); ok && guard.Len() > 0 {
			return nil
		}
	}

	parent, ok := doc.Resolve(rule.Path[:len(rule.Path)-1])
	if !ok {
		logger.Debug().Str("field", rule.Name()).Msg("section not present, skipping")
		return nil
	}
	key := rule.Path[len(rule.Path)-1]

	raw, ok := parent.Get(key)
	if !ok || raw == nil {
		return nil
	}
	v, ok := document.Float(raw)
	if !ok {
		return fmt.Errorf("%w: %s holds %T", ErrNotNumeric, rule.Name(), raw)
	}

	lo, hi := rule.Bounds()
	var varied *float64
	switch rule.Kind {
	case domain.RuleKindCount:
		varied = g.perturber.Count(&v, offset, rule.Improves, rule.Volatility, lo, hi)
	default:
		varied = g.perturber.Value(&v, offset, rule.Improves, rule.Volatility, lo, hi)
	}

	parent.Set(key, *varied)
	return nil
}

func recompute(doc *document.Object, agg domain.AggregateRule) error {
	parts, ok := doc.Resolve(agg.Parts)
	if !ok || parts.Len() == 0 {
		return nil
	}
	parent, ok := doc.Resolve(agg.Target[:len(agg.Target)-1])
	if !ok {
		return nil
	}

	var total float64
	for _, k := range parts.Keys() {
		raw, _ := parts.Get(k)
		v, ok := document.Float(raw)
		if !ok {
			return fmt.Errorf("%w: %s.%s holds %T", ErrNotNumeric, strings.Join(agg.Parts, "."), k, raw)
		}
		total += v
	}

	parent.Set(agg.Target[len(agg.Target)-1], total)
	return nil
}

// flipStatuses closes open findings in later periods and reopens closed ones
// in earlier periods. Randomness is only drawn for candidate findings.
func (g *Generator) flipStatuses(ctx context.Context, doc *document.Object, rule domain.StatusFlipRule, offset int) {
	raw, ok := doc.Lookup(rule.Path)
	if !ok {
		return
	}
	items, ok := raw.([]any)
	if !ok {
		return
	}

	var flipped int
	for _, item := range items {
		finding, ok := item.(*document.Object)
		if !ok {
			continue
		}
		status, _ := finding.Get(rule.Field)

		switch {
		case offset > 0 && status == string(domain.FindingStatusOpen):
			if g.perturber.Chance(rule.CloseProbability) {
				finding.Set(rule.Field, string(domain.FindingStatusClosed))
				flipped++
			}
		case offset < 0 && status == string(domain.FindingStatusClosed):
			if g.perturber.Chance(rule.ReopenProbability) {
				finding.Set(rule.Field, string(domain.FindingStatusOpen))
				flipped++
			}
		}
	}

	zerolog.Ctx(ctx).Debug().
		Int("findings", len(items)).
		Int("flipped", flipped).
		Msg("finding statuses updated")
}
