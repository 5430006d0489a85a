package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPeriod = errors.New("unknown period")

// Period is a reporting quarter relative to the baseline quarter.
type Period struct {
	Label  string
	Offset int
	Date   string
}

func (p Period) String() string {
	return strings.ToUpper(p.Label)
}

// Calendar maps period labels to their offset and reporting date.
type Calendar struct {
	Baseline string
	Targets  []string
	periods  map[string]Period
	order    []string
}

// NewCalendar builds a calendar around baseline. Offsets are rebased so the
// baseline sits at zero. Without targets every other period is generated.
func NewCalendar(baseline string, targets []string, periods ...Period) (*Calendar, error) {
	c := &Calendar{
		Baseline: strings.ToLower(baseline),
		periods:  make(map[string]Period, len(periods)),
	}
	for _, t := range targets {
		c.Targets = append(c.Targets, strings.ToLower(t))
	}

	for _, p := range periods {
		p.Label = strings.ToLower(p.Label)
		if p.Label == "" {
			return nil, fmt.Errorf("period label cannot be empty")
		}
		if _, exists := c.periods[p.Label]; exists {
			return nil, fmt.Errorf("period %q is defined twice", p.Label)
		}
		c.periods[p.Label] = p
		c.order = append(c.order, p.Label)
	}

	base, err := c.Lookup(c.Baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	for label, p := range c.periods {
		p.Offset -= base.Offset
		c.periods[label] = p
	}

	if len(targets) == 0 {
		for _, label := range c.order {
			if label != c.Baseline {
				c.Targets = append(c.Targets, label)
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultCalendar is the fiscal calendar the dashboard data was authored against.
func DefaultCalendar() *Calendar {
	c, err := NewCalendar(
		"q3-2024",
		[]string{"q4-2023", "q1-2024", "q2-2024", "q4-2024"},
		Period{Label: "q4-2023", Offset: -3, Date: "2023-12-31"},
		Period{Label: "q1-2024", Offset: -2, Date: "2024-03-31"},
		Period{Label: "q2-2024", Offset: -1, Date: "2024-06-30"},
		Period{Label: "q3-2024", Offset: 0, Date: "2024-09-30"},
		Period{Label: "q4-2024", Offset: 1, Date: "2024-12-31"},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks that the baseline and every target are known periods, that
// the baseline sits at offset zero and that no target is the baseline itself.
func (c *Calendar) Validate() error {
	base, err := c.Lookup(c.Baseline)
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	if base.Offset != 0 {
		return fmt.Errorf("baseline %q has offset %d, want 0", c.Baseline, base.Offset)
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target period must be provided")
	}
	for _, t := range c.Targets {
		if _, err := c.Lookup(t); err != nil {
			return fmt.Errorf("target: %w", err)
		}
		if t == c.Baseline {
			return fmt.Errorf("target %q is the baseline period", t)
		}
	}
	return nil
}

func (c *Calendar) Lookup(label string) (Period, error) {
	p, ok := c.periods[strings.ToLower(label)]
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, label)
	}
	return p, nil
}

// Periods returns every known period in definition order.
func (c *Calendar) Periods() []Period {
	out := make([]Period, 0, len(c.order))
	for _, label := range c.order {
		out = append(out, c.periods[label])
	}
	return out
}

// TargetPeriods resolves the configured targets in order.
func (c *Calendar) TargetPeriods() ([]Period, error) {
	out := make([]Period, 0, len(c.Targets))
	for _, t := range c.Targets {
		p, err := c.Lookup(t)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Calendar) IsTarget(label string) bool {
	for _, t := range c.Targets {
		if strings.EqualFold(t, label) {
			return true
		}
	}
	return false
}
