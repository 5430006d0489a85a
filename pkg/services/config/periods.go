package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const dateLayout = "2006-01-02"

// LoadCalendar reads a period calendar from an INI file: one section per
// period label with offset and date keys, and optional top-level baseline and
// targets keys. Without targets every period but the baseline is generated.
func LoadCalendar(path string) (*domain.Calendar, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read periods file: %w", err)
	}

	defaults := domain.DefaultCalendar()
	root := cfg.Section(ini.DefaultSection)
	baseline := root.Key("baseline").MustString(defaults.Baseline)
	var targets []string
	if root.HasKey("targets") {
		targets = root.Key("targets").Strings(",")
	}

	var periods []domain.Period
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		offset, err := section.Key("offset").Int()
		if err != nil {
			return nil, fmt.Errorf("period %s: invalid offset: %w", section.Name(), err)
		}
		date := section.Key("date").String()
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("period %s: invalid date %q", section.Name(), date)
		}
		periods = append(periods, domain.Period{
			Label:  strings.TrimSpace(section.Name()),
			Offset: offset,
			Date:   date,
		})
	}

	if len(periods) == 0 {
		return nil, fmt.Errorf("periods file %s defines no periods", path)
	}
	return domain.NewCalendar(baseline, targets, periods...)
}

// Calendar resolves the period calendar for these settings.
func (s *Settings) Calendar() (*domain.Calendar, error) {
	cal := domain.DefaultCalendar()
	if s.PeriodsFile != "" {
		var err error
		if cal, err = LoadCalendar(s.PeriodsFile); err != nil {
			return nil, err
		}
	}

	if s.Baseline != "" || len(s.Targets) > 0 {
		baseline, targets := cal.Baseline, cal.Targets
		if s.Baseline != "" && !strings.EqualFold(s.Baseline, cal.Baseline) {
			// targets default to every period except the new baseline
			baseline, targets = s.Baseline, nil
		}
		if len(s.Targets) > 0 {
			targets = s.Targets
		}
		return domain.NewCalendar(baseline, targets, cal.Periods()...)
	}
	return cal, nil
}
