package adapters

import (
	"github.com/de-tools/quarterly-synth/pkg/models/api"
	"github.com/de-tools/quarterly-synth/pkg/models/domain"
)

func MapPeriodDomainToApi(p domain.Period, cal *domain.Calendar) api.Period {
	return api.Period{
		Label:    p.String(),
		Offset:   p.Offset,
		Date:     p.Date,
		Baseline: p.Label == cal.Baseline,
		Target:   cal.IsTarget(p.Label),
	}
}

func MapCalendarDomainToApi(cal *domain.Calendar) []api.Period {
	periods := cal.Periods()
	out := make([]api.Period, 0, len(periods))
	for _, p := range periods {
		out = append(out, MapPeriodDomainToApi(p, cal))
	}
	return out
}

func MapUnitsToApi(units []string) []api.BusinessUnit {
	out := make([]api.BusinessUnit, 0, len(units))
	for _, u := range units {
		out = append(out, api.BusinessUnit{ID: u})
	}
	return out
}
