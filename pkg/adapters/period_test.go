package adapters

import (
	"testing"

	"github.com/de-tools/quarterly-synth/pkg/models/api"
	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapCalendarDomainToApi(t *testing.T) {
	got := MapCalendarDomainToApi(domain.DefaultCalendar())

	assert.Len(t, got, 5)
	assert.Equal(t, api.Period{Label: "Q4-2023", Offset: -3, Date: "2023-12-31", Target: true}, got[0])
	assert.Equal(t, api.Period{Label: "Q3-2024", Offset: 0, Date: "2024-09-30", Baseline: true}, got[3])
}

func TestMapUnitsToApi(t *testing.T) {
	assert.Equal(t, []api.BusinessUnit{{ID: "cards"}}, MapUnitsToApi([]string{"cards"}))
	assert.Equal(t, []api.BusinessUnit{}, MapUnitsToApi(nil))
}
