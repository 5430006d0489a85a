package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findRule(t *testing.T, p domain.Profile, name string) domain.FieldRule {
	t.Helper()
	for _, r := range p.Fields {
		if r.Name() == name {
			return r
		}
	}
	t.Fatalf("rule %s not found in profile %s", name, p.Name)
	return domain.FieldRule{}
}

func TestBuiltin_Enterprise(t *testing.T) {
	p, err := Builtin(Enterprise)
	require.NoError(t, err)

	assert.Equal(t, "reportingPeriod", p.PeriodField)
	assert.Equal(t, "generatedDate", p.DateField)
	require.Len(t, p.Fields, 3)

	score := findRule(t, p, "executiveScorecard.enterpriseRiskScore")
	lo, hi := score.Bounds()
	assert.True(t, score.Improves)
	assert.Equal(t, 60.0, lo)
	assert.Equal(t, 95.0, hi)

	findings := findRule(t, p, "executiveScorecard.activeFindings")
	lo, hi = findings.Bounds()
	assert.Equal(t, domain.RuleKindCount, findings.Kind)
	assert.False(t, findings.Improves)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 999999.0, hi)
}

func TestBuiltin_BusinessUnitOrderAndOverrides(t *testing.T) {
	p, err := Builtin(BusinessUnit)
	require.NoError(t, err)

	var names []string
	for _, r := range p.Fields {
		names = append(names, r.Name())
	}

	want := []string{
		"executiveScorecard.overallScore.value",
		"executiveScorecard.riskMetrics.amlCompliance",
		"executiveScorecard.riskMetrics.fraudRisk",
		"executiveScorecard.riskMetrics.operationalRisk",
		"executiveScorecard.riskMetrics.cyberSecurity",
		"executiveScorecard.alerts.critical",
		"executiveScorecard.alerts.high",
		"executiveScorecard.alerts.medium",
		"executiveScorecard.alerts.low",
		"complianceMetrics.training.completion.overall",
		"complianceMetrics.regulatory.sarFiling.timeliness",
		"complianceMetrics.regulatory.sarFiling.quality",
		"complianceMetrics.regulatory.sarFiling.volume",
		"complianceMetrics.policy.distribution.acknowledgment",
		"riskMetrics.amlMonitoring.alertVolume.total",
		"riskMetrics.amlMonitoring.effectiveness.modelAccuracy",
		"riskMetrics.amlMonitoring.effectiveness.falsePositiveRate",
		"riskMetrics.amlMonitoring.effectiveness.reviewEfficiency",
		"riskMetrics.fraudMetrics.losses.rate",
		"riskMetrics.sanctionsScreening.coverage.transactions",
		"operationalMetrics.kycCdd.completion.new",
		"operationalMetrics.kycCdd.periodicReview.onTime",
		"operationalMetrics.amlMonitoring.effectiveness.modelAccuracy",
		"operationalMetrics.amlMonitoring.effectiveness.falsePositiveRate",
		"operationalMetrics.amlMonitoring.effectiveness.reviewEfficiency",
		"auditFindings.summary.total",
		"auditFindings.summary.bySeverity.critical",
		"auditFindings.summary.bySeverity.high",
		"auditFindings.summary.bySeverity.medium",
		"auditFindings.summary.bySeverity.low",
		"auditFindings.testing.results.pass",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("rule order mismatch (-want +got):\n%s", diff)
	}

	// inverse metrics sit next to improving siblings
	assert.False(t, findRule(t, p, "riskMetrics.amlMonitoring.effectiveness.falsePositiveRate").Improves)
	assert.True(t, findRule(t, p, "riskMetrics.amlMonitoring.effectiveness.modelAccuracy").Improves)
	assert.False(t, findRule(t, p, "operationalMetrics.amlMonitoring.effectiveness.falsePositiveRate").Improves)

	rate := findRule(t, p, "riskMetrics.fraudMetrics.losses.rate")
	lo, hi := rate.Bounds()
	assert.Equal(t, 0.0001, lo)
	assert.Equal(t, 0.01, hi)

	assert.Equal(t, 0.2, findRule(t, p, "auditFindings.summary.bySeverity.high").Volatility)
	assert.Equal(t, 0.15, findRule(t, p, "auditFindings.summary.bySeverity.medium").Volatility)
	assert.Equal(t, []string{"auditFindings", "summary", "bySeverity"},
		findRule(t, p, "auditFindings.summary.total").SkipWhen)

	require.Len(t, p.Aggregates, 1)
	assert.Equal(t, []string{"auditFindings", "summary", "total"}, p.Aggregates[0].Target)
	require.Len(t, p.StatusFlips, 1)
	assert.Equal(t, 0.3, p.StatusFlips[0].CloseProbability)
	assert.Equal(t, 0.2, p.StatusFlips[0].ReopenProbability)
}

func TestBuiltin_Unknown(t *testing.T) {
	_, err := Builtin("regional")
	assert.Error(t, err)
	assert.Equal(t, []string{BusinessUnit, Enterprise}, Names())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown field",
			content: `name: x
period_field: quarter
date_field: date
fields:
  - path: a.b
    kind: value
    volatilty: 0.1`,
		},
		{
			name: "min above max",
			content: `name: x
period_field: quarter
date_field: date
fields:
  - path: a.b
    kind: value
    min: 90
    max: 10`,
		},
		{
			name: "bad kind",
			content: `name: x
period_field: quarter
date_field: date
fields:
  - path: a.b
    kind: percent`,
		},
		{
			name: "probability out of range",
			content: `name: x
period_field: quarter
date_field: date
status_flips:
  - path: findings
    field: status
    close_probability: 1.5`,
		},
		{
			name:    "missing metadata fields",
			content: `name: x`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `name: regional
period_field: period
date_field: asOf
fields:
  - path: kpis
    keys: [uptime, coverage]
    kind: value
    improves: true
    volatility: 0.01
    max: 99.9`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	p, err := LoadFile(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "regional", p.Name)
	require.Len(t, p.Fields, 2)
	assert.Equal(t, []string{"kpis", "coverage"}, p.Fields[1].Path)
	lo, hi := p.Fields[1].Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 99.9, hi)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	p, err := Resolve("", BusinessUnit)
	require.NoError(t, err)
	assert.Equal(t, BusinessUnit, p.Name)

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.yaml"), Enterprise)
	assert.ErrorContains(t, err, "failed to load enterprise rules")
}
