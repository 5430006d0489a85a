package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/quarterly-synth/pkg/adapters"
	"github.com/de-tools/quarterly-synth/pkg/models/api"
	"github.com/de-tools/quarterly-synth/pkg/models/domain"
)

type TableConfig struct {
	PeriodWidth int
	UnitWidth   int
	OutputWidth int
	DateWidth   int
	RoleWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		PeriodWidth: 9,
		UnitWidth:   28,
		OutputWidth: 64,
		DateWidth:   10,
		RoleWidth:   8,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const summaryTemplate = `
{{.Profile}} generator (run {{.RunID}})
Baseline: {{upper .Baseline}}  Seed: {{.Seed}}
Created files: {{.Total}}

{{separator}}
{{formatRow "Period" "Unit" "Output"}}
{{separator}}
{{range .Files}}{{formatRow .Period.String (orDash .Unit) .Output}}
{{end}}{{separator}}
`

const periodsTemplate = `
{{separator}}
{{formatRow "Period" "Offset" "Date" "Role"}}
{{separator}}
{{range .}}{{formatRow .Label .Offset .Date (role .)}}
{{end}}{{separator}}
`

// Summary prints the files a generator run created.
func (c *Reporter) Summary(summary *domain.RunSummary) error {
	widths := []int{c.config.PeriodWidth, c.config.UnitWidth, c.config.OutputWidth}
	return c.render("summary", summaryTemplate, widths, summary)
}

// Periods prints the calendar, marking the baseline and target periods.
func (c *Reporter) Periods(calendar *domain.Calendar) error {
	widths := []int{c.config.PeriodWidth, len("Offset"), c.config.DateWidth, c.config.RoleWidth}
	return c.render("periods", periodsTemplate, widths, adapters.MapCalendarDomainToApi(calendar))
}

func (c *Reporter) render(name, tmpl string, widths []int, data any) error {
	funcMap := template.FuncMap{
		"formatRow": func(cells ...any) string {
			parts := make([]string, len(cells))
			for i, cell := range cells {
				parts[i] = fmt.Sprintf("%-*v", widths[i], cell)
			}
			return "| " + strings.Join(parts, " | ") + " |"
		},
		"separator": func() string {
			parts := make([]string, len(widths))
			for i, w := range widths {
				parts[i] = strings.Repeat("-", w+2)
			}
			return "+" + strings.Join(parts, "+") + "+"
		},
		"upper": strings.ToUpper,
		"orDash": func(s string) string {
			if s == "" {
				return "-"
			}
			return s
		},
		"role": func(p api.Period) string {
			switch {
			case p.Baseline:
				return "baseline"
			case p.Target:
				return "target"
			}
			return ""
		},
	}

	t, err := template.New(name).Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, data)
}
