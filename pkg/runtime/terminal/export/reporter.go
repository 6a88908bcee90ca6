package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/fin-atlas/pkg/format"
	"github.com/de-tools/fin-atlas/pkg/models/domain"
	"github.com/de-tools/fin-atlas/pkg/services/statements"
)

const emptyMessage = "No data matches your filter criteria."

type TableConfig struct {
	DateWidth   int
	AmountWidth int
	EPSWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DateWidth:   12,
		AmountWidth: 16,
		EPSWidth:    8,
	}
}

// Report is the input of the table reporter.
type Report struct {
	Query domain.StatementQuery
	View  statements.View
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

func (c *Reporter) widths() []int {
	return []int{
		c.config.DateWidth,
		c.config.AmountWidth,
		c.config.AmountWidth,
		c.config.AmountWidth,
		c.config.EPSWidth,
		c.config.AmountWidth,
	}
}

func (c *Reporter) innerWidth() int {
	total := 0
	for _, w := range c.widths() {
		total += w + 3
	}
	return total - 3
}

func describeFilters(criteria domain.FilterCriteria) string {
	var parts []string
	if criteria.StartYear != "" {
		parts = append(parts, fmt.Sprintf("years %s-%s", criteria.StartYear, criteria.EndYear))
	}
	if criteria.MinRevenue != "" {
		parts = append(parts, fmt.Sprintf("revenue %s-%s", criteria.MinRevenue, criteria.MaxRevenue))
	}
	if criteria.MinNetIncome != "" {
		parts = append(parts, fmt.Sprintf("net income %s-%s", criteria.MinNetIncome, criteria.MaxNetIncome))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func describeSort(cfg domain.SortConfig) string {
	if cfg.Key == domain.SortKeyNone {
		return "none"
	}
	if cfg.Descending() {
		return string(cfg.Key) + " desc"
	}
	return string(cfg.Key) + " asc"
}

func (c *Reporter) Handle(report *Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(values ...string) string {
			cells := make([]string, len(values))
			for i, v := range values {
				cells[i] = fmt.Sprintf("%-*s", c.widths()[i], v)
			}
			return "| " + strings.Join(cells, " | ") + " |"
		},
		"separator": func() string {
			parts := make([]string, 0, len(c.widths()))
			for _, w := range c.widths() {
				parts = append(parts, strings.Repeat("-", w+2))
			}
			return "+" + strings.Join(parts, "+") + "+"
		},
		"emptyRow": func() string {
			return fmt.Sprintf("| %-*s |", c.innerWidth(), emptyMessage)
		},
		"amount":  format.Amount,
		"eps":     format.EPS,
		"filters": describeFilters,
		"sorting": describeSort,
		"pages": func(p statements.Page) int {
			return max(p.TotalPages, 1)
		},
	}

	tmpl := `
{{.Query.Symbol}} income statements ({{.Query.Period}})
{{if .View.Alert}}
Alert: {{.View.Alert}}
{{end}}
Filters: {{filters .View.Criteria}}
Sort: {{sorting .View.Sort}}

{{separator}}
{{formatRow "Date" "Revenue" "Net Income" "Gross Profit" "EPS" "Operating Income"}}
{{separator}}
{{if .View.Empty}}{{emptyRow}}
{{else}}{{range .View.Page.Items}}{{formatRow .Date (amount .Revenue) (amount .NetIncome) (amount .GrossProfit) (eps .EPS) (amount .OperatingIncome)}}
{{end}}{{end}}{{separator}}
Page {{.View.Page.CurrentPage}} of {{pages .View.Page}} ({{.View.Page.TotalItems}} records)
`

	t, err := template.New("statements").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
