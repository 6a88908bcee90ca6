package statements

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ValidationError describes the first filter rule a FilterCriteria violates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type textRange struct {
	set      bool
	min, max string
}

func (r textRange) contains(v string) bool {
	return !r.set || (v >= r.min && v <= r.max)
}

type numberRange struct {
	set      bool
	min, max float64
}

func (r numberRange) contains(v float64) bool {
	return !r.set || (v >= r.min && v <= r.max)
}

// Filter is a validated, conjunctive predicate over income statements.
type Filter struct {
	criteria  domain.FilterCriteria
	years     textRange
	revenue   numberRange
	netIncome numberRange
}

// Compile validates criteria and returns the filter it describes. Bound pairs
// are checked in order: years, revenue, net income.
func Compile(criteria domain.FilterCriteria) (Filter, error) {
	f := Filter{criteria: criteria}

	years, err := compileYears(criteria.StartYear, criteria.EndYear)
	if err != nil {
		return Filter{}, err
	}
	f.years = years

	revenue, err := compileNumbers(criteria.MinRevenue, criteria.MaxRevenue, "revenue", "minRevenue", "maxRevenue")
	if err != nil {
		return Filter{}, err
	}
	f.revenue = revenue

	netIncome, err := compileNumbers(
		criteria.MinNetIncome, criteria.MaxNetIncome, "net income", "minNetIncome", "maxNetIncome",
	)
	if err != nil {
		return Filter{}, err
	}
	f.netIncome = netIncome

	return f, nil
}

func compileYears(start, end string) (textRange, error) {
	if start == "" && end == "" {
		return textRange{}, nil
	}
	if start == "" || end == "" {
		field := "startYear"
		if end == "" {
			field = "endYear"
		}
		return textRange{}, &ValidationError{
			Field:   field,
			Message: "please fill both start and end year, or leave both empty",
		}
	}
	if !yearPattern.MatchString(start) {
		return textRange{}, &ValidationError{
			Field:   "startYear",
			Message: fmt.Sprintf("start year %q must be a 4-digit year (YYYY)", start),
		}
	}
	if !yearPattern.MatchString(end) {
		return textRange{}, &ValidationError{
			Field:   "endYear",
			Message: fmt.Sprintf("end year %q must be a 4-digit year (YYYY)", end),
		}
	}
	if start > end {
		return textRange{}, &ValidationError{
			Field:   "startYear",
			Message: fmt.Sprintf("start year %s must not be after end year %s", start, end),
		}
	}
	return textRange{set: true, min: start, max: end}, nil
}

func compileNumbers(minRaw, maxRaw, label, minField, maxField string) (numberRange, error) {
	if minRaw == "" && maxRaw == "" {
		return numberRange{}, nil
	}
	if minRaw == "" || maxRaw == "" {
		field := minField
		if maxRaw == "" {
			field = maxField
		}
		return numberRange{}, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("please fill both minimum and maximum %s, or leave both empty", label),
		}
	}

	lo, err := parseBound(minRaw, "minimum "+label, minField)
	if err != nil {
		return numberRange{}, err
	}
	hi, err := parseBound(maxRaw, "maximum "+label, maxField)
	if err != nil {
		return numberRange{}, err
	}
	if lo > hi {
		return numberRange{}, &ValidationError{
			Field:   minField,
			Message: fmt.Sprintf("minimum %s must not be greater than maximum %s", label, label),
		}
	}
	return numberRange{set: true, min: lo, max: hi}, nil
}

func parseBound(raw, label, field string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s %q must be a number", label, raw),
		}
	}
	if v < 0 {
		return 0, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be a non-negative number", label),
		}
	}
	return v, nil
}

// Criteria returns the criteria the filter was compiled from.
func (f Filter) Criteria() domain.FilterCriteria {
	return f.criteria
}

func (f Filter) Match(rec domain.IncomeStatement) bool {
	return f.years.contains(rec.Year()) &&
		f.revenue.contains(rec.Revenue) &&
		f.netIncome.contains(rec.NetIncome)
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []domain.IncomeStatement) []domain.IncomeStatement {
	filtered := make([]domain.IncomeStatement, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
