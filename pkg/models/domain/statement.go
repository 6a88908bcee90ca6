package domain

// IncomeStatement is a single annual (or quarterly) income-statement record
// as reported by the financial-data provider.
type IncomeStatement struct {
	Date            string
	CalendarYear    string
	Symbol          string
	Period          string
	Revenue         float64
	NetIncome       float64
	GrossProfit     float64
	EPS             float64
	OperatingIncome float64
}

// Year returns the year of Date, the column users see and sort by.
// CalendarYear is only used when Date is missing.
func (s IncomeStatement) Year() string {
	if len(s.Date) >= 4 {
		return s.Date[:4]
	}
	return s.CalendarYear
}

// StatementQuery identifies which statements to fetch.
type StatementQuery struct {
	Symbol string
	Period string
}

// FilterCriteria holds the raw, user-supplied bounds. An empty string means
// the bound is not set.
type FilterCriteria struct {
	StartYear    string
	EndYear      string
	MinRevenue   string
	MaxRevenue   string
	MinNetIncome string
	MaxNetIncome string
}

func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

type SortKey string

const (
	SortKeyNone      SortKey = ""
	SortKeyDate      SortKey = "date"
	SortKeyRevenue   SortKey = "revenue"
	SortKeyNetIncome SortKey = "netIncome"
)

// ParseSortKey returns the key for s and whether s names a sortable column.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortKeyNone, SortKeyDate, SortKeyRevenue, SortKeyNetIncome:
		return SortKey(s), true
	}
	return SortKeyNone, false
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortConfig struct {
	Key       SortKey
	Direction SortDirection
}

// Descending reports whether the config sorts in descending order. Any
// direction other than SortDesc is treated as ascending.
func (c SortConfig) Descending() bool {
	return c.Direction == SortDesc
}

type PageState struct {
	CurrentPage  int
	ItemsPerPage int
}

// TotalPages returns ceil(count / ItemsPerPage).
func (p PageState) TotalPages(count int) int {
	if p.ItemsPerPage <= 0 || count <= 0 {
		return 0
	}
	pages := count / p.ItemsPerPage
	if count%p.ItemsPerPage != 0 {
		pages++
	}
	return pages
}
