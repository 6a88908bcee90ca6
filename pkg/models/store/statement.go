package store

import "time"

// IncomeStatement mirrors an element of the provider's income-statement
// response. Unused provider fields are dropped on decode.
type IncomeStatement struct {
	Date            string  `json:"date"`
	Symbol          string  `json:"symbol"`
	CalendarYear    string  `json:"calendarYear"`
	Period          string  `json:"period"`
	Revenue         float64 `json:"revenue"`
	GrossProfit     float64 `json:"grossProfit"`
	OperatingIncome float64 `json:"operatingIncome"`
	NetIncome       float64 `json:"netIncome"`
	EPS             float64 `json:"eps"`
}

// Snapshot is a stored copy of one fetch.
type Snapshot struct {
	ID        string
	Symbol    string
	Period    string
	Records   int
	CreatedAt time.Time
}
