package api

import "time"

type IncomeStatement struct {
	Date            string  `json:"date"`
	Revenue         float64 `json:"revenue"`
	NetIncome       float64 `json:"netIncome"`
	GrossProfit     float64 `json:"grossProfit"`
	EPS             float64 `json:"eps"`
	OperatingIncome float64 `json:"operatingIncome"`
}

type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

type Sort struct {
	Key       string `json:"key,omitempty"`
	Direction string `json:"direction"`
}

type Filters struct {
	StartYear    string `json:"startYear,omitempty"`
	EndYear      string `json:"endYear,omitempty"`
	MinRevenue   string `json:"minRevenue,omitempty"`
	MaxRevenue   string `json:"maxRevenue,omitempty"`
	MinNetIncome string `json:"minNetIncome,omitempty"`
	MaxNetIncome string `json:"maxNetIncome,omitempty"`
}

type StatementPage struct {
	Items      []IncomeStatement `json:"items"`
	Pagination Pagination        `json:"pagination"`
	Sort       Sort              `json:"sort"`
	Filters    Filters           `json:"filters"`
	Alert      string            `json:"alert,omitempty"`
}

type Error struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type DatasetStatus struct {
	Symbol   string     `json:"symbol"`
	Period   string     `json:"period"`
	Records  int        `json:"records"`
	Loaded   bool       `json:"loaded"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
	Error    string     `json:"error,omitempty"`
}
