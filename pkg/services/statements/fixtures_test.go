package statements

import "github.com/de-tools/fin-atlas/pkg/models/domain"

func sampleStatements() []domain.IncomeStatement {
	return []domain.IncomeStatement{
		{Date: "2023-09-30", CalendarYear: "2023", Symbol: "AAPL", Revenue: 383285000000, NetIncome: 96995000000, GrossProfit: 169148000000, EPS: 6.16, OperatingIncome: 114301000000},
		{Date: "2022-09-24", CalendarYear: "2022", Symbol: "AAPL", Revenue: 394328000000, NetIncome: 99803000000, GrossProfit: 170782000000, EPS: 6.15, OperatingIncome: 119437000000},
		{Date: "2021-09-25", CalendarYear: "2021", Symbol: "AAPL", Revenue: 365817000000, NetIncome: 94680000000, GrossProfit: 152836000000, EPS: 5.67, OperatingIncome: 108949000000},
		{Date: "2020-09-26", CalendarYear: "2020", Symbol: "AAPL", Revenue: 274515000000, NetIncome: 57411000000, GrossProfit: 104956000000, EPS: 3.31, OperatingIncome: 66288000000},
	}
}

func years(records []domain.IncomeStatement) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Year())
	}
	return out
}
