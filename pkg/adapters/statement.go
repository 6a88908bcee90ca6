package adapters

import (
	"github.com/de-tools/fin-atlas/pkg/models/api"
	"github.com/de-tools/fin-atlas/pkg/models/domain"
	"github.com/de-tools/fin-atlas/pkg/models/store"
	"github.com/de-tools/fin-atlas/pkg/services/statements"
)

func MapStoreStatementToDomain(s store.IncomeStatement) domain.IncomeStatement {
	return domain.IncomeStatement{
		Date:            s.Date,
		CalendarYear:    s.CalendarYear,
		Symbol:          s.Symbol,
		Period:          s.Period,
		Revenue:         s.Revenue,
		NetIncome:       s.NetIncome,
		GrossProfit:     s.GrossProfit,
		EPS:             s.EPS,
		OperatingIncome: s.OperatingIncome,
	}
}

func MapStoreStatementsToDomain(records []store.IncomeStatement) []domain.IncomeStatement {
	result := make([]domain.IncomeStatement, 0, len(records))
	for _, r := range records {
		result = append(result, MapStoreStatementToDomain(r))
	}
	return result
}

func MapDomainStatementToAPI(s domain.IncomeStatement) api.IncomeStatement {
	return api.IncomeStatement{
		Date:            s.Date,
		Revenue:         s.Revenue,
		NetIncome:       s.NetIncome,
		GrossProfit:     s.GrossProfit,
		EPS:             s.EPS,
		OperatingIncome: s.OperatingIncome,
	}
}

func MapDomainCriteriaToAPI(c domain.FilterCriteria) api.Filters {
	return api.Filters{
		StartYear:    c.StartYear,
		EndYear:      c.EndYear,
		MinRevenue:   c.MinRevenue,
		MaxRevenue:   c.MaxRevenue,
		MinNetIncome: c.MinNetIncome,
		MaxNetIncome: c.MaxNetIncome,
	}
}

func MapViewToAPI(view statements.View) api.StatementPage {
	items := make([]api.IncomeStatement, 0, len(view.Page.Items))
	for _, s := range view.Page.Items {
		items = append(items, MapDomainStatementToAPI(s))
	}

	direction := string(view.Sort.Direction)
	if direction == "" {
		direction = string(domain.SortAsc)
	}

	return api.StatementPage{
		Items: items,
		Pagination: api.Pagination{
			Page:       view.Page.CurrentPage,
			PageSize:   view.Page.ItemsPerPage,
			Total:      view.Page.TotalItems,
			TotalPages: view.Page.TotalPages,
			HasPrev:    view.Page.HasPrev,
			HasNext:    view.Page.HasNext,
		},
		Sort: api.Sort{
			Key:       string(view.Sort.Key),
			Direction: direction,
		},
		Filters: MapDomainCriteriaToAPI(view.Criteria),
		Alert:   view.Alert,
	}
}

func MapStatusToAPI(status statements.Status) api.DatasetStatus {
	result := api.DatasetStatus{
		Symbol:  status.Query.Symbol,
		Period:  status.Query.Period,
		Records: status.Records,
		Loaded:  status.Loaded,
	}
	if status.Loaded {
		loadedAt := status.LoadedAt
		result.LoadedAt = &loadedAt
	}
	if status.Err != nil {
		result.Error = status.Err.Error()
	}
	return result
}
