package statements

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
	svc "github.com/de-tools/fin-atlas/pkg/services/statements"
)

const (
	paramStartYear    = "start"
	paramEndYear      = "end"
	paramMinRevenue   = "minRevenue"
	paramMaxRevenue   = "maxRevenue"
	paramMinNetIncome = "minNetIncome"
	paramMaxNetIncome = "maxNetIncome"
	paramSort         = "sort"
	paramDirection    = "dir"
	paramPage         = "page"
	paramSize         = "size"
	paramPanel        = "panel"
)

func criteriaFromValues(values url.Values) domain.FilterCriteria {
	return domain.FilterCriteria{
		StartYear:    values.Get(paramStartYear),
		EndYear:      values.Get(paramEndYear),
		MinRevenue:   values.Get(paramMinRevenue),
		MaxRevenue:   values.Get(paramMaxRevenue),
		MinNetIncome: values.Get(paramMinNetIncome),
		MaxNetIncome: values.Get(paramMaxNetIncome),
	}
}

func positiveInt(values url.Values, key string, fallback int) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid '%s' value %q: expected a positive integer", key, raw)
	}
	return n, nil
}

// decodeState reads viewer state from query values. Filter criteria are
// returned raw; they are validated when the viewer is restored.
func decodeState(values url.Values, defaultPageSize int) (svc.State, error) {
	state := svc.State{
		Criteria:  criteriaFromValues(values),
		PanelOpen: values.Get(paramPanel) == "open",
	}

	key, ok := domain.ParseSortKey(values.Get(paramSort))
	if !ok {
		return svc.State{}, fmt.Errorf("invalid 'sort' value %q: expected date, revenue or netIncome", values.Get(paramSort))
	}
	state.Sort.Key = key

	switch dir := domain.SortDirection(values.Get(paramDirection)); dir {
	case "", domain.SortAsc:
		state.Sort.Direction = domain.SortAsc
	case domain.SortDesc:
		state.Sort.Direction = domain.SortDesc
	default:
		return svc.State{}, fmt.Errorf("invalid 'dir' value %q: expected asc or desc", dir)
	}

	page, err := positiveInt(values, paramPage, 1)
	if err != nil {
		return svc.State{}, err
	}
	size, err := positiveInt(values, paramSize, defaultPageSize)
	if err != nil {
		return svc.State{}, err
	}
	state.Page = domain.PageState{CurrentPage: page, ItemsPerPage: size}

	return state, nil
}

func encodeCriteria(values url.Values, c domain.FilterCriteria) {
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set(paramStartYear, c.StartYear)
	set(paramEndYear, c.EndYear)
	set(paramMinRevenue, c.MinRevenue)
	set(paramMaxRevenue, c.MaxRevenue)
	set(paramMinNetIncome, c.MinNetIncome)
	set(paramMaxNetIncome, c.MaxNetIncome)
}

func encodeState(state svc.State) url.Values {
	values := url.Values{}
	encodeCriteria(values, state.Criteria)
	if state.Sort.Key != domain.SortKeyNone {
		values.Set(paramSort, string(state.Sort.Key))
		values.Set(paramDirection, string(state.Sort.Direction))
	}
	if state.Page.CurrentPage > 1 {
		values.Set(paramPage, strconv.Itoa(state.Page.CurrentPage))
	}
	if state.Page.ItemsPerPage > 0 {
		values.Set(paramSize, strconv.Itoa(state.Page.ItemsPerPage))
	}
	if state.PanelOpen {
		values.Set(paramPanel, "open")
	}
	return values
}

func stateURL(path string, state svc.State) string {
	encoded := encodeState(state).Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}
