package statements

import (
	"fmt"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
)

const DefaultPageSize = 10

// Page is one slice of the derived dataset together with its position.
type Page struct {
	Items        []domain.IncomeStatement
	CurrentPage  int
	ItemsPerPage int
	TotalPages   int
	TotalItems   int
	HasPrev      bool
	HasNext      bool
}

// NewPageState returns page 1 with the given size, falling back to
// DefaultPageSize for sizes below 1.
func NewPageState(size int) domain.PageState {
	if size < 1 {
		size = DefaultPageSize
	}
	return domain.PageState{CurrentPage: 1, ItemsPerPage: size}
}

// ClampPage bounds page to [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate slices records for state. The page number is clamped first.
func Paginate(records []domain.IncomeStatement, state domain.PageState) Page {
	if state.ItemsPerPage < 1 {
		state.ItemsPerPage = DefaultPageSize
	}
	total := len(records)
	totalPages := state.TotalPages(total)
	current := ClampPage(state.CurrentPage, totalPages)

	start := (current - 1) * state.ItemsPerPage
	if start > total {
		start = total
	}
	end := min(start+state.ItemsPerPage, total)

	return Page{
		Items:        records[start:end],
		CurrentPage:  current,
		ItemsPerPage: state.ItemsPerPage,
		TotalPages:   totalPages,
		TotalItems:   total,
		HasPrev:      current > 1,
		HasNext:      current < totalPages,
	}
}

// GoTo moves to page, clamped against count items.
func GoTo(state domain.PageState, page, count int) domain.PageState {
	state.CurrentPage = ClampPage(page, state.TotalPages(count))
	return state
}

// SetPageSize changes the page size and returns to the first page.
func SetPageSize(state domain.PageState, size int) (domain.PageState, error) {
	if size < 1 {
		return state, fmt.Errorf("page size must be at least 1, got %d", size)
	}
	return domain.PageState{CurrentPage: 1, ItemsPerPage: size}, nil
}
