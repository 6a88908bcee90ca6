package statements

import (
	"github.com/de-tools/fin-atlas/pkg/models/domain"
)

// State is everything needed to rebuild a Viewer. It is what the web layer
// carries between requests.
type State struct {
	Criteria  domain.FilterCriteria
	Sort      domain.SortConfig
	Page      domain.PageState
	PanelOpen bool
}

// View is a read-only snapshot of the viewer.
type View struct {
	Page      Page
	Criteria  domain.FilterCriteria
	Sort      domain.SortConfig
	PanelOpen bool
	Alert     string
	Empty     bool
}

// Viewer drives the filter -> sort -> paginate pipeline over a canonical
// dataset. It is not safe for concurrent use; build one per request.
type Viewer struct {
	records   []domain.IncomeStatement
	filter    Filter
	sort      domain.SortConfig
	page      domain.PageState
	panelOpen bool
	alert     string

	derived []domain.IncomeStatement
}

// NewViewer returns a viewer over records with no filter, no sort and the
// first page of the given size.
func NewViewer(records []domain.IncomeStatement, pageSize int) *Viewer {
	v := &Viewer{
		records: records,
		page:    NewPageState(pageSize),
	}
	v.refresh()
	return v
}

// Restore rebuilds a viewer from state. If the criteria are invalid the
// filter is left unapplied, the panel is opened and the validation error is
// returned and raised as the alert.
func Restore(records []domain.IncomeStatement, state State) (*Viewer, error) {
	v := NewViewer(records, state.Page.ItemsPerPage)
	if state.Sort.Key != domain.SortKeyNone {
		v.sort = domain.SortConfig{Key: state.Sort.Key, Direction: domain.SortAsc}
		if state.Sort.Descending() {
			v.sort.Direction = domain.SortDesc
		}
	}
	v.panelOpen = state.PanelOpen

	var err error
	if !state.Criteria.IsEmpty() {
		var f Filter
		f, err = Compile(state.Criteria)
		if err != nil {
			v.panelOpen = true
			v.alert = err.Error()
		} else {
			v.filter = f
		}
	}

	v.refresh()
	v.page = GoTo(v.page, state.Page.CurrentPage, len(v.derived))
	return v, err
}

func (v *Viewer) refresh() {
	v.derived = Sort(v.filter.Apply(v.records), v.sort)
	v.page = GoTo(v.page, v.page.CurrentPage, len(v.derived))
}

func (v *Viewer) OpenFilterPanel() {
	v.panelOpen = true
}

// CloseFilterPanel dismisses the panel without touching committed criteria.
func (v *Viewer) CloseFilterPanel() {
	v.panelOpen = false
	v.alert = ""
}

// ApplyFilters validates and commits criteria. On failure nothing but the
// alert changes and the panel stays open.
func (v *Viewer) ApplyFilters(criteria domain.FilterCriteria) error {
	f, err := Compile(criteria)
	if err != nil {
		v.panelOpen = true
		v.alert = err.Error()
		return err
	}

	v.filter = f
	v.panelOpen = false
	v.alert = ""
	v.page.CurrentPage = 1
	v.refresh()
	return nil
}

func (v *Viewer) SortBy(key domain.SortKey) {
	v.sort = Toggle(v.sort, key)
	v.refresh()
}

func (v *Viewer) GoToPage(page int) {
	v.page = GoTo(v.page, page, len(v.derived))
}

func (v *Viewer) NextPage() {
	v.GoToPage(v.page.CurrentPage + 1)
}

func (v *Viewer) PrevPage() {
	v.GoToPage(v.page.CurrentPage - 1)
}

func (v *Viewer) SetPageSize(size int) error {
	page, err := SetPageSize(v.page, size)
	if err != nil {
		return err
	}
	v.page = page
	return nil
}

// SetAlert raises a user-visible message, e.g. a failed data load.
func (v *Viewer) SetAlert(msg string) {
	v.alert = msg
}

// State returns the committed state of the viewer.
func (v *Viewer) State() State {
	return State{
		Criteria:  v.filter.Criteria(),
		Sort:      v.sort,
		Page:      v.page,
		PanelOpen: v.panelOpen,
	}
}

// Derived returns the full filtered and sorted sequence.
func (v *Viewer) Derived() []domain.IncomeStatement {
	return v.derived
}

func (v *Viewer) Snapshot() View {
	return View{
		Page:      Paginate(v.derived, v.page),
		Criteria:  v.filter.Criteria(),
		Sort:      v.sort,
		PanelOpen: v.panelOpen,
		Alert:     v.alert,
		Empty:     len(v.derived) == 0,
	}
}
