package statements

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"sort"

	"github.com/de-tools/fin-atlas/pkg/adapters"
	"github.com/de-tools/fin-atlas/pkg/format"
	"github.com/de-tools/fin-atlas/pkg/models/api"
	"github.com/de-tools/fin-atlas/pkg/models/domain"
	svc "github.com/de-tools/fin-atlas/pkg/services/statements"
	"github.com/rs/zerolog"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var pageSizeOptions = []int{5, 10, 20, 50}

// Dataset is the read side of the startup load.
type Dataset interface {
	Records() []domain.IncomeStatement
	Alert() string
	Status() svc.Status
}

type Handler struct {
	dataset  Dataset
	pageSize int
}

func NewHandler(dataset Dataset, pageSize int) *Handler {
	if pageSize < 1 {
		pageSize = svc.DefaultPageSize
	}
	return &Handler{
		dataset:  dataset,
		pageSize: pageSize,
	}
}

type column struct {
	Label     string
	Link      string
	Indicator string
}

type row struct {
	Date            string
	Revenue         string
	NetIncome       string
	GrossProfit     string
	EPS             string
	OperatingIncome string
}

type hiddenField struct {
	Name  string
	Value string
}

type pageSizeOption struct {
	Value    int
	Selected bool
}

type pageData struct {
	Symbol        string
	Period        string
	View          svc.View
	Form          domain.FilterCriteria
	Columns       []column
	Rows          []row
	Hidden        []hiddenField
	PageSizes     []pageSizeOption
	TotalPages    int
	OpenFilterURL string
	CancelURL     string
	FilterAction  string
	PrevURL       string
	NextURL       string
}

func indicator(cfg domain.SortConfig, key domain.SortKey) string {
	if cfg.Key != key {
		return "↕"
	}
	if cfg.Descending() {
		return "▼"
	}
	return "▲"
}

func (h *Handler) buildPage(viewer *svc.Viewer, form domain.FilterCriteria) pageData {
	view := viewer.Snapshot()
	state := viewer.State()
	state.PanelOpen = false

	sortLink := func(key domain.SortKey) string {
		next := state
		next.Sort = svc.Toggle(state.Sort, key)
		return stateURL("/", next)
	}
	pageLink := func(page int) string {
		next := state
		next.Page.CurrentPage = page
		return stateURL("/", next)
	}

	open := state
	open.PanelOpen = true

	data := pageData{
		Symbol: h.dataset.Status().Query.Symbol,
		Period: h.dataset.Status().Query.Period,
		View:   view,
		Form:   form,
		Columns: []column{
			{Label: "Date", Link: sortLink(domain.SortKeyDate), Indicator: indicator(view.Sort, domain.SortKeyDate)},
			{Label: "Revenue", Link: sortLink(domain.SortKeyRevenue), Indicator: indicator(view.Sort, domain.SortKeyRevenue)},
			{Label: "Net Income", Link: sortLink(domain.SortKeyNetIncome), Indicator: indicator(view.Sort, domain.SortKeyNetIncome)},
			{Label: "Gross Profit"},
			{Label: "EPS (Earnings Per Share)"},
			{Label: "Operating Income"},
		},
		TotalPages:    max(view.Page.TotalPages, 1),
		OpenFilterURL: stateURL("/", open),
		CancelURL:     stateURL("/", state),
		FilterAction:  stateURL("/filter", state),
		PrevURL:       pageLink(view.Page.CurrentPage - 1),
		NextURL:       pageLink(view.Page.CurrentPage + 1),
	}

	for _, s := range view.Page.Items {
		data.Rows = append(data.Rows, row{
			Date:            s.Date,
			Revenue:         format.Amount(s.Revenue),
			NetIncome:       format.Amount(s.NetIncome),
			GrossProfit:     format.Amount(s.GrossProfit),
			EPS:             format.EPS(s.EPS),
			OperatingIncome: format.Amount(s.OperatingIncome),
		})
	}

	hidden := url.Values{}
	encodeCriteria(hidden, state.Criteria)
	if state.Sort.Key != domain.SortKeyNone {
		hidden.Set(paramSort, string(state.Sort.Key))
		hidden.Set(paramDirection, string(state.Sort.Direction))
	}
	names := make([]string, 0, len(hidden))
	for name := range hidden {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data.Hidden = append(data.Hidden, hiddenField{Name: name, Value: hidden.Get(name)})
	}

	sizes := pageSizeOptions
	if !containsInt(sizes, view.Page.ItemsPerPage) {
		sizes = append([]int{view.Page.ItemsPerPage}, sizes...)
	}
	for _, size := range sizes {
		data.PageSizes = append(data.PageSizes, pageSizeOption{Value: size, Selected: size == view.Page.ItemsPerPage})
	}

	return data
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to render statements page")
	}
}

// restore rebuilds the viewer for a request and raises the load alert when
// nothing more specific is pending.
func (h *Handler) restore(state svc.State) (*svc.Viewer, error) {
	viewer, err := svc.Restore(h.dataset.Records(), state)
	if err == nil {
		if alert := h.dataset.Alert(); alert != "" {
			viewer.SetAlert(alert)
		}
	}
	return viewer, err
}

// Index renders the statements table for the state in the query string.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	state, err := decodeState(r.URL.Query(), h.pageSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	viewer, err := h.restore(state)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("ignoring invalid filter in query")
	}

	form := state.Criteria
	h.render(w, r, http.StatusOK, h.buildPage(viewer, form))
}

// ApplyFilters handles the filter panel submission. The committed state
// travels in the query string, the new criteria in the form body.
func (h *Handler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	state, err := decodeState(r.URL.Query(), h.pageSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	viewer, err := h.restore(state)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("ignoring invalid filter in query")
	}

	criteria := criteriaFromValues(r.PostForm)
	if err := viewer.ApplyFilters(criteria); err != nil {
		var vErr *svc.ValidationError
		if !errors.As(err, &vErr) {
			logger.Error().
				Err(err).
				Msg("failed to apply filters")
			http.Error(w, "failed to apply filters", http.StatusInternalServerError)
			return
		}
		logger.Info().
			Str("field", vErr.Field).
			Msg("filter rejected")
		h.render(w, r, http.StatusUnprocessableEntity, h.buildPage(viewer, criteria))
		return
	}

	http.Redirect(w, r, stateURL("/", viewer.State()), http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode response")
	}
}

// ListStatements is the JSON form of Index.
func (h *Handler) ListStatements(w http.ResponseWriter, r *http.Request) {
	state, err := decodeState(r.URL.Query(), h.pageSize)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	viewer, err := h.restore(state)
	if err != nil {
		var vErr *svc.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, r, http.StatusBadRequest, api.Error{Error: vErr.Message, Field: vErr.Field})
			return
		}
		writeJSON(w, r, http.StatusInternalServerError, api.Error{Error: err.Error()})
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapViewToAPI(viewer.Snapshot()))
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, adapters.MapStatusToAPI(h.dataset.Status()))
}
