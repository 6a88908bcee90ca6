package statements

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/de-tools/fin-atlas/pkg/models/api"
	"github.com/de-tools/fin-atlas/pkg/models/domain"
	svc "github.com/de-tools/fin-atlas/pkg/services/statements"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDataset struct {
	records []domain.IncomeStatement
	alert   string
}

func (s *stubDataset) Records() []domain.IncomeStatement { return s.records }
func (s *stubDataset) Alert() string                     { return s.alert }
func (s *stubDataset) Status() svc.Status {
	return svc.Status{
		Query:   domain.StatementQuery{Symbol: "AAPL", Period: "annual"},
		Records: len(s.records),
		Loaded:  true,
	}
}

func sampleStatements() []domain.IncomeStatement {
	return []domain.IncomeStatement{
		{Date: "2023-09-30", CalendarYear: "2023", Revenue: 383285000000, NetIncome: 96995000000, GrossProfit: 169148000000, EPS: 6.16, OperatingIncome: 114301000000},
		{Date: "2022-09-24", CalendarYear: "2022", Revenue: 394328000000, NetIncome: 99803000000, GrossProfit: 170782000000, EPS: 6.15, OperatingIncome: 119437000000},
		{Date: "2021-09-25", CalendarYear: "2021", Revenue: 365817000000, NetIncome: 94680000000, GrossProfit: 152836000000, EPS: 5.67, OperatingIncome: 108949000000},
		{Date: "2020-09-26", CalendarYear: "2020", Revenue: 274515000000, NetIncome: 57411000000, GrossProfit: 104956000000, EPS: 3.31, OperatingIncome: 66288000000},
	}
}

func setupRouter(dataset Dataset) *chi.Mux {
	h := NewHandler(dataset, 10)
	router := chi.NewRouter()
	router.Get("/", h.Index)
	router.Post("/filter", h.ApplyFilters)
	router.Get("/api/v1/statements", h.ListStatements)
	router.Get("/api/v1/status", h.GetStatus)
	return router
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func columnValues(doc *goquery.Document, column int) []string {
	var values []string
	doc.Find("#statements tbody tr").Each(func(_ int, tr *goquery.Selection) {
		values = append(values, strings.TrimSpace(tr.Find("td").Eq(column).Text()))
	})
	return values
}

func TestIndex_RendersTable(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)

	assert.Equal(t, []string{"2023-09-30", "2022-09-24", "2021-09-25", "2020-09-26"}, columnValues(doc, 0))
	revenue := columnValues(doc, 1)
	require.Len(t, revenue, 4)
	assert.Equal(t, "$394.33B", revenue[1])
	assert.Equal(t, "$365.82B", revenue[2])
	assert.Equal(t, []string{"6.16", "6.15", "5.67", "3.31"}, columnValues(doc, 4))
	assert.Equal(t, 6, doc.Find("#statements thead th").Length())
	assert.Equal(t, 0, doc.Find(".dialog").Length())
	assert.Equal(t, 0, doc.Find(".alert").Length())
}

func TestIndex_FilterSortAndPage(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := serve(router, httptest.NewRequest(http.MethodGet,
		"/?start=2021&end=2023&sort=revenue&dir=desc&size=2&page=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)

	assert.Equal(t, []string{"2021-09-25"}, columnValues(doc, 0))
	assert.Equal(t, "Page 2 of 2", strings.TrimSpace(doc.Find(".position").Text()))
	assert.Equal(t, 1, doc.Find(".prev").Length())
	assert.Equal(t, 0, doc.Find(".next").Length())

	revenueLink, ok := doc.Find("th.sortable a").Eq(1).Attr("href")
	require.True(t, ok)
	link, err := url.Parse(revenueLink)
	require.NoError(t, err)
	assert.Equal(t, "revenue", link.Query().Get("sort"))
	assert.Equal(t, "asc", link.Query().Get("dir"))
	assert.Equal(t, "2021", link.Query().Get("start"))
	assert.Contains(t, doc.Find("th.sortable a").Eq(1).Text(), "▼")
}

func TestIndex_EmptyState(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/?start=1990&end=1991", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	assert.Equal(t, "No data matches your filter criteria.", strings.TrimSpace(doc.Find("tr.empty td").Text()))
}

func TestIndex_LoadFailureShowsAlert(t *testing.T) {
	router := setupRouter(&stubDataset{alert: "Could not load financial data: boom"})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	assert.Equal(t, "Could not load financial data: boom", strings.TrimSpace(doc.Find(".alert").Text()))
	assert.Equal(t, 1, doc.Find("tr.empty").Length())
}

func TestIndex_InvalidQueryFilterOpensPanel(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/?minRevenue=100", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	assert.Contains(t, doc.Find(".alert").Text(), "fill both")
	assert.Equal(t, 1, doc.Find(".dialog").Length())
	assert.Len(t, columnValues(doc, 0), 4)
}

func TestIndex_BadPagingParameters(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	for _, path := range []string{"/?page=zero", "/?size=0", "/?sort=eps", "/?dir=up"} {
		rec := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestIndex_OpenPanelKeepsCommittedValues(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/?start=2021&end=2022&panel=open", nil))

	doc := parseHTML(t, rec)
	start, _ := doc.Find(`.dialog input[name="start"]`).Attr("value")
	assert.Equal(t, "2021", start)

	cancel, _ := doc.Find(".dialog .cancel").Attr("href")
	assert.NotContains(t, cancel, "panel=open")
	assert.Contains(t, cancel, "start=2021")
}

func postFilter(router http.Handler, query string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/filter"+query, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(router, req)
}

func TestApplyFilters_RedirectsOnSuccess(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := postFilter(router, "?sort=date&dir=desc&page=3&size=1", url.Values{
		"start": {"2021"},
		"end":   {"2022"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", location.Path)
	q := location.Query()
	assert.Equal(t, "2021", q.Get("start"))
	assert.Equal(t, "2022", q.Get("end"))
	assert.Equal(t, "date", q.Get("sort"))
	assert.Equal(t, "desc", q.Get("dir"))
	assert.Equal(t, "", q.Get("page"))
	assert.Equal(t, "1", q.Get("size"))
	assert.Equal(t, "", q.Get("panel"))
}

func TestApplyFilters_RejectsInvalidInput(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := postFilter(router, "?start=2020&end=2021", url.Values{
		"minRevenue": {"100"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	doc := parseHTML(t, rec)
	assert.Contains(t, doc.Find(".alert").Text(), "fill both")
	assert.Equal(t, 1, doc.Find(".dialog").Length())

	minRevenue, _ := doc.Find(`.dialog input[name="minRevenue"]`).Attr("value")
	assert.Equal(t, "100", minRevenue)

	// the previously committed filter is still applied
	assert.Equal(t, []string{"2021-09-25", "2020-09-26"}, columnValues(doc, 0))
}

func TestListStatements(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := serve(router, httptest.NewRequest(http.MethodGet,
		"/api/v1/statements?sort=netIncome&dir=asc&size=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var page api.StatementPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 3)
	assert.Equal(t, "2020-09-26", page.Items[0].Date)
	assert.Equal(t, "2023-09-30", page.Items[2].Date)
	assert.Equal(t, api.Pagination{Page: 1, PageSize: 3, Total: 4, TotalPages: 2, HasNext: true}, page.Pagination)
	assert.Equal(t, api.Sort{Key: "netIncome", Direction: "asc"}, page.Sort)
}

func TestListStatements_ValidationError(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/statements?minRevenue=100", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body api.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "fill both")
	assert.Equal(t, "maxRevenue", body.Field)
}

func TestGetStatus(t *testing.T) {
	router := setupRouter(&stubDataset{records: sampleStatements()})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status api.DatasetStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "AAPL", status.Symbol)
	assert.Equal(t, 4, status.Records)
	assert.True(t, status.Loaded)
}
