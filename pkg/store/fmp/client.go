package fmp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/de-tools/fin-atlas/pkg/adapters"
	"github.com/de-tools/fin-atlas/pkg/models/domain"
	"github.com/de-tools/fin-atlas/pkg/models/store"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://financialmodelingprep.com"

	incomeStatementPath = "/api/v3/income-statement/"
	maxSnippet          = 512
	maxBodyBytes        = 10 << 20
	redacted            = "REDACTED"
)

// APIError is returned when the provider answers with an error status or an
// error document instead of a statement list.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("financial data API error (status %d): %s", e.StatusCode, e.Message)
}

type Settings struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RatePerMinute int
	HTTPClient    *http.Client
}

// Client fetches income statements from the Financial Modeling Prep API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(settings Settings) (*Client, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	baseURL := strings.TrimRight(settings.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	httpClient := settings.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: settings.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if settings.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(settings.RatePerMinute)/60.0), 1)
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     settings.APIKey,
		httpClient: httpClient,
		limiter:    limiter,
	}, nil
}

func (c *Client) statementsURL(query domain.StatementQuery) string {
	params := url.Values{}
	params.Set("period", query.Period)
	params.Set("apikey", c.apiKey)
	return c.baseURL + incomeStatementPath + url.PathEscape(query.Symbol) + "?" + params.Encode()
}

// IncomeStatements performs a single GET for the symbol and period. It does
// not retry.
func (c *Client) IncomeStatements(
	ctx context.Context,
	query domain.StatementQuery,
) ([]domain.IncomeStatement, error) {
	logger := zerolog.Ctx(ctx)

	if query.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if query.Period == "" {
		query.Period = "annual"
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statementsURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income statements: %w", c.redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug().
		Str("symbol", query.Symbol).
		Str("period", query.Period).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("income statements fetched")

	records, err := decodeStatements(resp.StatusCode, body)
	if err != nil {
		return nil, err
	}
	return adapters.MapStoreStatementsToDomain(records), nil
}

// redact strips the API key from transport errors, which quote the request
// URL.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}
	if strings.Contains(err.Error(), c.apiKey) {
		return errors.New(strings.ReplaceAll(err.Error(), c.apiKey, redacted))
	}
	return err
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return redacted
	}
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", redacted)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func decodeStatements(status int, body []byte) ([]store.IncomeStatement, error) {
	trimmed := bytes.TrimSpace(body)

	if status < 200 || status > 299 {
		return nil, &APIError{StatusCode: status, Message: errorMessage(trimmed)}
	}
	if len(trimmed) == 0 {
		return nil, &APIError{StatusCode: status, Message: "empty response"}
	}
	if trimmed[0] == '{' {
		return nil, &APIError{StatusCode: status, Message: errorMessage(trimmed)}
	}

	var records []store.IncomeStatement
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("invalid JSON from income statement endpoint: %w snippet=%q", err, snippet(trimmed))
	}
	return records, nil
}

// errorMessage extracts the provider's error text, falling back to a body
// snippet.
func errorMessage(body []byte) string {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err == nil {
		for _, key := range []string{"Error Message", "message", "error"} {
			if msg, ok := doc[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	if len(body) == 0 {
		return "empty response"
	}
	return snippet(body)
}

func snippet(body []byte) string {
	if len(body) <= maxSnippet {
		return string(body)
	}
	cut := maxSnippet
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}
