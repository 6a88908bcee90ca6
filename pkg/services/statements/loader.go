package statements

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Source provides income statements, either from the remote API or from a
// local snapshot.
type Source interface {
	IncomeStatements(ctx context.Context, query domain.StatementQuery) ([]domain.IncomeStatement, error)
}

// Status describes the outcome of the startup load.
type Status struct {
	Query    domain.StatementQuery
	Records  int
	Loaded   bool
	LoadedAt time.Time
	Err      error
}

// Loader fetches the canonical dataset once and serves it read-only.
type Loader struct {
	source Source
	query  domain.StatementQuery

	mu       sync.RWMutex
	records  []domain.IncomeStatement
	loaded   bool
	loadedAt time.Time
	err      error
}

func NewLoader(source Source, query domain.StatementQuery) *Loader {
	return &Loader{
		source: source,
		query:  query,
	}
}

// Load performs the single fetch. A failure is logged and remembered and the
// dataset stays empty; there is no retry.
func (l *Loader) Load(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	records, err := l.source.IncomeStatements(ctx, l.query)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.loaded = true
	l.loadedAt = time.Now()
	if err != nil {
		l.records = nil
		l.err = fmt.Errorf("failed to load income statements for %s: %w", l.query.Symbol, err)
		logger.Error().
			Err(err).
			Str("symbol", l.query.Symbol).
			Str("period", l.query.Period).
			Msg("failed to load income statements")
		return l.err
	}

	l.records = records
	l.err = nil
	logger.Info().
		Str("symbol", l.query.Symbol).
		Str("period", l.query.Period).
		Int("records", len(records)).
		Msg("income statements loaded")
	return nil
}

// Records returns the canonical dataset. Callers must not modify it.
func (l *Loader) Records() []domain.IncomeStatement {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records
}

// Alert returns the user-facing message for a failed load, or "".
func (l *Loader) Alert() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.err == nil {
		return ""
	}
	return "Could not load financial data: " + l.err.Error()
}

func (l *Loader) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Status{
		Query:    l.query,
		Records:  len(l.records),
		Loaded:   l.loaded,
		LoadedAt: l.loadedAt,
		Err:      l.err,
	}
}
