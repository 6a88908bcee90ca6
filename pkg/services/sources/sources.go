package sources

import (
	"context"
	"fmt"
	"io"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
	"github.com/de-tools/fin-atlas/pkg/services/config"
	"github.com/de-tools/fin-atlas/pkg/services/statements"
	"github.com/de-tools/fin-atlas/pkg/store/duckdb"
	duckdbstatements "github.com/de-tools/fin-atlas/pkg/store/duckdb/statements"
	"github.com/de-tools/fin-atlas/pkg/store/fmp"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Query returns the fetch parameters from cfg.
func Query(cfg *config.Config) domain.StatementQuery {
	return domain.StatementQuery{
		Symbol: cfg.API.Symbol,
		Period: cfg.API.Period,
	}
}

// NewRemote builds the FMP client, resolving the API key from cfg.
func NewRemote(ctx context.Context, cfg *config.Config) (statements.Source, io.Closer, error) {
	apiKey, err := cfg.ResolveAPIKey(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve api key: %w", err)
	}

	client, err := fmp.NewClient(fmp.Settings{
		BaseURL:       cfg.API.BaseURL,
		APIKey:        apiKey,
		Timeout:       cfg.API.Timeout,
		RatePerMinute: cfg.API.RatePerMinute,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create financial data client: %w", err)
	}
	return client, nopCloser{}, nil
}

// OpenStore opens the DuckDB snapshot store at cfg.Store.Path.
func OpenStore(cfg *config.Config) (duckdbstatements.Store, io.Closer, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.Store.Path})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	store, err := duckdbstatements.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}
	return store, db, nil
}

var defaultRegistry = DefaultRegistry()

// New returns the source selected by cfg.Source.
func New(ctx context.Context, cfg *config.Config) (statements.Source, io.Closer, error) {
	return defaultRegistry.Create(ctx, cfg.Source, cfg)
}
