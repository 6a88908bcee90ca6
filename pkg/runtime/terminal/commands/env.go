package commands

import (
	"context"
	"io"

	"github.com/de-tools/fin-atlas/pkg/services/config"
	"github.com/de-tools/fin-atlas/pkg/services/statements"
	duckdbstatements "github.com/de-tools/fin-atlas/pkg/store/duckdb/statements"
)

// SourceFactory opens a statement source for the resolved configuration.
type SourceFactory func(ctx context.Context, cfg *config.Config) (statements.Source, io.Closer, error)

// StoreFactory opens the snapshot store for the resolved configuration.
type StoreFactory func(cfg *config.Config) (duckdbstatements.Store, io.Closer, error)

// ConfigLoader resolves the configuration after flags are parsed.
type ConfigLoader func() (*config.Config, error)
