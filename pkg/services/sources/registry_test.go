package sources

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
	"github.com/de-tools/fin-atlas/pkg/services/config"
	"github.com/de-tools/fin-atlas/pkg/services/statements"
	"github.com/de-tools/fin-atlas/pkg/store/fmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct{}

func (fixedSource) IncomeStatements(context.Context, domain.StatementQuery) ([]domain.IncomeStatement, error) {
	return []domain.IncomeStatement{{Date: "2023-09-30"}}, nil
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	err := r.Register("fixed", func(context.Context, *config.Config) (statements.Source, io.Closer, error) {
		return fixedSource{}, nopCloser{}, nil
	})
	require.NoError(t, err)

	source, closer, err := r.Create(context.Background(), "fixed", &config.Config{})
	require.NoError(t, err)
	defer closer.Close()

	records, err := source.IncomeStatements(context.Background(), domain.StatementQuery{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	factory := func(context.Context, *config.Config) (statements.Source, io.Closer, error) {
		return fixedSource{}, nopCloser{}, nil
	}

	assert.Error(t, r.Register("", factory))
	assert.Error(t, r.Register("fixed", nil))
	require.NoError(t, r.Register("fixed", factory))
	assert.Error(t, r.Register("fixed", factory))

	_, _, err := r.Create(context.Background(), "missing", &config.Config{})
	assert.Error(t, err)
}

func TestRegistry_CreateNilCloser(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fixed", func(context.Context, *config.Config) (statements.Source, io.Closer, error) {
		return fixedSource{}, nil, nil
	}))

	_, closer, err := r.Create(context.Background(), "fixed", &config.Config{})

	require.NoError(t, err)
	require.NotNil(t, closer)
	assert.NoError(t, closer.Close())
}

type trackingCloser struct {
	closed bool
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return nil
}

func TestRegistry_CreateNilSource(t *testing.T) {
	r := NewRegistry()
	closer := &trackingCloser{}
	require.NoError(t, r.Register("broken", func(context.Context, *config.Config) (statements.Source, io.Closer, error) {
		return nil, closer, nil
	}))

	_, _, err := r.Create(context.Background(), "broken", &config.Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned no source")
	assert.True(t, closer.closed)
}

func TestRegistry_CreateWrapsFactoryError(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("down", func(context.Context, *config.Config) (statements.Source, io.Closer, error) {
		return nil, nil, errors.New("connection refused")
	}))

	_, _, err := r.Create(context.Background(), "down", &config.Config{})

	require.Error(t, err)
	assert.Equal(t, "failed to open down source: connection refused", err.Error())
}

func TestDefaultRegistry_ListSources(t *testing.T) {
	assert.Equal(t, []string{"duckdb", "fmp"}, DefaultRegistry().ListSources())
}

func TestNew_RemoteSource(t *testing.T) {
	cfg := &config.Config{
		Source: config.SourceFMP,
		API:    config.APIConfig{Key: "secret", Symbol: "AAPL", Period: "annual"},
	}

	source, closer, err := New(context.Background(), cfg)

	require.NoError(t, err)
	defer closer.Close()
	assert.IsType(t, &fmp.Client{}, source)
	assert.Equal(t, domain.StatementQuery{Symbol: "AAPL", Period: "annual"}, Query(cfg))
}

func TestNew_RemoteSourceWithoutKey(t *testing.T) {
	cfg := &config.Config{
		Source: config.SourceFMP,
		API:    config.APIConfig{Profile: "default", Credentials: t.TempDir() + "/missing"},
	}

	_, _, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
