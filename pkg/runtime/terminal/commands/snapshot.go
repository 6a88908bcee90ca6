package commands

import (
	"fmt"
	"io"

	"github.com/de-tools/fin-atlas/pkg/services/sources"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type SnapshotCmd struct {
	loadConfig ConfigLoader
	remote     SourceFactory
	stores     StoreFactory
	output     io.Writer
}

func NewSnapshotCmd(loadConfig ConfigLoader, remote SourceFactory, stores StoreFactory, output io.Writer) *cobra.Command {
	sc := &SnapshotCmd{loadConfig: loadConfig, remote: remote, stores: stores, output: output}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch income statements from the API and store them in DuckDB",
		RunE:  sc.save,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored snapshots for the configured symbol",
		RunE:  sc.list,
	})

	return cmd
}

func (sc *SnapshotCmd) save(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := sc.loadConfig()
	if err != nil {
		return err
	}

	source, sourceCloser, err := sc.remote(ctx, cfg)
	if err != nil {
		return err
	}
	defer sourceCloser.Close()

	query := sources.Query(cfg)
	records, err := source.IncomeStatements(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to fetch income statements: %w", err)
	}

	store, storeCloser, err := sc.stores(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := storeCloser.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close snapshot store")
		}
	}()

	id, err := store.Save(ctx, query, records)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	logger.Info().
		Str("snapshot", id).
		Int("records", len(records)).
		Msg("snapshot saved")
	_, err = fmt.Fprintf(sc.output, "Saved snapshot %s with %d %s records for %s\n",
		id, len(records), query.Period, query.Symbol)
	return err
}

func (sc *SnapshotCmd) list(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := sc.loadConfig()
	if err != nil {
		return err
	}

	store, closer, err := sc.stores(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	snapshots, err := store.ListSnapshots(ctx, cfg.API.Symbol)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		_, err = fmt.Fprintf(sc.output, "No snapshots stored for %s\n", cfg.API.Symbol)
		return err
	}
	for _, snap := range snapshots {
		_, err = fmt.Fprintf(sc.output, "%s  %s  %-8s %3d records  %s\n",
			snap.ID, snap.Symbol, snap.Period, snap.Records, snap.CreatedAt.Format("2006-01-02 15:04:05"))
		if err != nil {
			return err
		}
	}
	return nil
}
