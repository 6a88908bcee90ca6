package commands

import (
	"fmt"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
	"github.com/de-tools/fin-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/fin-atlas/pkg/services/sources"
	"github.com/de-tools/fin-atlas/pkg/services/statements"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ShowCmd struct {
	criteria domain.FilterCriteria
	sortKey  string
	desc     bool
	page     int
	pageSize int

	loadConfig ConfigLoader
	sources    SourceFactory
	reporter   *export.Reporter
}

func NewShowCmd(loadConfig ConfigLoader, sources SourceFactory, reporter *export.Reporter) *cobra.Command {
	sc := &ShowCmd{loadConfig: loadConfig, sources: sources, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch income statements and print a filtered, sorted page",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.criteria.StartYear, "start", "", "Start year (YYYY)")
	cmd.Flags().StringVar(&sc.criteria.EndYear, "end", "", "End year (YYYY)")
	cmd.Flags().StringVar(&sc.criteria.MinRevenue, "min-revenue", "", "Minimum revenue")
	cmd.Flags().StringVar(&sc.criteria.MaxRevenue, "max-revenue", "", "Maximum revenue")
	cmd.Flags().StringVar(&sc.criteria.MinNetIncome, "min-net-income", "", "Minimum net income")
	cmd.Flags().StringVar(&sc.criteria.MaxNetIncome, "max-net-income", "", "Maximum net income")
	cmd.Flags().StringVar(&sc.sortKey, "sort", "", "Sort column: date, revenue or netIncome")
	cmd.Flags().BoolVar(&sc.desc, "desc", false, "Sort in descending order")
	cmd.Flags().IntVar(&sc.page, "page", 1, "Page to print")
	cmd.Flags().IntVar(&sc.pageSize, "page-size", 0, "Rows per page (defaults to view.page_size)")

	return cmd
}

func (sc *ShowCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	key, ok := domain.ParseSortKey(sc.sortKey)
	if !ok {
		return fmt.Errorf("unsupported sort column %q: expected date, revenue or netIncome", sc.sortKey)
	}
	if _, err := statements.Compile(sc.criteria); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	cfg, err := sc.loadConfig()
	if err != nil {
		return err
	}
	pageSize := sc.pageSize
	if pageSize == 0 {
		pageSize = cfg.View.PageSize
	}
	if pageSize < 1 {
		return fmt.Errorf("page size must be at least 1, got %d", pageSize)
	}

	source, closer, err := sc.sources(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close source")
		}
	}()

	query := sources.Query(cfg)
	loader := statements.NewLoader(source, query)
	if err := loader.Load(ctx); err != nil {
		return err
	}

	direction := domain.SortAsc
	if sc.desc {
		direction = domain.SortDesc
	}
	viewer, err := statements.Restore(loader.Records(), statements.State{
		Criteria: sc.criteria,
		Sort:     domain.SortConfig{Key: key, Direction: direction},
		Page:     domain.PageState{CurrentPage: sc.page, ItemsPerPage: pageSize},
	})
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	return sc.reporter.Handle(&export.Report{
		Query: query,
		View:  viewer.Snapshot(),
	})
}
