package statements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
	"github.com/de-tools/fin-atlas/pkg/models/store"
	"github.com/de-tools/fin-atlas/pkg/store/duckdb"
	"github.com/google/uuid"
)

// ErrNoSnapshot is returned when no snapshot exists for a query.
var ErrNoSnapshot = errors.New("no snapshot found")

type Store interface {
	Save(ctx context.Context, query domain.StatementQuery, records []domain.IncomeStatement) (string, error)
	ListSnapshots(ctx context.Context, symbol string) ([]store.Snapshot, error)
	IncomeStatements(ctx context.Context, query domain.StatementQuery) ([]domain.IncomeStatement, error)
}

type defaultStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db:  db,
		now: time.Now,
	}, nil
}

// Save writes records as a new snapshot and returns its id. If ctx carries a
// transaction the snapshot joins it, otherwise a new one is committed.
func (s *defaultStore) Save(
	ctx context.Context,
	query domain.StatementQuery,
	records []domain.IncomeStatement,
) (string, error) {
	tx := duckdb.GetTransaction(ctx)
	owned := tx == nil
	if owned {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return "", fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()
	}

	id := uuid.New().String()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO statement_snapshots (id, symbol, period, records, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, query.Symbol, query.Period, len(records), s.now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for i, r := range records {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO income_statements (
				snapshot_id, position, date, calendar_year, symbol, period,
				revenue, net_income, gross_profit, eps, operating_income
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, r.Date, r.CalendarYear, r.Symbol, r.Period,
			r.Revenue, r.NetIncome, r.GrossProfit, r.EPS, r.OperatingIncome,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert statement %s: %w", r.Date, err)
		}
	}

	if owned {
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("failed to commit snapshot: %w", err)
		}
	}
	return id, nil
}

func (s *defaultStore) ListSnapshots(ctx context.Context, symbol string) ([]store.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, period, records, created_at
		FROM statement_snapshots
		WHERE symbol = ?
		ORDER BY created_at DESC`,
		symbol,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []store.Snapshot
	for rows.Next() {
		var snap store.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Symbol, &snap.Period, &snap.Records, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// IncomeStatements returns the records of the most recent snapshot for the
// query, in their original order.
func (s *defaultStore) IncomeStatements(
	ctx context.Context,
	query domain.StatementQuery,
) ([]domain.IncomeStatement, error) {
	var snapshotID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM statement_snapshots
		WHERE symbol = ? AND period = ?
		ORDER BY created_at DESC
		LIMIT 1`,
		query.Symbol, query.Period,
	).Scan(&snapshotID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for %s (%s)", ErrNoSnapshot, query.Symbol, query.Period)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, calendar_year, symbol, period, revenue, net_income, gross_profit, eps, operating_income
		FROM income_statements
		WHERE snapshot_id = ?
		ORDER BY position`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query statements: %w", err)
	}
	defer rows.Close()

	var records []domain.IncomeStatement
	for rows.Next() {
		var r domain.IncomeStatement
		err := rows.Scan(
			&r.Date, &r.CalendarYear, &r.Symbol, &r.Period,
			&r.Revenue, &r.NetIncome, &r.GrossProfit, &r.EPS, &r.OperatingIncome,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
