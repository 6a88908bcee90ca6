package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const SnapshotTableSchema = `
	CREATE TABLE IF NOT EXISTS statement_snapshots (
		id VARCHAR NOT NULL PRIMARY KEY,
		symbol VARCHAR NOT NULL,
		period VARCHAR NOT NULL,
		records INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`
const StatementTableSchema = `
	CREATE TABLE IF NOT EXISTS income_statements (
		snapshot_id VARCHAR NOT NULL,
		position INTEGER NOT NULL,
		date VARCHAR NOT NULL,
		calendar_year VARCHAR,
		symbol VARCHAR,
		period VARCHAR,
		revenue DOUBLE,
		net_income DOUBLE,
		gross_profit DOUBLE,
		eps DOUBLE,
		operating_income DOUBLE,
		PRIMARY KEY (snapshot_id, position)
	);
`

var bootQueries = []string{
	SnapshotTableSchema,
	StatementTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
