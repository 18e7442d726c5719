package dataset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hiredata-ai/hiredata-engine/pkg/apperrors"
	"github.com/hiredata-ai/hiredata-engine/pkg/database"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// PostgresStore persists datasets in the etl schema of a PostgreSQL
// database. Like the sqlite store it keeps column order and types in
// etl.dataset_schema; an explicit seq column preserves row order.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a postgres-backed store over an existing pool.
// The etl schema and the dataset_schema table come from migrations.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func pgColumnType(typ models.ColumnType) string {
	switch typ {
	case models.TypeInteger:
		return "BIGINT"
	case models.TypeBoolean:
		return "BOOLEAN"
	case models.TypeTimestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

func pgEncodeValue(v models.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case models.TypeInteger:
		return v.Int64()
	case models.TypeText:
		return v.Text()
	case models.TypeBoolean:
		return v.Bool()
	case models.TypeTimestamp:
		return v.Time().UTC()
	}
	return nil
}

// Save replaces the named dataset with the given table, atomically.
func (s *PostgresStore) Save(ctx context.Context, name string, t *models.Table) error {
	if err := validateName(name); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM etl.dataset_schema WHERE dataset = $1`, name); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS etl.%q`, name)); err != nil {
		return err
	}

	defs := make([]string, 0, len(t.Columns)+1)
	defs = append(defs, "seq BIGINT NOT NULL")
	for i, c := range t.Columns {
		if err := validateName(c.Name); err != nil {
			return err
		}
		defs = append(defs, fmt.Sprintf("%q %s", c.Name, pgColumnType(c.Type)))
		if _, err := tx.Exec(ctx,
			`INSERT INTO etl.dataset_schema (dataset, position, name, type) VALUES ($1, $2, $3, $4)`,
			name, i, c.Name, string(c.Type)); err != nil {
			return err
		}
	}

	createSQL := fmt.Sprintf(`CREATE TABLE etl.%q (%s)`, name, strings.Join(defs, ", "))
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return err
	}

	if len(t.Rows) > 0 {
		placeholders := make([]string, len(t.Columns)+1)
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		insertSQL := fmt.Sprintf(`INSERT INTO etl.%q VALUES (%s)`, name, strings.Join(placeholders, ", "))

		batch := &pgx.Batch{}
		for seq, row := range t.Rows {
			args := make([]any, 0, len(row)+1)
			args = append(args, int64(seq))
			for _, v := range row {
				args = append(args, pgEncodeValue(v))
			}
			batch.Queue(insertSQL, args...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Load reads the named dataset back, preserving schema and row order.
func (s *PostgresStore) Load(ctx context.Context, name string) (*models.Table, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	columns, err := s.loadSchema(ctx, name)
	if err != nil {
		return nil, err
	}

	t := models.NewTable(columns)

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = fmt.Sprintf("%q", c.Name)
	}
	query := fmt.Sprintf(`SELECT %s FROM etl.%q ORDER BY seq`, strings.Join(quoted, ", "), name)
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		dests := make([]any, len(columns))
		for i, c := range columns {
			switch c.Type {
			case models.TypeInteger:
				dests[i] = new(*int64)
			case models.TypeBoolean:
				dests[i] = new(*bool)
			case models.TypeTimestamp:
				dests[i] = new(*time.Time)
			default:
				dests[i] = new(*string)
			}
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, err
		}
		row := make([]models.Value, len(columns))
		for i, c := range columns {
			row[i] = pgDecodeValue(dests[i], c.Type)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

func pgDecodeValue(dest any, typ models.ColumnType) models.Value {
	switch typ {
	case models.TypeInteger:
		if p := *dest.(**int64); p != nil {
			return models.Int(*p)
		}
	case models.TypeBoolean:
		if p := *dest.(**bool); p != nil {
			return models.Bool(*p)
		}
	case models.TypeTimestamp:
		if p := *dest.(**time.Time); p != nil {
			return models.Timestamp(*p)
		}
	default:
		if p := *dest.(**string); p != nil {
			return models.Text(*p)
		}
	}
	return models.Null()
}

func (s *PostgresStore) loadSchema(ctx context.Context, name string) ([]models.Column, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name, type FROM etl.dataset_schema WHERE dataset = $1 ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.Column
	for rows.Next() {
		var colName, colType string
		if err := rows.Scan(&colName, &colType); err != nil {
			return nil, err
		}
		columns = append(columns, models.Column{Name: colName, Type: models.ColumnType(colType)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("load %q: %w", name, apperrors.ErrDatasetNotFound)
	}
	return columns, nil
}

// Close closes the underlying pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
