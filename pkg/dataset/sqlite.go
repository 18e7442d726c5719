package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hiredata-ai/hiredata-engine/pkg/apperrors"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// SQLiteStore persists datasets in a single sqlite file. Each dataset gets
// its own table; column order and types live in the dataset_schema table so
// Load can rebuild the exact schema.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the sqlite-backed store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS dataset_schema (
  dataset TEXT NOT NULL,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  PRIMARY KEY (dataset, position)
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// Save replaces the named dataset with the given table, atomically.
func (s *SQLiteStore) Save(ctx context.Context, name string, t *models.Table) error {
	if err := validateName(name); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_schema WHERE dataset = ?;`, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q;`, name)); err != nil {
		return err
	}

	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if err := validateName(c.Name); err != nil {
			return err
		}
		defs[i] = fmt.Sprintf("%q %s", c.Name, sqliteColumnType(c.Type))
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dataset_schema (dataset, position, name, type) VALUES (?, ?, ?, ?);`,
			name, i, c.Name, string(c.Type)); err != nil {
			return err
		}
	}

	createSQL := fmt.Sprintf(`CREATE TABLE %q (%s);`, name, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return err
	}

	if len(t.Rows) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q VALUES (%s);`, name, placeholders))
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		args := make([]any, len(t.Columns))
		for _, row := range t.Rows {
			for i, v := range row {
				args[i] = encodeValue(v)
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Load reads the named dataset back, preserving schema and row order.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*models.Table, error) {
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
	query := fmt.Sprintf(`SELECT %s FROM %q ORDER BY rowid;`, strings.Join(quoted, ", "), name)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		dests := make([]any, len(columns))
		for i, c := range columns {
			dests[i] = scanDest(c.Type)
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, err
		}
		row := make([]models.Value, len(columns))
		for i, c := range columns {
			row[i], err = decodeValue(dests[i], c.Type)
			if err != nil {
				return nil, err
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

func (s *SQLiteStore) loadSchema(ctx context.Context, name string) ([]models.Column, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, type FROM dataset_schema WHERE dataset = ? ORDER BY position;`, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
