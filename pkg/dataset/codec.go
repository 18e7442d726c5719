package dataset

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// encodeValue converts a table cell to a database/sql argument.
// Booleans are stored as 0/1 so the same encoding works on sqlite.
func encodeValue(v models.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case models.TypeInteger:
		return v.Int64()
	case models.TypeText:
		return v.Text()
	case models.TypeBoolean:
		if v.Bool() {
			return int64(1)
		}
		return int64(0)
	case models.TypeTimestamp:
		return v.Time().UTC().Format(time.RFC3339Nano)
	}
	return nil
}

// scanDest returns a scan destination suitable for the column type.
func scanDest(typ models.ColumnType) any {
	switch typ {
	case models.TypeInteger, models.TypeBoolean:
		return new(sql.NullInt64)
	default:
		return new(sql.NullString)
	}
}

// decodeValue converts a scanned destination back into a table cell.
func decodeValue(dest any, typ models.ColumnType) (models.Value, error) {
	switch typ {
	case models.TypeInteger:
		d := dest.(*sql.NullInt64)
		if !d.Valid {
			return models.Null(), nil
		}
		return models.Int(d.Int64), nil
	case models.TypeBoolean:
		d := dest.(*sql.NullInt64)
		if !d.Valid {
			return models.Null(), nil
		}
		return models.Bool(d.Int64 != 0), nil
	case models.TypeText:
		d := dest.(*sql.NullString)
		if !d.Valid {
			return models.Null(), nil
		}
		return models.Text(d.String), nil
	case models.TypeTimestamp:
		d := dest.(*sql.NullString)
		if !d.Valid {
			return models.Null(), nil
		}
		t, err := time.Parse(time.RFC3339Nano, d.String)
		if err != nil {
			return models.Null(), fmt.Errorf("parse timestamp %q: %w", d.String, err)
		}
		return models.Timestamp(t), nil
	}
	return models.Null(), fmt.Errorf("unknown column type %q", typ)
}

// sqliteColumnType maps a table column type to its sqlite storage type.
func sqliteColumnType(typ models.ColumnType) string {
	switch typ {
	case models.TypeInteger, models.TypeBoolean:
		return "INTEGER"
	default:
		return "TEXT"
	}
}
