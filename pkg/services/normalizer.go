package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hiredata-ai/hiredata-engine/pkg/apperrors"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// DeriveFunc transforms a source value into the target column's value.
// It is applied before type coercion checks; a mapping without a DeriveFunc
// copies the source value through.
type DeriveFunc func(models.Value) models.Value

// FieldMapping declares how one target column of a normalized table is
// produced: which source column feeds it, the target type, and an optional
// derivation. Mappings are configuration handed to the normalizer, not
// per-field code.
type FieldMapping struct {
	Source string
	Target string
	Type   models.ColumnType
	Derive DeriveFunc
}

// OutputColumns returns the output schema a mapping list produces.
func OutputColumns(mappings []FieldMapping) []models.Column {
	columns := make([]models.Column, len(mappings))
	for i, m := range mappings {
		columns[i] = models.Column{Name: m.Target, Type: m.Type}
	}
	return columns
}

// Normalizer projects intermediate-layer tables onto the fixed primary-layer
// schemas. It is a pure transformation: the input table is never mutated and
// no output is produced on failure.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a normalizer.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger.Named("Normalizer")}
}

// Normalize applies the mapping list to the input table. Every mapping's
// source column must be present, otherwise a SchemaError is returned and no
// output is produced. A zero-row input is not an error: it yields an empty
// table carrying the full output schema.
func (n *Normalizer) Normalize(dataset string, in *models.Table, mappings []FieldMapping) (*models.Table, error) {
	sourceIdx := make([]int, len(mappings))
	for i, m := range mappings {
		idx := in.ColumnIndex(m.Source)
		if idx < 0 {
			return nil, apperrors.NewSchemaError(dataset, m.Source, "required column missing")
		}
		sourceIdx[i] = idx
	}

	out := models.NewTable(OutputColumns(mappings))

	if in.NumRows() == 0 {
		n.logger.Warn("Normalizing empty input",
			zap.String("dataset", dataset),
			zap.Error(apperrors.ErrEmptyInput))
		return out, nil
	}

	for _, row := range in.Rows {
		outRow := make([]models.Value, len(mappings))
		for i, m := range mappings {
			v := row[sourceIdx[i]]
			if m.Derive != nil {
				v = m.Derive(v)
			}
			coerced, err := coerceValue(v, m.Type)
			if err != nil {
				return nil, apperrors.NewSchemaError(dataset, m.Source, err.Error())
			}
			outRow[i] = coerced
		}
		out.Rows = append(out.Rows, outRow)
	}

	n.logger.Info("Normalized dataset",
		zap.String("dataset", dataset),
		zap.Int("rows", out.NumRows()),
		zap.Int("columns", len(out.Columns)))

	return out, nil
}

// coerceValue converts a value to the declared column type. Nulls pass
// through untouched; text holding digits converts to integer. Anything else
// that does not already match the target type is a schema violation.
func coerceValue(v models.Value, typ models.ColumnType) (models.Value, error) {
	if v.IsNull() || v.Type() == typ {
		return v, nil
	}
	if typ == models.TypeInteger {
		n, ok, err := v.CoerceInt()
		if err != nil {
			return models.Null(), err
		}
		if !ok {
			return models.Null(), nil
		}
		return models.Int(n), nil
	}
	if typ == models.TypeText {
		return models.Text(v.String()), nil
	}
	return models.Null(), fmt.Errorf("value has type %s, expected %s", v.Type(), typ)
}
