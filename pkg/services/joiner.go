package services

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hiredata-ai/hiredata-engine/pkg/apperrors"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// hiredToken is the substring of status_text marking a hired outcome. The
// match is case-sensitive, exactly as the source system encodes it (the SAP
// flag match is case-insensitive; the asymmetry is intentional).
const hiredToken = "Contratado"

// Entity labels used for join error reporting and column qualification.
const (
	entityJob       = "job_openings"
	entityProspect  = "prospects"
	entityApplicant = "applicants"
)

// CoreJoiner produces the denormalized training table: job openings
// left-joined to prospects on job_id = prospect_id, the result left-joined
// to applicants on code = applicant_code, plus the derived hired_label.
// Both joins preserve every left-side row (null-filled when nothing
// matches) and fan out on multiple matches. Inputs are never mutated.
type CoreJoiner struct {
	logger *zap.Logger
}

// NewCoreJoiner creates a core joiner.
func NewCoreJoiner(logger *zap.Logger) *CoreJoiner {
	return &CoreJoiner{logger: logger.Named("CoreJoiner")}
}

// joinedRow pairs an output row with its ordering key. Output order is
// job_id ascending, then prospect_id ascending with nulls last, then
// applicant_code ascending with nulls last.
type joinedRow struct {
	jobNull bool
	jobKey  int64
	pNull   bool
	pKey    int64
	aNull   bool
	aKey    int64
	values  []models.Value
}

// Join runs the two-stage left join over the primary-layer tables.
func (j *CoreJoiner) Join(jobs, prospects, applicants *models.Table) (*models.Table, error) {
	jobKeyIdx := jobs.ColumnIndex(models.ColJobID)
	if jobKeyIdx < 0 {
		return nil, apperrors.NewSchemaError(entityJob, models.ColJobID, "required column missing")
	}
	pKeyIdx := prospects.ColumnIndex(models.ColProspectID)
	if pKeyIdx < 0 {
		return nil, apperrors.NewSchemaError(entityProspect, models.ColProspectID, "required column missing")
	}
	codeIdx := prospects.ColumnIndex(models.ColCode)
	if codeIdx < 0 {
		return nil, apperrors.NewSchemaError(entityProspect, models.ColCode, "required column missing")
	}
	statusIdx := prospects.ColumnIndex(models.ColStatusText)
	if statusIdx < 0 {
		return nil, apperrors.NewSchemaError(entityProspect, models.ColStatusText, "required column missing")
	}
	aKeyIdx := applicants.ColumnIndex(models.ColApplicantCode)
	if aKeyIdx < 0 {
		return nil, apperrors.NewSchemaError(entityApplicant, models.ColApplicantCode, "required column missing")
	}

	prospectsByJob, err := indexRows(prospects, pKeyIdx, entityProspect, models.ColProspectID)
	if err != nil {
		return nil, err
	}
	applicantsByCode, err := indexRows(applicants, aKeyIdx, entityApplicant, models.ColApplicantCode)
	if err != nil {
		return nil, err
	}

	out := models.NewTable(joinedColumns(jobs, prospects, applicants))

	if jobs.NumRows() == 0 {
		j.logger.Warn("Joining empty job opening table", zap.Error(apperrors.ErrEmptyInput))
		return out, nil
	}

	rows := make([]joinedRow, 0, jobs.NumRows())
	nullProspect := nullRow(len(prospects.Columns))
	nullApplicant := nullRow(len(applicants.Columns))

	for i, jobRow := range jobs.Rows {
		jobKey, jobOK, err := jobRow[jobKeyIdx].CoerceInt()
		if err != nil {
			return nil, apperrors.NewJoinKeyTypeError(entityJob, models.ColJobID, i, err.Error())
		}

		var matches []int
		if jobOK {
			matches = prospectsByJob[jobKey]
		}

		if len(matches) == 0 {
			rows = append(rows, joinedRow{
				jobNull: !jobOK,
				jobKey:  jobKey,
				pNull:   true,
				aNull:   true,
				values:  assembleRow(jobRow, nullProspect, nullApplicant, 0),
			})
			continue
		}

		for _, pi := range matches {
			pRow := prospects.Rows[pi]
			label := hiredLabel(pRow[statusIdx])
			code, codeOK, err := pRow[codeIdx].CoerceInt()
			if err != nil {
				return nil, apperrors.NewJoinKeyTypeError(entityProspect, models.ColCode, pi, err.Error())
			}

			var aMatches []int
			if codeOK {
				aMatches = applicantsByCode[code]
			}

			if len(aMatches) == 0 {
				rows = append(rows, joinedRow{
					jobNull: !jobOK,
					jobKey:  jobKey,
					pKey:    jobKey,
					aNull:   true,
					values:  assembleRow(jobRow, pRow, nullApplicant, label),
				})
				continue
			}

			for _, ai := range aMatches {
				rows = append(rows, joinedRow{
					jobNull: !jobOK,
					jobKey:  jobKey,
					pKey:    jobKey,
					aKey:    code,
					values:  assembleRow(jobRow, pRow, applicants.Rows[ai], label),
				})
			}
		}
	}

	sortJoined(rows)
	for _, r := range rows {
		out.Rows = append(out.Rows, r.values)
	}

	j.logger.Info("Joined primary tables",
		zap.Int("job_openings", jobs.NumRows()),
		zap.Int("prospects", prospects.NumRows()),
		zap.Int("applicants", applicants.NumRows()),
		zap.Int("output_rows", out.NumRows()))

	return out, nil
}

// indexRows groups row positions by integer join key. Rows with a null key
// are left out: a null never matches anything.
func indexRows(t *models.Table, keyIdx int, entity, column string) (map[int64][]int, error) {
	index := make(map[int64][]int)
	for i, row := range t.Rows {
		key, ok, err := row[keyIdx].CoerceInt()
		if err != nil {
			return nil, apperrors.NewJoinKeyTypeError(entity, column, i, err.Error())
		}
		if !ok {
			continue
		}
		index[key] = append(index[key], i)
	}
	return index, nil
}

// joinedColumns builds the output schema: every input column, with names
// colliding across entities qualified by an entity suffix, plus hired_label.
func joinedColumns(jobs, prospects, applicants *models.Table) []models.Column {
	counts := make(map[string]int)
	for _, t := range []*models.Table{jobs, prospects, applicants} {
		for _, c := range t.Columns {
			counts[c.Name]++
		}
	}

	qualify := func(cols []models.Column, suffix string) []models.Column {
		out := make([]models.Column, len(cols))
		for i, c := range cols {
			name := c.Name
			if counts[name] > 1 {
				name += suffix
			}
			out[i] = models.Column{Name: name, Type: c.Type}
		}
		return out
	}

	columns := qualify(jobs.Columns, "_job")
	columns = append(columns, qualify(prospects.Columns, "_prospect")...)
	columns = append(columns, qualify(applicants.Columns, "_applicant")...)
	columns = append(columns, models.Column{Name: models.ColHiredLabel, Type: models.TypeInteger})
	return columns
}

// assembleRow concatenates the three entity slices and the label into one
// fresh output row.
func assembleRow(job, prospect, applicant []models.Value, label int64) []models.Value {
	row := make([]models.Value, 0, len(job)+len(prospect)+len(applicant)+1)
	row = append(row, job...)
	row = append(row, prospect...)
	row = append(row, applicant...)
	row = append(row, models.Int(label))
	return row
}

// hiredLabel derives the binary outcome from the prospect's own status text,
// independent of join outcome. A null status yields 0.
func hiredLabel(status models.Value) int64 {
	if status.IsNull() {
		return 0
	}
	if strings.Contains(status.Text(), hiredToken) {
		return 1
	}
	return 0
}

func nullRow(n int) []models.Value {
	row := make([]models.Value, n)
	for i := range row {
		row[i] = models.Null()
	}
	return row
}

func sortJoined(rows []joinedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.jobNull != b.jobNull {
			return !a.jobNull
		}
		if a.jobKey != b.jobKey {
			return a.jobKey < b.jobKey
		}
		if a.pNull != b.pNull {
			return !a.pNull
		}
		if a.pKey != b.pKey {
			return a.pKey < b.pKey
		}
		if a.aNull != b.aNull {
			return !a.aNull
		}
		return a.aKey < b.aKey
	})
}
