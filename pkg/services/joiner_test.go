package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hiredata-ai/hiredata-engine/pkg/apperrors"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

func jobRow(id models.Value, title string) []models.Value {
	return []models.Value{
		id,
		models.Text(title),
		models.Text("Cliente"),
		models.Bool(true),
		models.Text("Sênior"),
		models.Text("Superior"),
		models.Text("Avançado"),
		models.Text("Básico"),
		models.Text("TI"),
		models.Text("Desenvolvimento"),
		models.Text("Go"),
		models.Text("São Paulo"),
		models.Text("São Paulo"),
	}
}

func prospectRow(jobID, code models.Value, name, status string) []models.Value {
	return []models.Value{
		jobID,
		models.Text(name),
		code,
		models.Text(status),
		models.Text("01-02-2021"),
		models.Text("05-02-2021"),
		models.Null(),
		models.Text("Recrutadora"),
	}
}

func applicantRow(code models.Value, name string) []models.Value {
	return []models.Value{
		code,
		models.Text(name),
		models.Text("x@example.com"),
		models.Text("TI"),
		models.Text("Pleno"),
		models.Text("Superior"),
		models.Text("Intermediário"),
		models.Text("Básico"),
		models.Text("Go, SQL"),
		models.Text("currículo"),
	}
}

func buildTables(t *testing.T, jobs, prospects, applicants [][]models.Value) (*models.Table, *models.Table, *models.Table) {
	t.Helper()
	jobTable := models.NewTable(models.JobOpeningColumns)
	for _, r := range jobs {
		require.NoError(t, jobTable.AppendRow(r))
	}
	prospectTable := models.NewTable(models.ProspectColumns)
	for _, r := range prospects {
		require.NoError(t, prospectTable.AppendRow(r))
	}
	applicantTable := models.NewTable(models.ApplicantColumns)
	for _, r := range applicants {
		require.NoError(t, applicantTable.AppendRow(r))
	}
	return jobTable, prospectTable, applicantTable
}

func TestJoinHiredProspect(t *testing.T) {
	jobs, prospects, applicants := buildTables(t,
		[][]models.Value{jobRow(models.Int(1), "Dev Go")},
		[][]models.Value{prospectRow(models.Int(1), models.Int(77), "Ana", "Contratado pela Decision")},
		[][]models.Value{applicantRow(models.Int(77), "Ana")},
	)

	out, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())

	row := out.Rows[0]
	assert.True(t, row[out.ColumnIndex(models.ColJobID)].Equal(models.Int(1)))
	assert.True(t, row[out.ColumnIndex(models.ColSAPFlag)].Equal(models.Bool(true)))
	assert.True(t, row[out.ColumnIndex(models.ColName)].Equal(models.Text("Ana")))
	assert.True(t, row[out.ColumnIndex(models.ColHiredLabel)].Equal(models.Int(1)))
}

func TestJoinJobWithoutProspects(t *testing.T) {
	jobs, prospects, applicants := buildTables(t,
		[][]models.Value{jobRow(models.Int(2), "Analista")},
		nil,
		nil,
	)

	out, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())

	row := out.Rows[0]
	assert.True(t, row[out.ColumnIndex(models.ColJobID)].Equal(models.Int(2)))
	assert.True(t, row[out.ColumnIndex(models.ColProspectID)].IsNull())
	assert.True(t, row[out.ColumnIndex(models.ColStatusText)].IsNull())
	assert.True(t, row[out.ColumnIndex(models.ColApplicantCode)].IsNull())
	assert.True(t, row[out.ColumnIndex(models.ColHiredLabel)].Equal(models.Int(0)))
}

func TestJoinHiredLabelStatusVariants(t *testing.T) {
	cases := []struct {
		status string
		want   int64
	}{
		{"Contratado pela Decision", 1},
		{"Contratado como Hunting", 1},
		{"Desistiu", 0},
		{"Encaminhado ao Requisitante", 0},
		// The token match is case-sensitive.
		{"contratado", 0},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			jobs, prospects, applicants := buildTables(t,
				[][]models.Value{jobRow(models.Int(1), "Dev")},
				[][]models.Value{prospectRow(models.Int(1), models.Int(77), "Ana", tc.status)},
				[][]models.Value{applicantRow(models.Int(77), "Ana")},
			)

			out, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
			require.NoError(t, err)
			require.Equal(t, 1, out.NumRows())
			assert.True(t, out.Rows[0][out.ColumnIndex(models.ColHiredLabel)].Equal(models.Int(tc.want)))
		})
	}
}

func TestJoinFanOut(t *testing.T) {
	jobs, prospects, applicants := buildTables(t,
		[][]models.Value{
			jobRow(models.Int(1), "Dev"),
			jobRow(models.Int(2), "Analista"),
		},
		[][]models.Value{
			prospectRow(models.Int(1), models.Int(77), "Ana", "Contratado pela Decision"),
			prospectRow(models.Int(1), models.Int(88), "Bruno", "Desistiu"),
		},
		[][]models.Value{
			applicantRow(models.Int(77), "Ana"),
			// Duplicate applicant code fans out the second join stage.
			{models.Int(88), models.Text("Bruno"), models.Text("b@example.com"),
				models.Text("TI"), models.Text("Júnior"), models.Text("Superior"),
				models.Text("Básico"), models.Text("Básico"), models.Text("Java"),
				models.Text("currículo")},
			applicantRow(models.Int(88), "Bruno B"),
		},
	)

	out, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	require.NoError(t, err)

	// Job 1: Ana matches one applicant, Bruno two. Job 2: null-filled.
	require.Equal(t, 4, out.NumRows())

	jobIdx := out.ColumnIndex(models.ColJobID)
	labelIdx := out.ColumnIndex(models.ColHiredLabel)

	var job1, job2 int
	for _, row := range out.Rows {
		switch row[jobIdx].Int64() {
		case 1:
			job1++
		case 2:
			job2++
			assert.True(t, row[labelIdx].Equal(models.Int(0)))
		}
	}
	assert.Equal(t, 3, job1)
	assert.Equal(t, 1, job2)
}

func TestJoinProspectWithoutApplicant(t *testing.T) {
	jobs, prospects, applicants := buildTables(t,
		[][]models.Value{jobRow(models.Int(1), "Dev")},
		[][]models.Value{prospectRow(models.Int(1), models.Int(99), "Carla", "Contratado pela Decision")},
		nil,
	)

	out, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())

	row := out.Rows[0]
	assert.True(t, row[out.ColumnIndex(models.ColCandidateName)].Equal(models.Text("Carla")))
	assert.True(t, row[out.ColumnIndex(models.ColName)].IsNull())
	// The label comes from the prospect's status, not from the applicant join.
	assert.True(t, row[out.ColumnIndex(models.ColHiredLabel)].Equal(models.Int(1)))
}

func TestJoinNullKeysNeverMatch(t *testing.T) {
	jobs, prospects, applicants := buildTables(t,
		[][]models.Value{jobRow(models.Null(), "Sem ID")},
		[][]models.Value{prospectRow(models.Null(), models.Null(), "Ana", "Desistiu")},
		[][]models.Value{applicantRow(models.Null(), "Ana")},
	)

	out, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())
	assert.True(t, out.Rows[0][out.ColumnIndex(models.ColProspectID)].IsNull())
}

func TestJoinColumnQualification(t *testing.T) {
	jobs, prospects, applicants := buildTables(t, nil, nil, nil)

	out, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	require.NoError(t, err)

	// Level columns exist on both the job and the applicant side; only those
	// carry an entity suffix.
	for _, name := range []string{
		models.ColProfessionalLevel + "_job",
		models.ColAcademicLevel + "_job",
		models.ColEnglishLevel + "_applicant",
		models.ColSpanishLevel + "_applicant",
	} {
		assert.GreaterOrEqual(t, out.ColumnIndex(name), 0, name)
	}
	assert.Equal(t, -1, out.ColumnIndex(models.ColProfessionalLevel))
	assert.GreaterOrEqual(t, out.ColumnIndex(models.ColJobID), 0)
	assert.GreaterOrEqual(t, out.ColumnIndex(models.ColHiredLabel), 0)

	expected := len(models.JobOpeningColumns) + len(models.ProspectColumns) + len(models.ApplicantColumns) + 1
	assert.Equal(t, expected, len(out.Columns))
}

func TestJoinDeterministicOrder(t *testing.T) {
	jobs, prospects, applicants := buildTables(t,
		[][]models.Value{
			jobRow(models.Int(3), "C"),
			jobRow(models.Null(), "Sem ID"),
			jobRow(models.Int(1), "A"),
		},
		[][]models.Value{
			prospectRow(models.Int(1), models.Int(20), "B", "Desistiu"),
			prospectRow(models.Int(1), models.Int(10), "A", "Desistiu"),
		},
		nil,
	)

	out, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	require.NoError(t, err)
	require.Equal(t, 4, out.NumRows())

	jobIdx := out.ColumnIndex(models.ColJobID)
	assert.True(t, out.Rows[0][jobIdx].Equal(models.Int(1)))
	assert.True(t, out.Rows[1][jobIdx].Equal(models.Int(1)))
	assert.True(t, out.Rows[2][jobIdx].Equal(models.Int(3)))
	// Null job keys sort after every concrete key.
	assert.True(t, out.Rows[3][jobIdx].IsNull())
}

func TestJoinKeyTypeError(t *testing.T) {
	prospectTable := models.NewTable(models.ProspectColumns)
	require.NoError(t, prospectTable.AppendRow(
		prospectRow(models.Text("not-a-number"), models.Int(1), "Ana", "Desistiu")))

	jobs := models.NewTable(models.JobOpeningColumns)
	applicants := models.NewTable(models.ApplicantColumns)

	_, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospectTable, applicants)
	var keyErr *apperrors.JoinKeyTypeError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "prospects", keyErr.Dataset)
	assert.Equal(t, models.ColProspectID, keyErr.Column)
}

func TestJoinMissingKeyColumn(t *testing.T) {
	jobs := models.NewTable([]models.Column{{Name: "title", Type: models.TypeText}})
	prospects := models.NewTable(models.ProspectColumns)
	applicants := models.NewTable(models.ApplicantColumns)

	_, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	var schemaErr *apperrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, models.ColJobID, schemaErr.Column)
}

func TestJoinEmptyJobs(t *testing.T) {
	jobs, prospects, applicants := buildTables(t,
		nil,
		[][]models.Value{prospectRow(models.Int(1), models.Int(77), "Ana", "Contratado pela Decision")},
		[][]models.Value{applicantRow(models.Int(77), "Ana")},
	)

	out, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	require.NoError(t, err)
	assert.Equal(t, 0, out.NumRows())
	assert.NotEmpty(t, out.Columns)
}

func TestJoinDoesNotMutateInputs(t *testing.T) {
	jobs, prospects, applicants := buildTables(t,
		[][]models.Value{jobRow(models.Int(1), "Dev")},
		[][]models.Value{prospectRow(models.Int(1), models.Int(77), "Ana", "Contratado pela Decision")},
		[][]models.Value{applicantRow(models.Int(77), "Ana")},
	)
	jobsSnap, prospectsSnap, applicantsSnap := jobs.Clone(), prospects.Clone(), applicants.Clone()

	_, err := NewCoreJoiner(zap.NewNop()).Join(jobs, prospects, applicants)
	require.NoError(t, err)

	for _, pair := range []struct{ got, want *models.Table }{
		{jobs, jobsSnap}, {prospects, prospectsSnap}, {applicants, applicantsSnap},
	} {
		require.Equal(t, pair.want.NumRows(), pair.got.NumRows())
		for i, row := range pair.got.Rows {
			for j, v := range row {
				assert.True(t, v.Equal(pair.want.Rows[i][j]))
			}
		}
	}
}
