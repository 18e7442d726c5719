package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

func cell(t *testing.T, table *models.Table, row int, column string) models.Value {
	t.Helper()
	idx := table.ColumnIndex(column)
	require.GreaterOrEqual(t, idx, 0, column)
	return table.Rows[row][idx]
}

func TestFlattenApplicants(t *testing.T) {
	snapshot := []byte(`{
		"31001": {
			"infos_basicas": {
				"nome": "Ana Souza",
				"email": "ana@example.com",
				"telefone": "",
				"objetivo_profissional": "Atuar com dados"
			},
			"informacoes_pessoais": {
				"cpf": "   ",
				"sexo": "Feminino"
			},
			"informacoes_profissionais": {
				"area_atuacao": "TI - Desenvolvimento",
				"nivel_profissional": "Sênior"
			},
			"formacao_e_idiomas": {
				"nivel_academico": "Ensino Superior Completo",
				"nivel_ingles": "Avançado"
			},
			"cv_pt": "experiência com etl"
		},
		"31000": {
			"infos_basicas": {"nome": "Bruno Lima"}
		}
	}`)

	table, err := NewFlattener(zap.NewNop()).FlattenApplicants(snapshot)
	require.NoError(t, err)
	require.Equal(t, 2, table.NumRows())

	// Rows come out in ascending key order regardless of document order.
	assert.True(t, cell(t, table, 0, "id").Equal(models.Text("31000")))
	assert.True(t, cell(t, table, 0, "nome").Equal(models.Text("Bruno Lima")))
	assert.True(t, cell(t, table, 0, "email").IsNull())

	assert.True(t, cell(t, table, 1, "id").Equal(models.Text("31001")))
	assert.True(t, cell(t, table, 1, "nome").Equal(models.Text("Ana Souza")))
	assert.True(t, cell(t, table, 1, "area_atuacao").Equal(models.Text("TI - Desenvolvimento")))
	assert.True(t, cell(t, table, 1, "nivel_academico").Equal(models.Text("Ensino Superior Completo")))
	assert.True(t, cell(t, table, 1, "cv_pt").Equal(models.Text("experiência com etl")))

	// Empty and whitespace-only strings load as nulls.
	assert.True(t, cell(t, table, 1, "telefone").IsNull())
	assert.True(t, cell(t, table, 1, "cpf").IsNull())
}

func TestFlattenVagas(t *testing.T) {
	snapshot := []byte(`{
		"5185": {
			"informacoes_basicas": {
				"titulo_vaga": "Desenvolvedor Go",
				"cliente": "Decision",
				"vaga_sap": "Não",
				"limite_esperado_para_contratacao": "00-00-0000"
			},
			"perfil_vaga": {
				"estado": "São Paulo",
				"cidade": "São Paulo",
				"nivel profissional": "Sênior",
				"nivel_academico": "Ensino Superior Completo",
				"competencia_tecnicas_e_comportamentais": "Go, SQL",
				"demais_observacoes": ""
			},
			"beneficios": {
				"valor_venda": "-",
				"valor_compra_1": "R$"
			}
		}
	}`)

	table, err := NewFlattener(zap.NewNop()).FlattenVagas(snapshot)
	require.NoError(t, err)
	require.Equal(t, 1, table.NumRows())

	assert.True(t, cell(t, table, 0, "id").Equal(models.Text("5185")))
	assert.True(t, cell(t, table, 0, "titulo_vaga").Equal(models.Text("Desenvolvedor Go")))
	assert.True(t, cell(t, table, 0, "vaga_sap").Equal(models.Text("Não")))
	assert.True(t, cell(t, table, 0, "limite_contratacao").Equal(models.Text("00-00-0000")))
	// The source key has a space; the column does not.
	assert.True(t, cell(t, table, 0, "nivel_profissional").Equal(models.Text("Sênior")))
	assert.True(t, cell(t, table, 0, "competencias").Equal(models.Text("Go, SQL")))
	assert.True(t, cell(t, table, 0, "observacoes").IsNull())
	assert.True(t, cell(t, table, 0, "pais").IsNull())
}

func TestFlattenProspectsFanOut(t *testing.T) {
	snapshot := []byte(`{
		"4530": {
			"titulo": "Consultor SAP",
			"modalidade": "",
			"prospects": [
				{
					"nome": "Ana Souza",
					"codigo": "31001",
					"situacao_candidado": "Contratado pela Decision",
					"data_candidatura": "04-05-2021",
					"ultima_atualizacao": "12-05-2021",
					"comentario": "",
					"recrutador": "Recrutadora X"
				},
				{
					"nome": "Bruno Lima",
					"codigo": 31000,
					"situacao_candidado": "Desistiu"
				}
			]
		},
		"4529": {
			"titulo": "Analista",
			"prospects": []
		}
	}`)

	table, err := NewFlattener(zap.NewNop()).FlattenProspects(snapshot)
	require.NoError(t, err)

	// 4529 has no candidacies and contributes no rows; 4530 fans out to two.
	require.Equal(t, 2, table.NumRows())

	assert.True(t, cell(t, table, 0, "prospect_id").Equal(models.Text("4530")))
	assert.True(t, cell(t, table, 0, "nome").Equal(models.Text("Ana Souza")))
	assert.True(t, cell(t, table, 0, "codigo").Equal(models.Text("31001")))
	assert.True(t, cell(t, table, 0, "situacao_candidado").Equal(models.Text("Contratado pela Decision")))
	assert.True(t, cell(t, table, 0, "comentario").IsNull())
	assert.True(t, cell(t, table, 0, "modalidade").IsNull())

	// Numeric codes decode to their text form.
	assert.True(t, cell(t, table, 1, "codigo").Equal(models.Text("31000")))
	assert.True(t, cell(t, table, 1, "recrutador").IsNull())
}

func TestFlattenSkipsMalformedRecord(t *testing.T) {
	snapshot := []byte(`{
		"1": "not an object",
		"2": {"infos_basicas": {"nome": "Ana"}}
	}`)

	table, err := NewFlattener(zap.NewNop()).FlattenApplicants(snapshot)
	require.NoError(t, err)
	require.Equal(t, 1, table.NumRows())
	assert.True(t, cell(t, table, 0, "id").Equal(models.Text("2")))
}

func TestFlattenMalformedSnapshot(t *testing.T) {
	f := NewFlattener(zap.NewNop())

	_, err := f.FlattenApplicants([]byte(`[1, 2]`))
	assert.Error(t, err)
	_, err = f.FlattenVagas([]byte(`{`))
	assert.Error(t, err)
	_, err = f.FlattenProspects([]byte(`"s"`))
	assert.Error(t, err)
}

func TestFlexibleText(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"string", `"hello"`, "hello", true},
		{"integer", `42`, "42", true},
		{"float", `1.5`, "1.5", true},
		{"bool", `true`, "true", true},
		{"null", `null`, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := flexibleText([]byte(tc.raw))
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}

	got, ok := flexibleText(nil)
	assert.False(t, ok)
	assert.Equal(t, "", got)
}

func TestCleanedText(t *testing.T) {
	_, ok := cleanedText([]byte(`""`))
	assert.False(t, ok)
	_, ok = cleanedText([]byte(`"   "`))
	assert.False(t, ok)

	got, ok := cleanedText([]byte(`" padded "`))
	assert.True(t, ok)
	assert.Equal(t, " padded ", got)
}
