// Package ingest flattens the raw nested JSON snapshots (applicants, job
// openings, prospects) into the flat intermediate-layer tables the
// normalizers consume. Record keys become the id columns; empty strings and
// empty collections become nulls.
package ingest

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// Intermediate-layer schemas keep the source system's field names. Every
// column is text; type coercion happens later, in the normalizers.

var applicantIntermediateColumns = textColumns(
	"id", "nome", "email", "telefone", "telefone_recado", "data_criacao",
	"data_atualizacao", "inserido_por", "codigo_profissional",
	"objetivo_profissional", "cpf", "data_nascimento", "sexo", "estado_civil",
	"pcd", "endereco", "linkedin", "facebook", "skype", "titulo_profissional",
	"area_atuacao", "conhecimentos_tecnicos", "certificacoes", "remuneracao",
	"nivel_profissional", "nivel_academico", "nivel_ingles", "nivel_espanhol",
	"outro_idioma", "cv_pt", "cv_en",
)

var vagaIntermediateColumns = textColumns(
	"id", "titulo_vaga", "cliente", "solicitante_cliente", "empresa_divisao",
	"requisitante", "analista_responsavel", "tipo_contratacao",
	"data_requicisao", "limite_contratacao", "vaga_sap", "prazo_contratacao",
	"objetivo_vaga", "prioridade_vaga", "origem_vaga", "pais", "estado",
	"cidade", "bairro", "local_trabalho", "vaga_pcd", "faixa_etaria",
	"horario_trabalho", "nivel_profissional", "nivel_academico",
	"nivel_ingles", "nivel_espanhol", "outro_idioma", "areas_atuacao",
	"principais_atividades", "competencias", "observacoes",
	"viagens_requeridas", "equipamentos_necessarios", "valor_venda",
	"valor_compra_1", "valor_compra_2",
)

var prospectIntermediateColumns = textColumns(
	"prospect_id", "titulo", "modalidade", "nome", "codigo",
	"situacao_candidado", "data_candidatura", "ultima_atualizacao",
	"comentario", "recrutador",
)

func textColumns(names ...string) []models.Column {
	columns := make([]models.Column, len(names))
	for i, n := range names {
		columns[i] = models.Column{Name: n, Type: models.TypeText}
	}
	return columns
}

// Flattener turns raw JSON snapshots into intermediate tables. A record
// that cannot be decoded is logged and skipped; malformed JSON as a whole
// is fatal.
type Flattener struct {
	logger *zap.Logger
}

// NewFlattener creates a flattener.
func NewFlattener(logger *zap.Logger) *Flattener {
	return &Flattener{logger: logger.Named("Ingest")}
}

type rawObject map[string]json.RawMessage

// section decodes a nested object field, returning an empty map when the
// field is absent or not an object.
func (o rawObject) section(field string) rawObject {
	raw, ok := o[field]
	if !ok {
		return rawObject{}
	}
	var nested rawObject
	if err := json.Unmarshal(raw, &nested); err != nil {
		return rawObject{}
	}
	return nested
}

func (o rawObject) value(field string) models.Value {
	s, ok := cleanedText(o[field])
	if !ok {
		return models.Null()
	}
	return models.Text(s)
}

// sortedKeys returns the record ids in ascending order. JSON object order
// is not preserved by the decoder, and table row order must be
// deterministic.
func sortedKeys(doc map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FlattenApplicants flattens the raw applicants snapshot: one row per
// applicant, keyed by the JSON object key.
func (f *Flattener) FlattenApplicants(data []byte) (*models.Table, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse applicants snapshot: %w", err)
	}

	t := models.NewTable(applicantIntermediateColumns)
	for _, id := range sortedKeys(doc) {
		var record rawObject
		if err := json.Unmarshal(doc[id], &record); err != nil {
			f.logger.Warn("Skipping malformed applicant record",
				zap.String("id", id), zap.Error(err))
			continue
		}

		basic := record.section("infos_basicas")
		personal := record.section("informacoes_pessoais")
		professional := record.section("informacoes_profissionais")
		education := record.section("formacao_e_idiomas")

		t.Rows = append(t.Rows, []models.Value{
			models.Text(id),
			basic.value("nome"),
			basic.value("email"),
			basic.value("telefone"),
			basic.value("telefone_recado"),
			basic.value("data_criacao"),
			basic.value("data_atualizacao"),
			basic.value("inserido_por"),
			basic.value("codigo_profissional"),
			basic.value("objetivo_profissional"),
			personal.value("cpf"),
			personal.value("data_nascimento"),
			personal.value("sexo"),
			personal.value("estado_civil"),
			personal.value("pcd"),
			personal.value("endereco"),
			personal.value("url_linkedin"),
			personal.value("facebook"),
			personal.value("skype"),
			professional.value("titulo_profissional"),
			professional.value("area_atuacao"),
			professional.value("conhecimentos_tecnicos"),
			professional.value("certificacoes"),
			professional.value("remuneracao"),
			professional.value("nivel_profissional"),
			education.value("nivel_academico"),
			education.value("nivel_ingles"),
			education.value("nivel_espanhol"),
			education.value("outro_idioma"),
			record.value("cv_pt"),
			record.value("cv_en"),
		})
	}

	f.logger.Info("Flattened applicants snapshot", zap.Int("rows", t.NumRows()))
	return t, nil
}

// FlattenVagas flattens the raw job openings snapshot: one row per opening,
// keyed by the JSON object key.
func (f *Flattener) FlattenVagas(data []byte) (*models.Table, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse vagas snapshot: %w", err)
	}

	t := models.NewTable(vagaIntermediateColumns)
	for _, id := range sortedKeys(doc) {
		var record rawObject
		if err := json.Unmarshal(doc[id], &record); err != nil {
			f.logger.Warn("Skipping malformed vaga record",
				zap.String("id", id), zap.Error(err))
			continue
		}

		basic := record.section("informacoes_basicas")
		profile := record.section("perfil_vaga")
		benefits := record.section("beneficios")

		t.Rows = append(t.Rows, []models.Value{
			models.Text(id),
			basic.value("titulo_vaga"),
			basic.value("cliente"),
			basic.value("solicitante_cliente"),
			basic.value("empresa_divisao"),
			basic.value("requisitante"),
			basic.value("analista_responsavel"),
			basic.value("tipo_contratacao"),
			basic.value("data_requicisao"),
			basic.value("limite_esperado_para_contratacao"),
			basic.value("vaga_sap"),
			basic.value("prazo_contratacao"),
			basic.value("objetivo_vaga"),
			basic.value("prioridade_vaga"),
			basic.value("origem_vaga"),
			profile.value("pais"),
			profile.value("estado"),
			profile.value("cidade"),
			profile.value("bairro"),
			profile.value("local_trabalho"),
			profile.value("vaga_especifica_para_pcd"),
			profile.value("faixa_etaria"),
			profile.value("horario_trabalho"),
			// The source exports this one key with a space in it.
			profile.value("nivel profissional"),
			profile.value("nivel_academico"),
			profile.value("nivel_ingles"),
			profile.value("nivel_espanhol"),
			profile.value("outro_idioma"),
			profile.value("areas_atuacao"),
			profile.value("principais_atividades"),
			profile.value("competencia_tecnicas_e_comportamentais"),
			profile.value("demais_observacoes"),
			profile.value("viagens_requeridas"),
			profile.value("equipamentos_necessarios"),
			benefits.value("valor_venda"),
			benefits.value("valor_compra_1"),
			benefits.value("valor_compra_2"),
		})
	}

	f.logger.Info("Flattened vagas snapshot", zap.Int("rows", t.NumRows()))
	return t, nil
}

// prospectGroup is one job opening's entry in the prospects snapshot: shared
// header fields plus the list of candidacies.
type prospectGroup struct {
	Titulo     json.RawMessage   `json:"titulo"`
	Modalidade json.RawMessage   `json:"modalidade"`
	Prospects  []json.RawMessage `json:"prospects"`
}

// FlattenProspects flattens the raw prospects snapshot. The snapshot is
// keyed by job opening id and each entry carries a candidacy list, so one
// JSON record fans out to one row per candidacy.
func (f *Flattener) FlattenProspects(data []byte) (*models.Table, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse prospects snapshot: %w", err)
	}

	t := models.NewTable(prospectIntermediateColumns)
	for _, id := range sortedKeys(doc) {
		var group prospectGroup
		if err := json.Unmarshal(doc[id], &group); err != nil {
			f.logger.Warn("Skipping malformed prospect group",
				zap.String("prospect_id", id), zap.Error(err))
			continue
		}

		titulo := rawValue(group.Titulo)
		modalidade := rawValue(group.Modalidade)

		for _, rawProspect := range group.Prospects {
			var p rawObject
			if err := json.Unmarshal(rawProspect, &p); err != nil {
				f.logger.Warn("Skipping malformed prospect record",
					zap.String("prospect_id", id), zap.Error(err))
				continue
			}
			t.Rows = append(t.Rows, []models.Value{
				models.Text(id),
				titulo,
				modalidade,
				p.value("nome"),
				p.value("codigo"),
				p.value("situacao_candidado"),
				p.value("data_candidatura"),
				p.value("ultima_atualizacao"),
				p.value("comentario"),
				p.value("recrutador"),
			})
		}
	}

	f.logger.Info("Flattened prospects snapshot", zap.Int("rows", t.NumRows()))
	return t, nil
}

func rawValue(raw json.RawMessage) models.Value {
	s, ok := cleanedText(raw)
	if !ok {
		return models.Null()
	}
	return models.Text(s)
}
