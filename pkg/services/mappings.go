package services

import (
	"strings"

	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// The intermediate-layer tables keep the source system's Portuguese column
// names; the mapping tables below rename them to the primary-layer schemas.
// Intermediate tables may carry extra columns; only mapped columns survive.

// sapFlag derives the boolean SAP flag from the raw flag text: true exactly
// when the text equals "sim" ignoring case and surrounding whitespace. Null
// and every other value, including other truthy-looking strings, map to false.
func sapFlag(v models.Value) models.Value {
	if v.IsNull() || v.Type() != models.TypeText {
		return models.Bool(false)
	}
	return models.Bool(strings.EqualFold(strings.TrimSpace(v.Text()), "sim"))
}

// VagasMappings maps intermediate job openings to the JobOpening schema.
var VagasMappings = []FieldMapping{
	{Source: "id", Target: models.ColJobID, Type: models.TypeInteger},
	{Source: "titulo_vaga", Target: models.ColTitle, Type: models.TypeText},
	{Source: "cliente", Target: models.ColClient, Type: models.TypeText},
	{Source: "vaga_sap", Target: models.ColSAPFlag, Type: models.TypeBoolean, Derive: sapFlag},
	{Source: "nivel_profissional", Target: models.ColProfessionalLevel, Type: models.TypeText},
	{Source: "nivel_academico", Target: models.ColAcademicLevel, Type: models.TypeText},
	{Source: "nivel_ingles", Target: models.ColEnglishLevel, Type: models.TypeText},
	{Source: "nivel_espanhol", Target: models.ColSpanishLevel, Type: models.TypeText},
	{Source: "areas_atuacao", Target: models.ColActivityAreas, Type: models.TypeText},
	{Source: "principais_atividades", Target: models.ColMainActivities, Type: models.TypeText},
	{Source: "competencias", Target: models.ColCompetencies, Type: models.TypeText},
	{Source: "estado", Target: models.ColState, Type: models.TypeText},
	{Source: "cidade", Target: models.ColCity, Type: models.TypeText},
}

// ProspectsMappings maps intermediate prospects to the ProspectEntry schema.
// Values pass through unchanged; there are no derived columns.
var ProspectsMappings = []FieldMapping{
	{Source: "prospect_id", Target: models.ColProspectID, Type: models.TypeInteger},
	{Source: "nome", Target: models.ColCandidateName, Type: models.TypeText},
	{Source: "codigo", Target: models.ColCode, Type: models.TypeInteger},
	{Source: "situacao_candidado", Target: models.ColStatusText, Type: models.TypeText},
	{Source: "data_candidatura", Target: models.ColApplicationDate, Type: models.TypeText},
	{Source: "ultima_atualizacao", Target: models.ColLastUpdateDate, Type: models.TypeText},
	{Source: "comentario", Target: models.ColComment, Type: models.TypeText},
	{Source: "recrutador", Target: models.ColRecruiter, Type: models.TypeText},
}

// ApplicantsMappings maps intermediate applicants to the Applicant schema.
// The record key (id) is the code the prospect table's codigo references.
var ApplicantsMappings = []FieldMapping{
	{Source: "id", Target: models.ColApplicantCode, Type: models.TypeInteger},
	{Source: "nome", Target: models.ColName, Type: models.TypeText},
	{Source: "email", Target: models.ColEmail, Type: models.TypeText},
	{Source: "area_atuacao", Target: models.ColActivityArea, Type: models.TypeText},
	{Source: "nivel_profissional", Target: models.ColProfessionalLevel, Type: models.TypeText},
	{Source: "nivel_academico", Target: models.ColAcademicLevel, Type: models.TypeText},
	{Source: "nivel_ingles", Target: models.ColEnglishLevel, Type: models.TypeText},
	{Source: "nivel_espanhol", Target: models.ColSpanishLevel, Type: models.TypeText},
	{Source: "conhecimentos_tecnicos", Target: models.ColTechnicalKnowledge, Type: models.TypeText},
	{Source: "cv_pt", Target: models.ColResumeText, Type: models.TypeText},
}
