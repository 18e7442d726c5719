package models

// Column names of the primary-layer job opening table.
const (
	ColJobID             = "job_id"
	ColTitle             = "title"
	ColClient            = "client"
	ColSAPFlag           = "sap_flag"
	ColProfessionalLevel = "professional_level"
	ColAcademicLevel     = "academic_level"
	ColEnglishLevel      = "english_level"
	ColSpanishLevel      = "spanish_level"
	ColActivityAreas     = "activity_areas"
	ColMainActivities    = "main_activities"
	ColCompetencies      = "competencies"
	ColState             = "state"
	ColCity              = "city"
)

// Column names of the primary-layer prospect table. One row per candidacy
// event; prospect_id references the job opening the candidacy belongs to.
const (
	ColProspectID      = "prospect_id"
	ColCandidateName   = "candidate_name"
	ColCode            = "code"
	ColStatusText      = "status_text"
	ColApplicationDate = "application_date"
	ColLastUpdateDate  = "last_update_date"
	ColComment         = "comment"
	ColRecruiter       = "recruiter"
)

// Column names of the primary-layer applicant table.
const (
	ColApplicantCode      = "applicant_code"
	ColName               = "name"
	ColEmail              = "email"
	ColActivityArea       = "activity_area"
	ColTechnicalKnowledge = "technical_knowledge"
	ColResumeText         = "resume_text"
)

// ColHiredLabel is the binary hiring-outcome label of the joined table.
const ColHiredLabel = "hired_label"

// JobOpeningColumns is the schema of the primary-layer job opening table.
var JobOpeningColumns = []Column{
	{Name: ColJobID, Type: TypeInteger},
	{Name: ColTitle, Type: TypeText},
	{Name: ColClient, Type: TypeText},
	{Name: ColSAPFlag, Type: TypeBoolean},
	{Name: ColProfessionalLevel, Type: TypeText},
	{Name: ColAcademicLevel, Type: TypeText},
	{Name: ColEnglishLevel, Type: TypeText},
	{Name: ColSpanishLevel, Type: TypeText},
	{Name: ColActivityAreas, Type: TypeText},
	{Name: ColMainActivities, Type: TypeText},
	{Name: ColCompetencies, Type: TypeText},
	{Name: ColState, Type: TypeText},
	{Name: ColCity, Type: TypeText},
}

// ProspectColumns is the schema of the primary-layer prospect table.
var ProspectColumns = []Column{
	{Name: ColProspectID, Type: TypeInteger},
	{Name: ColCandidateName, Type: TypeText},
	{Name: ColCode, Type: TypeInteger},
	{Name: ColStatusText, Type: TypeText},
	{Name: ColApplicationDate, Type: TypeText},
	{Name: ColLastUpdateDate, Type: TypeText},
	{Name: ColComment, Type: TypeText},
	{Name: ColRecruiter, Type: TypeText},
}

// ApplicantColumns is the schema of the primary-layer applicant table.
var ApplicantColumns = []Column{
	{Name: ColApplicantCode, Type: TypeInteger},
	{Name: ColName, Type: TypeText},
	{Name: ColEmail, Type: TypeText},
	{Name: ColActivityArea, Type: TypeText},
	{Name: ColProfessionalLevel, Type: TypeText},
	{Name: ColAcademicLevel, Type: TypeText},
	{Name: ColEnglishLevel, Type: TypeText},
	{Name: ColSpanishLevel, Type: TypeText},
	{Name: ColTechnicalKnowledge, Type: TypeText},
	{Name: ColResumeText, Type: TypeText},
}
