package model

import (
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// Experience types the extractor is allowed to produce. Anything else is
// dropped at storage time.
const (
	ExperienceTypeJob        = "job"
	ExperienceTypeInternship = "internship"
	ExperienceTypeProject    = "project"
	ExperienceTypeOpenSource = "open-source"
)

func ValidExperienceType(t string) bool {
	switch t {
	case ExperienceTypeJob, ExperienceTypeInternship, ExperienceTypeProject, ExperienceTypeOpenSource:
		return true
	}
	return false
}

// Resume is created once per upload and never mutated afterwards.
// RelevantText keeps the raw LLM extraction output as returned, before repair.
type Resume struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `json:"name"`
	OriginalText string `gorm:"type:text;not null" json:"original_text"`
	RelevantText string `gorm:"type:text" json:"relevant_text"`

	Experiences []Experience `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Resume) TableName() string {
	return "resumes"
}

type Experience struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ResumeID     uint            `gorm:"not null;index" json:"resume_id"`
	Title        string          `json:"title"`
	Organization string          `json:"organization"`
	Type         string          `json:"type"`
	Description  string          `gorm:"type:text" json:"description"`
	Skills       pq.StringArray  `gorm:"type:text[]" json:"skills"`
	Embedding    pgvector.Vector `gorm:"type:vector(768)" json:"embedding"`
}

func (e *Experience) TableName() string {
	return "experiences"
}
