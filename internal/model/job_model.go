package model

import (
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// Experience levels accepted on a job posting.
const (
	ExperienceLevelIntern      = "intern"
	ExperienceLevelJunior      = "junior"
	ExperienceLevelMidOrSenior = "mid_or_senior"
	ExperienceLevelLead        = "lead"
)

type Job struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	LogoLink         string         `json:"logo_link"`
	Title            string         `gorm:"not null" json:"title"`
	Company          string         `gorm:"not null" json:"company"`
	Classification   string         `gorm:"not null" json:"classification"`
	Description      string         `gorm:"type:text" json:"description"`
	Responsibilities pq.StringArray `gorm:"type:text[]" json:"responsibilities"`
	Requirements     pq.StringArray `gorm:"type:text[]" json:"requirements"`
	Other            pq.StringArray `gorm:"type:text[]" json:"other"`
	Location         string         `json:"location"`
	LocationSearch   string         `json:"location_search"`
	ExperienceLevel  string         `json:"experience_level"`
	Salary           string         `gorm:"type:text" json:"salary"`
	PostedDate       string         `gorm:"type:text;not null" json:"posted_date"`
	PostedWithin     string         `gorm:"type:text;not null" json:"posted_within"`
	WorkType         string         `gorm:"type:text;not null" json:"work_type"`
	WorkModel        string         `gorm:"type:text;not null" json:"work_model"`
	QuickApplyURL    string         `gorm:"column:quick_apply_url" json:"quick_apply_url"`
	JobURL           string         `gorm:"column:job_url" json:"job_url"`

	Embedding *JobEmbedding `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (j *Job) TableName() string {
	return "jobs"
}

// JobEmbedding holds the single vector a job is matched by. A job without
// this row is excluded from similarity queries.
type JobEmbedding struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	JobID     uint            `gorm:"not null;index" json:"job_id"`
	Embedding pgvector.Vector `gorm:"type:vector(768);not null" json:"embedding"`
}

func (e *JobEmbedding) TableName() string {
	return "job_embeddings"
}

// JobMatch pairs a job with its vector distance to the query embedding.
// Smaller score means more similar. Never persisted.
type JobMatch struct {
	Job   `gorm:"embedded"`
	Score float64 `json:"score"`
}
