package dto

import "strings"

// RawJobRecord is the boundary schema for scraped postings. The scraper is
// loosely typed, so every record is validated here before any embedding call.
type RawJobRecord struct {
	LogoLink         string   `json:"logo_link" validate:"omitempty"`
	Title            string   `json:"title" validate:"required"`
	Company          string   `json:"company" validate:"required"`
	Classification   string   `json:"classification" validate:"required"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
	Other            []string `json:"other"`
	Location         string   `json:"location"`
	LocationSearch   string   `json:"location_search"`
	ExperienceLevel  string   `json:"experience_level" validate:"omitempty,oneof=intern junior mid_or_senior lead"`
	Salary           string   `json:"salary"`
	PostedDate       string   `json:"posted_date" validate:"required"`
	PostedWithin     string   `json:"posted_within" validate:"required"`
	WorkType         string   `json:"work_type" validate:"required"`
	WorkModel        string   `json:"work_model" validate:"required,oneof=Remote Hybrid On-site"`
	QuickApplyURL    string   `json:"quick_apply_url" validate:"omitempty,url"`
	JobURL           string   `json:"job_url" validate:"omitempty,url"`
}

// EmbeddingInput builds the text a job posting is embedded from: title,
// responsibilities and requirements joined by newlines, blank parts omitted.
func (r *RawJobRecord) EmbeddingInput() string {
	parts := make([]string, 0, 3)
	if r.Title != "" {
		parts = append(parts, r.Title)
	}
	if joined := strings.Join(r.Responsibilities, "\n"); joined != "" {
		parts = append(parts, joined)
	}
	if joined := strings.Join(r.Requirements, "\n"); joined != "" {
		parts = append(parts, joined)
	}
	return strings.Join(parts, "\n")
}

type IngestJobsRequest struct {
	Jobs []RawJobRecord `json:"jobs"`
}

type IngestJobsResponse struct {
	Inserted int `json:"inserted"`
}
