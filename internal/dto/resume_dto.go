package dto

import "github.com/hireloop/job-match-backend/internal/model"

// ExtractedExperience is one structured experience as produced by the LLM
// extraction step, after JSON repair and parsing.
type ExtractedExperience struct {
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Skills       []string `json:"skills"`
}

// StoredExperience is the slim view of a persisted experience returned to
// the client for later rematching.
type StoredExperience struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type UploadResumeResponse struct {
	MatchedJobs []model.JobMatch   `json:"matchedJobs"`
	Experiences []StoredExperience `json:"experiences"`
}

type RematchRequest struct {
	ExperienceIDs []uint `json:"experienceIds"`
}

type RematchResponse struct {
	MatchedJobs []model.JobMatch `json:"matchedJobs"`
}
