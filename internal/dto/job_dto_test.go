package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func baseRecord() RawJobRecord {
	return RawJobRecord{
		Title:          "Backend Engineer",
		Company:        "Acme",
		Classification: "Information Technology",
		PostedDate:     "22/04/2025",
		PostedWithin:   "Today",
		WorkType:       "Full time",
		WorkModel:      "Hybrid",
	}
}

func TestRawJobRecordValidation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		mutate  func(*RawJobRecord)
		wantErr bool
	}{
		{name: "minimal valid record", mutate: func(r *RawJobRecord) {}},
		{
			name: "all optional fields set",
			mutate: func(r *RawJobRecord) {
				r.ExperienceLevel = "mid_or_senior"
				r.QuickApplyURL = "https://example.com/job/1/apply"
				r.JobURL = "https://example.com/job/1"
			},
		},
		{name: "missing title", mutate: func(r *RawJobRecord) { r.Title = "" }, wantErr: true},
		{name: "missing posted date", mutate: func(r *RawJobRecord) { r.PostedDate = "" }, wantErr: true},
		{name: "unknown work model", mutate: func(r *RawJobRecord) { r.WorkModel = "Nomadic" }, wantErr: true},
		{name: "unknown experience level", mutate: func(r *RawJobRecord) { r.ExperienceLevel = "wizard" }, wantErr: true},
		{name: "malformed job url", mutate: func(r *RawJobRecord) { r.JobURL = "::nope" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			tt.mutate(&rec)

			err := validate.Struct(&rec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmbeddingInput(t *testing.T) {
	rec := baseRecord()
	rec.Responsibilities = []string{"Build services", "Review code"}
	rec.Requirements = []string{"Go experience"}

	assert.Equal(t, "Backend Engineer\nBuild services\nReview code\nGo experience", rec.EmbeddingInput())

	rec.Responsibilities = nil
	rec.Requirements = nil
	assert.Equal(t, "Backend Engineer", rec.EmbeddingInput())
}
