package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hireloop/job-match-backend/internal/dto"
	"github.com/hireloop/job-match-backend/internal/model"
	"github.com/hireloop/job-match-backend/internal/service"
	"github.com/kaptinlin/jsonrepair"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/tidwall/gjson"
)

// ErrNoValidEmbeddings signals a rematch request whose experience ids resolve
// to no stored, non-empty embedding. Mapped to 404 by the handler.
var ErrNoValidEmbeddings = errors.New("no valid experience embeddings found")

// ErrUnparsableExtraction means the LLM output could not be turned into a
// structured experience list even after JSON repair. The whole upload fails.
var ErrUnparsableExtraction = errors.New("could not parse extracted experiences")

// DefaultTargetJobTitle steers the extraction prompt when the client does not
// supply one.
const DefaultTargetJobTitle = "software engineer"

type ResumeStore interface {
	CreateResume(resume *model.Resume) error
	CreateExperience(exp *model.Experience) error
	GetExperiencesByIDs(ids []uint) ([]model.Experience, error)
}

type JobSearcher interface {
	SearchJobs(embedding pgvector.Vector) ([]model.JobMatch, error)
}

type ResumeUsecase struct {
	resumeRepo ResumeStore
	jobRepo    JobSearcher
	jina       service.JinaServiceInterface
	gemini     service.GeminiServiceInterface
}

func NewResumeUsecase(resumeRepo ResumeStore, jobRepo JobSearcher, jina service.JinaServiceInterface, gemini service.GeminiServiceInterface) *ResumeUsecase {
	return &ResumeUsecase{resumeRepo: resumeRepo, jobRepo: jobRepo, jina: jina, gemini: gemini}
}

// MatchResume runs the full intake pipeline for one uploaded resume: extract
// structured experiences via the LLM, repair and parse the output, persist the
// resume and each embeddable experience, then rank jobs against the first
// stored experience embedding.
//
// A single bad experience never aborts the upload; unrepairable extraction
// output does. When nothing could be stored the response carries empty lists
// rather than an error.
func (uc *ResumeUsecase) MatchResume(ctx context.Context, resumeText, name, jobTitle string) (*dto.UploadResumeResponse, error) {
	if jobTitle == "" {
		jobTitle = DefaultTargetJobTitle
	}

	raw, err := uc.gemini.ExtractExperiences(ctx, resumeText, jobTitle)
	if err != nil {
		return nil, fmt.Errorf("experience extraction failed: %w", err)
	}

	extracted, err := ParseExperiences(raw)
	if err != nil {
		return nil, err
	}

	resume := &model.Resume{
		Name:         name,
		OriginalText: resumeText,
		RelevantText: raw,
	}
	if err := uc.resumeRepo.CreateResume(resume); err != nil {
		return nil, fmt.Errorf("failed to store resume: %w", err)
	}

	stored := []dto.StoredExperience{}
	var queryVec []float32

	for _, exp := range extracted {
		if exp.Title == "" {
			log.Printf("Skipping experience without title (resume %d)", resume.ID)
			continue
		}
		if !model.ValidExperienceType(exp.Type) {
			log.Printf("Skipping experience %q with unknown type %q", exp.Title, exp.Type)
			continue
		}

		vec, err := uc.embedExperience(ctx, exp)
		if err != nil {
			log.Printf("Skipping experience %q: %v", exp.Title, err)
			continue
		}

		row := &model.Experience{
			ResumeID:     resume.ID,
			Title:        exp.Title,
			Organization: exp.Organization,
			Type:         exp.Type,
			Description:  exp.Description,
			Skills:       pq.StringArray(exp.Skills),
			Embedding:    pgvector.NewVector(vec),
		}
		if err := uc.resumeRepo.CreateExperience(row); err != nil {
			log.Printf("Failed to store experience %q: %v", exp.Title, err)
			continue
		}

		stored = append(stored, dto.StoredExperience{ID: row.ID, Title: row.Title})
		if queryVec == nil {
			queryVec = vec
		}
	}

	if len(stored) == 0 {
		return &dto.UploadResumeResponse{
			MatchedJobs: []model.JobMatch{},
			Experiences: []dto.StoredExperience{},
		}, nil
	}

	matches, err := uc.jobRepo.SearchJobs(pgvector.NewVector(queryVec))
	if err != nil {
		return nil, fmt.Errorf("job search failed: %w", err)
	}

	return &dto.UploadResumeResponse{
		MatchedJobs: matches,
		Experiences: stored,
	}, nil
}

// Rematch ranks jobs against the component-wise mean of the stored embeddings
// for the selected experiences. Missing or empty embeddings are dropped; when
// none survive the caller gets ErrNoValidEmbeddings.
func (uc *ResumeUsecase) Rematch(ctx context.Context, experienceIDs []uint) ([]model.JobMatch, error) {
	if len(experienceIDs) == 0 {
		return nil, ErrNoValidEmbeddings
	}

	exps, err := uc.resumeRepo.GetExperiencesByIDs(experienceIDs)
	if err != nil {
		log.Printf("Experience lookup failed for rematch: %v", err)
		return []model.JobMatch{}, nil
	}

	var vectors [][]float32
	for _, exp := range exps {
		vec := exp.Embedding.Slice()
		if len(vec) == 0 {
			continue
		}
		if len(vectors) > 0 && len(vec) != len(vectors[0]) {
			log.Printf("Skipping experience %d: embedding dimension %d does not match %d", exp.ID, len(vec), len(vectors[0]))
			continue
		}
		vectors = append(vectors, vec)
	}
	if len(vectors) == 0 {
		return nil, ErrNoValidEmbeddings
	}

	matches, err := uc.jobRepo.SearchJobs(pgvector.NewVector(meanVector(vectors)))
	if err != nil {
		return nil, fmt.Errorf("job search failed: %w", err)
	}
	return matches, nil
}

// ParseExperiences repairs and parses raw LLM output into structured
// experiences. The model is prompted for strict JSON but routinely returns
// minor syntax defects, so repair always runs first.
func ParseExperiences(raw string) ([]dto.ExtractedExperience, error) {
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableExtraction, err)
	}

	parsed := gjson.Parse(repaired)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrUnparsableExtraction)
	}

	var out []dto.ExtractedExperience
	for _, item := range parsed.Array() {
		if !item.IsObject() {
			continue
		}
		exp := dto.ExtractedExperience{
			Title:        item.Get("title").String(),
			Organization: item.Get("organization").String(),
			Type:         item.Get("type").String(),
			Description:  item.Get("description").String(),
			Skills:       []string{},
		}
		for _, s := range item.Get("skills").Array() {
			exp.Skills = append(exp.Skills, s.String())
		}
		out = append(out, exp)
	}
	return out, nil
}

func (uc *ResumeUsecase) embedExperience(ctx context.Context, exp dto.ExtractedExperience) ([]float32, error) {
	org := exp.Organization
	if org == "" {
		org = "Unknown"
	}
	text := fmt.Sprintf("%s at %s (%s): %s", exp.Title, org, exp.Type, exp.Description)

	vectors, err := uc.jina.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	return vectors[0], nil
}

func meanVector(vectors [][]float32) []float32 {
	dims := len(vectors[0])
	sums := make([]float64, dims)
	for _, vec := range vectors {
		for i, v := range vec {
			sums[i] += float64(v)
		}
	}
	n := float64(len(vectors))
	mean := make([]float32, dims)
	for i := range sums {
		mean[i] = float32(sums[i] / n)
	}
	return mean
}
