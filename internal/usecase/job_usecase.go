package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hireloop/job-match-backend/internal/dto"
	"github.com/hireloop/job-match-backend/internal/model"
	"github.com/hireloop/job-match-backend/internal/response"
	"github.com/hireloop/job-match-backend/internal/service"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

var (
	// ErrEmptyBatch rejects an empty or missing jobs array before any
	// embedding call is made.
	ErrEmptyBatch = errors.New("empty or invalid job data batch")

	// ErrInvalidRecord rejects a batch containing a record that fails the
	// boundary schema.
	ErrInvalidRecord = errors.New("invalid job record")

	// ErrEmbeddingMismatch rejects a batch when the provider did not return
	// exactly one vector per job. Nothing is persisted.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")
)

const (
	defaultScrapeLocation = "sydney"
	defaultPageSize       = 20
)

type JobStore interface {
	GetJobs() ([]model.Job, error)
	GetJobsPage(page, pageSize int) ([]model.Job, int64, error)
	InsertBatchWithEmbeddings(jobs []model.Job, vectors []pgvector.Vector) error
	ClearAll() error
}

type JobUsecase struct {
	jobRepo  JobStore
	jina     service.JinaServiceInterface
	scraper  service.ScraperServiceInterface
	validate *validator.Validate
}

func NewJobUsecase(jobRepo JobStore, jina service.JinaServiceInterface, scraper service.ScraperServiceInterface) *JobUsecase {
	return &JobUsecase{
		jobRepo:  jobRepo,
		jina:     jina,
		scraper:  scraper,
		validate: validator.New(),
	}
}

// IngestBatch validates one page of scraped jobs, embeds all of them in a
// single provider call and persists jobs plus embeddings atomically. The
// contract is strict all-or-nothing per page: any invalid record, a failed
// embedding call or a count mismatch rejects the entire batch with zero rows
// written.
func (uc *JobUsecase) IngestBatch(ctx context.Context, records []dto.RawJobRecord) (int, error) {
	if len(records) == 0 {
		return 0, ErrEmptyBatch
	}

	inputs := make([]string, len(records))
	for i := range records {
		if err := uc.validate.Struct(&records[i]); err != nil {
			return 0, fmt.Errorf("%w at index %d: %v", ErrInvalidRecord, i, err)
		}
		inputs[i] = records[i].EmbeddingInput()
	}

	embeddings, err := uc.jina.EmbedTexts(ctx, inputs)
	if err != nil {
		return 0, fmt.Errorf("batch embedding failed: %w", err)
	}
	if len(embeddings) != len(records) {
		return 0, fmt.Errorf("%w: %d jobs, %d embeddings", ErrEmbeddingMismatch, len(records), len(embeddings))
	}

	jobs := make([]model.Job, len(records))
	vectors := make([]pgvector.Vector, len(records))
	for i := range records {
		jobs[i] = recordToJob(&records[i])
		vectors[i] = pgvector.NewVector(embeddings[i])
	}

	if err := uc.jobRepo.InsertBatchWithEmbeddings(jobs, vectors); err != nil {
		return 0, fmt.Errorf("failed to insert job page: %w", err)
	}
	return len(jobs), nil
}

func (uc *JobUsecase) ListJobs() ([]model.Job, error) {
	return uc.jobRepo.GetJobs()
}

func (uc *JobUsecase) ListJobsPage(page, pageSize int) ([]model.Job, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	jobs, total, err := uc.jobRepo.GetJobsPage(page, pageSize)
	if err != nil {
		return nil, nil, err
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	from := (page-1)*pageSize + 1
	if len(jobs) == 0 {
		from = 0
	}
	pagination := &response.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
		HasMore:    int64(page) < totalPages,
		From:       from,
		To:         from + len(jobs) - 1,
	}
	return jobs, pagination, nil
}

// Refresh clears all stored jobs (embeddings cascade with them) and asks the
// scraping service to start a fresh crawl.
func (uc *JobUsecase) Refresh(ctx context.Context, jobTitle, location string) (map[string]any, error) {
	if jobTitle == "" {
		jobTitle = DefaultTargetJobTitle
	}
	if location == "" {
		location = defaultScrapeLocation
	}

	if err := uc.jobRepo.ClearAll(); err != nil {
		return nil, fmt.Errorf("failed to clear jobs: %w", err)
	}
	return uc.scraper.TriggerScrape(ctx, jobTitle, location)
}

func recordToJob(r *dto.RawJobRecord) model.Job {
	return model.Job{
		LogoLink:         r.LogoLink,
		Title:            r.Title,
		Company:          r.Company,
		Classification:   r.Classification,
		Description:      r.Description,
		Responsibilities: pq.StringArray(r.Responsibilities),
		Requirements:     pq.StringArray(r.Requirements),
		Other:            pq.StringArray(r.Other),
		Location:         r.Location,
		LocationSearch:   r.LocationSearch,
		ExperienceLevel:  r.ExperienceLevel,
		Salary:           r.Salary,
		PostedDate:       r.PostedDate,
		PostedWithin:     r.PostedWithin,
		WorkType:         r.WorkType,
		WorkModel:        r.WorkModel,
		QuickApplyURL:    r.QuickApplyURL,
		JobURL:           r.JobURL,
	}
}
