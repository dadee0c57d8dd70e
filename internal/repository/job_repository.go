package repository

import (
	"github.com/hireloop/job-match-backend/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// SearchJobs returns every job that has an embedding row, ordered by inner
// product distance to the query vector (closest first). Ties break on job id
// so the ordering is deterministic.
func (r *JobRepository) SearchJobs(embedding pgvector.Vector) ([]model.JobMatch, error) {
	var matches []model.JobMatch

	err := r.db.Raw(`
        SELECT jobs.*, job_embeddings.embedding <#> ? AS score
        FROM jobs
        JOIN job_embeddings ON job_embeddings.job_id = jobs.id
        ORDER BY job_embeddings.embedding <#> ?, jobs.id
    `, embedding, embedding).Scan(&matches).Error

	return matches, err
}

// InsertBatchWithEmbeddings writes a page of jobs and their embedding rows in
// one transaction. Callers must pass exactly one vector per job; a crash or
// failure anywhere rolls back both tables.
func (r *JobRepository) InsertBatchWithEmbeddings(jobs []model.Job, vectors []pgvector.Vector) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&jobs).Error; err != nil {
			return err
		}
		rows := make([]model.JobEmbedding, len(jobs))
		for i := range jobs {
			rows[i] = model.JobEmbedding{JobID: jobs[i].ID, Embedding: vectors[i]}
		}
		return tx.Create(&rows).Error
	})
}

func (r *JobRepository) GetJobs() ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) GetJobsPage(page, pageSize int) ([]model.Job, int64, error) {
	var jobs []model.Job
	var total int64

	if err := r.db.Model(&model.Job{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&jobs).Error
	return jobs, total, err
}

// ClearAll drops every job (embeddings cascade) and restarts the id
// sequences so a fresh scrape starts from 1.
func (r *JobRepository) ClearAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Job{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("ALTER SEQUENCE jobs_id_seq RESTART WITH 1").Error; err != nil {
			return err
		}
		return tx.Exec("ALTER SEQUENCE job_embeddings_id_seq RESTART WITH 1").Error
	})
}
