package repository

import (
	"github.com/hireloop/job-match-backend/internal/model"
	"gorm.io/gorm"
)

type ResumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *ResumeRepository {
	return &ResumeRepository{db}
}

func (r *ResumeRepository) CreateResume(resume *model.Resume) error {
	return r.db.Create(resume).Error
}

func (r *ResumeRepository) CreateExperience(exp *model.Experience) error {
	return r.db.Create(exp).Error
}

func (r *ResumeRepository) GetExperiencesByIDs(ids []uint) ([]model.Experience, error) {
	var exps []model.Experience
	err := r.db.Where("id IN ?", ids).Order("id").Find(&exps).Error
	return exps, err
}
