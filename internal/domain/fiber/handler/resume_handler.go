package handler

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hireloop/job-match-backend/internal/config"
	"github.com/hireloop/job-match-backend/internal/dto"
	"github.com/hireloop/job-match-backend/internal/middleware"
	"github.com/hireloop/job-match-backend/internal/usecase"
	"github.com/hireloop/job-match-backend/internal/util"
)

const maxResumeSize = 5 * 1024 * 1024

type ResumeHandler struct {
	uc *usecase.ResumeUsecase
}

func NewResumeHandler(uc *usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/resume")
	api.Post("/upload", middleware.RateLimiter(5, 1*time.Minute), h.Upload)
	api.Post("/rematch", h.Rematch)
}

// Upload takes one multipart PDF, runs the intake pipeline and responds with
// ranked jobs plus the stored experiences. Validation happens before any
// parsing or network call.
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "No file uploaded.",
		}, err)
	}
	if file.Header.Get("Content-Type") != "application/pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid file type. Only PDFs are allowed.",
		})
	}
	if file.Size > maxResumeSize {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Resume file size is too large (max 5MB).",
		})
	}

	uploadDir := config.LoadAppConfig().UploadDir
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "Cannot save resume file.",
		}, err)
	}
	savePath := filepath.Join(uploadDir, uuid.NewString()+".pdf")
	if err := c.SaveFile(file, savePath); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "Cannot save resume file.",
		}, err)
	}
	defer os.Remove(savePath)

	text, err := util.ExtractPDFText(savePath)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Failed to extract resume text.",
		}, err)
	}

	result, err := h.uc.MatchResume(c.Context(), text, file.Filename, c.FormValue("job_title"))
	if err != nil {
		if errors.Is(err, usecase.ErrUnparsableExtraction) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnprocessableEntity,
				Message: "Could not extract experiences from resume.",
				Details: fiber.Map{"experiences": []dto.StoredExperience{}},
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "Failed to match resume to jobs.",
		}, err)
	}

	return c.JSON(result)
}

// Rematch re-runs the job ranking against a user-selected subset of stored
// experiences.
func (h *ResumeHandler) Rematch(c *fiber.Ctx) error {
	var req dto.RematchRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid request body.",
		}, err)
	}
	if len(req.ExperienceIDs) == 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "experienceIds must be a non-empty array.",
		})
	}

	matches, err := h.uc.Rematch(c.Context(), req.ExperienceIDs)
	if err != nil {
		if errors.Is(err, usecase.ErrNoValidEmbeddings) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "No valid embeddings found for the selected experiences.",
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "Failed to rematch experiences to jobs.",
		}, err)
	}

	return c.JSON(dto.RematchResponse{MatchedJobs: matches})
}
