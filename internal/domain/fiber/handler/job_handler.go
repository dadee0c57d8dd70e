package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hireloop/job-match-backend/internal/dto"
	"github.com/hireloop/job-match-backend/internal/usecase"
	"github.com/hireloop/job-match-backend/internal/util"
)

type JobHandler struct {
	uc *usecase.JobUsecase
}

func NewJobHandler(uc *usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/jobs")
	api.Get("/", h.List)
	api.Post("/page-batch", h.PageBatch)
	api.Post("/refresh", h.Refresh)
}

// List returns all stored jobs. With a page query parameter the response is
// wrapped in the paginated envelope instead.
func (h *JobHandler) List(c *fiber.Ctx) error {
	if c.Query("page") != "" {
		page := c.QueryInt("page", 1)
		pageSize := c.QueryInt("page_size", 0)

		jobs, pagination, err := h.uc.ListJobsPage(page, pageSize)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "Failed to list jobs.",
			}, err)
		}
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Data:       jobs,
			Pagination: pagination,
		})
	}

	jobs, err := h.uc.ListJobs()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "Failed to list jobs.",
		}, err)
	}
	return c.JSON(jobs)
}

// PageBatch ingests one page of scraped jobs. The whole page either lands
// with its embeddings or not at all.
func (h *JobHandler) PageBatch(c *fiber.Ctx) error {
	var req dto.IngestJobsRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid request body.",
		}, err)
	}

	inserted, err := h.uc.IngestBatch(c.Context(), req.Jobs)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyBatch):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "Empty or invalid job data batch.",
			}, err)
		case errors.Is(err, usecase.ErrInvalidRecord):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "Job batch contains an invalid record.",
			}, err)
		case errors.Is(err, usecase.ErrEmbeddingMismatch):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "Embedding count mismatch.",
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "Failed to insert job page.",
		}, err)
	}

	return c.JSON(dto.IngestJobsResponse{Inserted: inserted})
}

// Refresh drops all stored jobs and asks the scraping service for a fresh
// crawl.
func (h *JobHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		JobTitle string `json:"job_title"`
		Location string `json:"location"`
	}
	// Body is optional; defaults apply when absent.
	_ = c.BodyParser(&req)

	ack, err := h.uc.Refresh(c.Context(), req.JobTitle, req.Location)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "Failed to refresh jobs.",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Job refresh started",
		Data:    ack,
	})
}
