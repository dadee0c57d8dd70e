package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/hireloop/job-match-backend/internal/config"
)

type ScraperServiceInterface interface {
	TriggerScrape(ctx context.Context, jobTitle, location string) (map[string]any, error)
}

// ScraperService talks to the separate scraping microservice. Scraping itself
// happens there; this client only kicks it off.
type ScraperService struct {
	client *resty.Client
}

func NewScraperService() *ScraperService {
	cfg := config.LoadScraperConfig()
	return &ScraperService{
		client: resty.New().SetBaseURL(cfg.BaseURL),
	}
}

func (s *ScraperService) TriggerScrape(ctx context.Context, jobTitle, location string) (map[string]any, error) {
	var ack map[string]any
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"job_title": jobTitle,
			"location":  location,
		}).
		SetResult(&ack).
		Post("/start-scraping")
	if err != nil {
		return nil, fmt.Errorf("scraper trigger failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("scraper returned %s: %s", resp.Status(), resp.String())
	}
	return ack, nil
}
