package config

import (
	"os"
	"sync"
)

type ScraperConfig struct {
	BaseURL string
}

var (
	scraperConfig *ScraperConfig
	scraperOnce   sync.Once
)

func LoadScraperConfig() *ScraperConfig {
	scraperOnce.Do(func() {
		baseURL := os.Getenv("SCRAPER_BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:8000"
		}
		scraperConfig = &ScraperConfig{
			BaseURL: baseURL,
		}
	})
	return scraperConfig
}
