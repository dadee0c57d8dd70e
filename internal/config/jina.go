package config

import (
	"os"
	"sync"
)

type JinaConfig struct {
	APIKey  string
	BaseURL string
}

var (
	jinaConfig *JinaConfig
	jinaOnce   sync.Once
)

func LoadJinaConfig() *JinaConfig {
	jinaOnce.Do(func() {
		baseURL := os.Getenv("JINA_BASE_URL")
		if baseURL == "" {
			baseURL = "https://api.jina.ai"
		}
		jinaConfig = &JinaConfig{
			APIKey:  os.Getenv("JINA_API_KEY"),
			BaseURL: baseURL,
		}
	})
	return jinaConfig
}
