package config

import "os"

// GithubConfig holds the content API endpoint. The access token itself lives
// in the settings store; it is user-supplied, not deployment config.
type GithubConfig struct {
	APIBaseURL string
}

func NewGithubConfig() *GithubConfig {
	apiBase := os.Getenv("GITHUB_API_BASE_URL")
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	return &GithubConfig{
		APIBaseURL: apiBase,
	}
}
