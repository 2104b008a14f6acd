package config

import "os"

// CodeforcesConfig holds the platform read API endpoints and the optional
// key pair for the signed API variant
type CodeforcesConfig struct {
	APIBaseURL  string
	SiteBaseURL string
	APIKey      string
	APISecret   string
}

func NewCodeforcesConfig() *CodeforcesConfig {
	apiBase := os.Getenv("CODEFORCES_API_BASE_URL")
	if apiBase == "" {
		apiBase = "https://codeforces.com/api"
	}
	siteBase := os.Getenv("CODEFORCES_SITE_BASE_URL")
	if siteBase == "" {
		siteBase = "https://codeforces.com"
	}
	return &CodeforcesConfig{
		APIBaseURL:  apiBase,
		SiteBaseURL: siteBase,
		APIKey:      os.Getenv("CODEFORCES_API_KEY"),
		APISecret:   os.Getenv("CODEFORCES_API_SECRET"),
	}
}
