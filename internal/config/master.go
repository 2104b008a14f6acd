package config

import "os"

type AppConfig struct {
	DebugMode        bool
	SyncCfg          *SyncCfg
	RedisConfig      *RedisConfig
	PostgresConfig   *PostgresConfig
	AuthConfig       *AuthConfig
	CodeforcesConfig *CodeforcesConfig
	GithubConfig     *GithubConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:        os.Getenv("DEBUG_MODE") == "true",
		SyncCfg:          NewSyncCfg(),
		RedisConfig:      NewRedisConfig(),
		PostgresConfig:   NewPostgresConfig(),
		AuthConfig:       NewAuthConfig(),
		CodeforcesConfig: NewCodeforcesConfig(),
		GithubConfig:     NewGithubConfig(),
	}
}
