package config

import "os"

type AuthConfig struct {
	Secret string
}

func NewAuthConfig() *AuthConfig {
	return &AuthConfig{
		Secret: os.Getenv("AUTH_SECRET"),
	}
}
