package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with env tags; zero values mean "not set" and
// leave the existing value in place.
type envConfig struct {
	EndpointAddr                   string        `env:"SERVER_ADDR"`
	DatabaseDSN                    string        `env:"DATABASE_DSN"`
	JWTAccessSecret                string        `env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret               string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenExpiry              time.Duration `env:"ACCESS_TOKEN_EXPIRY"`
	RefreshTokenExpiry             time.Duration `env:"REFRESH_TOKEN_EXPIRY"`
	RefreshTokenExpiryKeepLoggedIn time.Duration `env:"REFRESH_TOKEN_EXPIRY_KEEP_LOGGED_IN"`
	BrevoAPIKey                    string        `env:"BREVO_API_KEY"`
	BrevoAPIURL                    string        `env:"BREVO_API_URL"`
	MailFromEmail                  string        `env:"MAIL_FROM_EMAIL"`
	MailFromName                   string        `env:"MAIL_FROM_NAME"`
	GoogleClientID                 string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret             string        `env:"GOOGLE_CLIENT_SECRET"`
	S3RootUser                     string        `env:"S3_ROOT_USER"`
	S3RootPassword                 string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket                       string        `env:"S3_BUCKET"`
	S3Region                       string        `env:"S3_REGION"`
	S3BaseEndpoint                 string        `env:"S3_BASE_ENDPOINT"`
}

// parseEnv overlays environment variables onto the Config. cmd/server loads
// a .env file beforehand via godotenv's autoload import.
func parseEnv(config *Config) {
	e := &envConfig{}
	if err := env.Parse(e); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, e.EndpointAddr)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.JWTAccessSecret, e.JWTAccessSecret)
	setString(&config.JWTRefreshSecret, e.JWTRefreshSecret)
	setString(&config.BrevoAPIKey, e.BrevoAPIKey)
	setString(&config.BrevoAPIURL, e.BrevoAPIURL)
	setString(&config.MailFromEmail, e.MailFromEmail)
	setString(&config.MailFromName, e.MailFromName)
	setString(&config.GoogleClientID, e.GoogleClientID)
	setString(&config.GoogleClientSecret, e.GoogleClientSecret)
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)

	if e.AccessTokenExpiry != 0 {
		config.AccessTokenExpiry = e.AccessTokenExpiry
	}
	if e.RefreshTokenExpiry != 0 {
		config.RefreshTokenExpiry = e.RefreshTokenExpiry
	}
	if e.RefreshTokenExpiryKeepLoggedIn != 0 {
		config.RefreshTokenExpiryKeepLoggedIn = e.RefreshTokenExpiryKeepLoggedIn
	}
}
