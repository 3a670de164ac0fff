package config

import (
	"encoding/json"
	"os"

	"github.com/gowear/gowear/internal/flagx"
	"github.com/gowear/gowear/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "15m" and integer nanoseconds. After
// unmarshalling, set fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                   string         `json:"endpoint_addr"`
	DatabaseDSN                    string         `json:"database_dsn"`
	JWTAccessSecret                string         `json:"jwt_access_secret"`
	JWTRefreshSecret               string         `json:"jwt_refresh_secret"`
	AccessTokenExpiry              timex.Duration `json:"access_token_expiry"`
	RefreshTokenExpiry             timex.Duration `json:"refresh_token_expiry"`
	RefreshTokenExpiryKeepLoggedIn timex.Duration `json:"refresh_token_expiry_keep_logged_in"`
	BrevoAPIKey                    string         `json:"brevo_api_key"`
	BrevoAPIURL                    string         `json:"brevo_api_url"`
	MailFromEmail                  string         `json:"mail_from_email"`
	MailFromName                   string         `json:"mail_from_name"`
	GoogleClientID                 string         `json:"google_client_id"`
	GoogleClientSecret             string         `json:"google_client_secret"`
	S3RootUser                     string         `json:"s3_root_user"`
	S3RootPassword                 string         `json:"s3_root_password"`
	S3Bucket                       string         `json:"s3_bucket"`
	S3Region                       string         `json:"s3_region"`
	S3BaseEndpoint                 string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config command-line flags;
// when neither is set, no JSON file is loaded. An unreadable or invalid
// file panics: a config file the operator pointed at must be usable.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.JWTAccessSecret, c.JWTAccessSecret)
	setString(&config.JWTRefreshSecret, c.JWTRefreshSecret)
	setString(&config.BrevoAPIKey, c.BrevoAPIKey)
	setString(&config.BrevoAPIURL, c.BrevoAPIURL)
	setString(&config.MailFromEmail, c.MailFromEmail)
	setString(&config.MailFromName, c.MailFromName)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleClientSecret)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenExpiry.Duration != 0 {
		config.AccessTokenExpiry = c.AccessTokenExpiry.Duration
	}
	if c.RefreshTokenExpiry.Duration != 0 {
		config.RefreshTokenExpiry = c.RefreshTokenExpiry.Duration
	}
	if c.RefreshTokenExpiryKeepLoggedIn.Duration != 0 {
		config.RefreshTokenExpiryKeepLoggedIn = c.RefreshTokenExpiryKeepLoggedIn.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
