package config

import (
	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration, so both "15m" and integer nanoseconds are accepted.
// Fields left out of the file keep their current values.
type JsonConfig struct {
	HTTPAddr                     *string         `json:"http_addr"`
	HealthAddr                   *string         `json:"health_addr"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
}

// parseJson overlays config with the JSON file named by -c/-config.
// It does nothing when no file is given and panics when the file cannot be
// read or parsed.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	c := &JsonConfig{}
	if err := flagx.ReadJSON(path, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.HealthAddr, c.HealthAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
