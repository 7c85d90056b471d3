package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvCMSAccessToken   = "CONTENTFUL_ACCESS_TOKEN"
	EnvCMSSpaceID       = "CONTENTFUL_SPACE_ID"
	EnvIssuer           = "AUTH_ISSUER"
	EnvAudience         = "AUTH_AUDIENCE"
	EnvHMACSecret       = "AUTH_HS256_SECRET"
	EnvRSAPublicKeyFile = "AUTH_RS256_PUBLIC_KEY_FILE"
)

// loadDotEnv is a test seam. godotenv.Load never overrides variables that
// are already set.
var loadDotEnv = godotenv.Load

// parseEnv loads config.EnvFile (a missing file is fine) and overlays config
// with the variables above that are set and non-empty. Any other .env error
// panics.
func parseEnv(config *Config) {
	if config.EnvFile != "" {
		if err := loadDotEnv(config.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	for name, dst := range map[string]*string{
		EnvCMSAccessToken:   &config.CMSAccessToken,
		EnvCMSSpaceID:       &config.CMSSpaceID,
		EnvIssuer:           &config.Issuer,
		EnvAudience:         &config.Audience,
		EnvHMACSecret:       &config.HMACSecret,
		EnvRSAPublicKeyFile: &config.RSAPublicKeyFile,
	} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
}
