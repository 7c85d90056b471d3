// Package config handles configuration for the token exchange proxy,
// including defaults, JSON overlay, environment variables and command-line
// flags.
package config

import "time"

// Config holds runtime settings for the proxy.
//
// Fields:
//   - HTTPAddr: bind address of the REST endpoint (/user/auth, /health).
//   - GRPCAddr: bind address of the gRPC health endpoint; empty disables it.
//   - Issuer / Audience: expected iss and aud of the identity provider ID token.
//   - HMACSecret: HS256 verification key.
//   - RSAPublicKeyFile: PEM file with the RS256 verification key; wins over HMACSecret.
//   - CMSAccessToken / CMSSpaceID: the credential pair handed out on success.
//   - EnvFile: optional .env file loaded before reading the environment.
type Config struct {
	HTTPAddr         string
	GRPCAddr         string
	Issuer           string
	Audience         string
	HMACSecret       string
	RSAPublicKeyFile string
	CMSAccessToken   string
	CMSSpaceID       string
	LogLevel         string
	ShutdownTimeout  time.Duration
	EnvFile          string
}

// LoadDefaults populates Config with development defaults. No secrets are
// defaulted.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.Issuer = "https://partusch-cms.auth0.com/"
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
	c.EnvFile = ".env"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
