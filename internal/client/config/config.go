package config

import "time"

// Login modes.
const (
	LoginModeBrowser = "browser"
	LoginModePaste   = "paste"
)

// Config holds runtime settings for the CMS CLI.
type Config struct {
	ProxyURL     string
	CMSAPIURL    string
	CMSUploadURL string
	Environment  string
	Locale       string
	ContentType  string

	AuthDomain  string
	ClientID    string
	RedirectURI string
	LoginMode   string

	PollInterval        time.Duration
	ProcessingTimeout   time.Duration
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration

	DatabaseDSN string
	LogLevel    string

	S3Region          string
	S3BaseEndpoint    string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ProxyURL = "http://127.0.0.1:8080"
	c.CMSAPIURL = "https://api.contentful.com"
	c.CMSUploadURL = "https://upload.contentful.com"
	c.Environment = "master"
	c.Locale = "en-US"
	c.ContentType = "post"

	c.AuthDomain = "https://partusch-cms.auth0.com"
	c.RedirectURI = "http://127.0.0.1:8765/callback"
	c.LoginMode = LoginModeBrowser

	c.PollInterval = 500 * time.Millisecond
	c.ProcessingTimeout = 30 * time.Second
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 30 * time.Second

	c.DatabaseDSN = "partusch-cms.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
