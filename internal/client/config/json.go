package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/partusch-cms/internal/flagx"
	"github.com/dmitrijs2005/partusch-cms/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration so they can be written as "500ms" or as nanoseconds.
type JsonConfig struct {
	ProxyURL     string `json:"proxy_url"`
	CMSAPIURL    string `json:"cms_api_url"`
	CMSUploadURL string `json:"cms_upload_url"`
	Environment  string `json:"environment"`
	Locale       string `json:"locale"`
	ContentType  string `json:"content_type"`

	AuthDomain  string `json:"auth_domain"`
	ClientID    string `json:"client_id"`
	RedirectURI string `json:"redirect_uri"`
	LoginMode   string `json:"login_mode"`

	PollInterval        timex.Duration `json:"poll_interval"`
	ProcessingTimeout   timex.Duration `json:"processing_timeout"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`

	DatabaseDSN string `json:"database_dsn"`
	LogLevel    string `json:"log_level"`

	S3Region          string `json:"s3_region"`
	S3BaseEndpoint    string `json:"s3_base_endpoint"`
	S3AccessKeyID     string `json:"s3_access_key_id"`
	S3SecretAccessKey string `json:"s3_secret_access_key"`
	S3UsePathStyle    *bool  `json:"s3_use_path_style"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Keys that
// are absent or empty keep their current value. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	setString(&cfg.ProxyURL, jc.ProxyURL)
	setString(&cfg.CMSAPIURL, jc.CMSAPIURL)
	setString(&cfg.CMSUploadURL, jc.CMSUploadURL)
	setString(&cfg.Environment, jc.Environment)
	setString(&cfg.Locale, jc.Locale)
	setString(&cfg.ContentType, jc.ContentType)

	setString(&cfg.AuthDomain, jc.AuthDomain)
	setString(&cfg.ClientID, jc.ClientID)
	setString(&cfg.RedirectURI, jc.RedirectURI)
	setString(&cfg.LoginMode, jc.LoginMode)

	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.ProcessingTimeout.Duration > 0 {
		cfg.ProcessingTimeout = jc.ProcessingTimeout.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}

	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.LogLevel, jc.LogLevel)

	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKeyID, jc.S3AccessKeyID)
	setString(&cfg.S3SecretAccessKey, jc.S3SecretAccessKey)
	if jc.S3UsePathStyle != nil {
		cfg.S3UsePathStyle = *jc.S3UsePathStyle
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
