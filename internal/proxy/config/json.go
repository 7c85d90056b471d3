package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/partusch-cms/internal/flagx"
	"github.com/dmitrijs2005/partusch-cms/internal/timex"
)

// JsonConfig is the JSON DTO of Config. ShutdownTimeout accepts "10s" or
// integer nanoseconds.
type JsonConfig struct {
	HTTPAddr         string         `json:"http_addr"`
	GRPCAddr         *string        `json:"grpc_addr"`
	Issuer           string         `json:"issuer"`
	Audience         string         `json:"audience"`
	HMACSecret       string         `json:"hmac_secret"`
	RSAPublicKeyFile string         `json:"rsa_public_key_file"`
	CMSAccessToken   string         `json:"cms_access_token"`
	CMSSpaceID       string         `json:"cms_space_id"`
	LogLevel         string         `json:"log_level"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
	EnvFile          *string        `json:"env_file"`
}

// parseJson loads the JSON file named by -c or -config into config. Absent
// keys keep their current value; grpc_addr and env_file may be set to "" to
// disable the feature. Read or decode errors panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.Issuer, c.Issuer)
	set(&config.Audience, c.Audience)
	set(&config.HMACSecret, c.HMACSecret)
	set(&config.RSAPublicKeyFile, c.RSAPublicKeyFile)
	set(&config.CMSAccessToken, c.CMSAccessToken)
	set(&config.CMSSpaceID, c.CMSSpaceID)
	set(&config.LogLevel, c.LogLevel)

	if c.GRPCAddr != nil {
		config.GRPCAddr = *c.GRPCAddr
	}
	if c.EnvFile != nil {
		config.EnvFile = *c.EnvFile
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
