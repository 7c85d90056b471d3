// Package config loads runtime configuration for the CMS CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-p string                   token exchange proxy base URL
//	-api string                 CMS management API base URL
//	-upload string              CMS upload API base URL
//	-env string                 CMS environment (master)
//	-locale string              CMS locale (en-US)
//	-d string                   identity provider domain
//	-client-id string           identity provider client id
//	-r string                   login redirect URI
//	-login string               browser or paste
//	-poll duration              asset processing poll interval
//	-processing-timeout duration
//	-timeout duration           HTTP request timeout
//	-db string                  local SQLite database
//	-l string                   log level
//	-s3-region, -s3-endpoint, -s3-path-style
//
// # JSON schema
//
//	{
//	  "proxy_url": "https://cms-proxy.example.com",
//	  "client_id": "abc123",
//	  "poll_interval": "500ms",
//	  "processing_timeout": "30s",
//	  "s3_access_key_id": "...",
//	  "s3_secret_access_key": "..."
//	}
//
// S3 keys can only be set in the JSON file so they stay out of shell history.
package config
