package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/partusch-cms/internal/flagx"
)

var knownFlags = []string{
	"-p", "-api", "-upload", "-env", "-locale",
	"-d", "-client-id", "-r", "-login",
	"-poll", "-processing-timeout", "-timeout",
	"-db", "-l",
	"-s3-region", "-s3-endpoint", "-s3-path-style",
}

// parseFlags overlays cfg with command-line flags. Only the flags listed in
// knownFlags are looked at, so the JSON loader's -c/-config do not clash.
// Invalid values panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ProxyURL, "p", cfg.ProxyURL, "token exchange proxy base URL")
	fs.StringVar(&cfg.CMSAPIURL, "api", cfg.CMSAPIURL, "CMS management API base URL")
	fs.StringVar(&cfg.CMSUploadURL, "upload", cfg.CMSUploadURL, "CMS upload API base URL")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "CMS environment")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "CMS locale of all fields")

	fs.StringVar(&cfg.AuthDomain, "d", cfg.AuthDomain, "identity provider domain")
	fs.StringVar(&cfg.ClientID, "client-id", cfg.ClientID, "identity provider client id")
	fs.StringVar(&cfg.RedirectURI, "r", cfg.RedirectURI, "login redirect URI")
	fs.StringVar(&cfg.LoginMode, "login", cfg.LoginMode, "login mode: browser or paste")

	fs.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "asset processing poll interval")
	fs.DurationVar(&cfg.ProcessingTimeout, "processing-timeout", cfg.ProcessingTimeout, "asset processing timeout")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "HTTP request timeout")

	fs.StringVar(&cfg.DatabaseDSN, "db", cfg.DatabaseDSN, "local SQLite database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region for s3:// images")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3-endpoint", cfg.S3BaseEndpoint, "S3 compatible endpoint")
	fs.BoolVar(&cfg.S3UsePathStyle, "s3-path-style", cfg.S3UsePathStyle, "use path-style S3 addressing")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
