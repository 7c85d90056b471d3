package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/partusch-cms/internal/flagx"
)

// parseFlags populates selected proxy Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC health bind address, empty disables it
//	-i string     expected token issuer
//	-aud string   expected token audience (identity provider client id)
//	-k string     RS256 public key PEM file
//	-l string     log level
//	-t duration   graceful shutdown timeout
//	-e string     .env file
//
// Secrets (HMAC key, CMS token) are not accepted as flags.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-i", "-aud", "-k", "-l", "-t", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port of the gRPC health endpoint")
	fs.StringVar(&config.Issuer, "i", config.Issuer, "expected ID token issuer")
	fs.StringVar(&config.Audience, "aud", config.Audience, "expected ID token audience")
	fs.StringVar(&config.RSAPublicKeyFile, "k", config.RSAPublicKeyFile, "RS256 public key PEM file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&config.EnvFile, "e", config.EnvFile, ".env file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
