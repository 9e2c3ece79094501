package config

import (
	"flag"

	"github.com/dmitrijs2005/bookapi/internal/flagx"
)

var serverFlags = []string{
	"-a", "-g", "-d", "-l", "-k", "-iss", "-aud", "-w",
	"-s3-user", "-s3-password", "-s3-bucket", "-s3-region", "-s3-endpoint",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string            HTTP bind address (e.g. ":8080")
//	-g string            gRPC health bind address (empty disables it)
//	-d string            PostgreSQL DSN (empty selects in-memory stores)
//	-l string            log level
//	-k string            JWT HMAC signing key
//	-iss string          JWT issuer
//	-aud string          JWT audience
//	-w int               max parallel password derivations
//	-s3-user string      S3 access key
//	-s3-password string  S3 secret key
//	-s3-bucket string    S3 bucket for covers
//	-s3-region string    S3 region
//	-s3-endpoint string  S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//
// Unknown arguments are filtered out first so -c/-config can coexist.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("bookapi", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.JWTKey, "k", config.JWTKey, "jwt signing key")
	fs.StringVar(&config.JWTIssuer, "iss", config.JWTIssuer, "jwt issuer")
	fs.StringVar(&config.JWTAudience, "aud", config.JWTAudience, "jwt audience")
	fs.IntVar(&config.KDFConcurrency, "w", config.KDFConcurrency, "max parallel password derivations")
	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket for covers")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")

	return fs.Parse(flagx.FilterArgs(args, serverFlags))
}
