package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted after the JSON file.
const (
	EnvJWTKey      = "BOOKAPI_JWT_KEY"
	EnvDatabaseDSN = "BOOKAPI_DATABASE_DSN"
	EnvS3Password  = "BOOKAPI_S3_PASSWORD"
)

// envFile is an optional dotenv file in the working directory. Variables set
// in the real environment take precedence over it.
var envFile = ".env"

func parseEnv(cfg *Config) error {
	fileVars, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", envFile, err)
	}

	lookup := func(key string) (string, bool) {
		v, ok := os.LookupEnv(key)
		if !ok {
			v, ok = fileVars[key]
		}
		return strings.TrimSpace(v), ok
	}

	if v, ok := lookup(EnvJWTKey); ok {
		cfg.JWTKey = v
	}
	if v, ok := lookup(EnvDatabaseDSN); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookup(EnvS3Password); ok {
		cfg.S3RootPassword = v
	}
	return nil
}
