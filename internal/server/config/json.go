package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bookapi/internal/flagx"
	"github.com/dmitrijs2005/bookapi/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations go
// through timex.Duration so both "15s" and whole seconds are accepted.
// Only fields present in the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC string          `json:"endpoint_addr_grpc"`
	DatabaseDSN      *string         `json:"database_dsn"`
	LogLevel         string          `json:"log_level"`
	JWTKey           string          `json:"jwt_key"`
	JWTIssuer        string          `json:"jwt_issuer"`
	JWTAudience      string          `json:"jwt_audience"`
	KDFConcurrency   int             `json:"kdf_concurrency"`
	MaxBodyBytes     int64           `json:"max_body_bytes"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
	S3RootUser       string          `json:"s3_root_user"`
	S3RootPassword   string          `json:"s3_root_password"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&cfg.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&cfg.EndpointAddrGRPC, c.EndpointAddrGRPC)
	if c.DatabaseDSN != nil {
		cfg.DatabaseDSN = *c.DatabaseDSN
	}
	setString(&cfg.LogLevel, c.LogLevel)
	setString(&cfg.JWTKey, c.JWTKey)
	setString(&cfg.JWTIssuer, c.JWTIssuer)
	setString(&cfg.JWTAudience, c.JWTAudience)
	if c.KDFConcurrency != 0 {
		cfg.KDFConcurrency = c.KDFConcurrency
	}
	if c.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = c.MaxBodyBytes
	}
	c.RequestTimeout.Apply(&cfg.RequestTimeout)
	c.ShutdownTimeout.Apply(&cfg.ShutdownTimeout)
	setString(&cfg.S3RootUser, c.S3RootUser)
	setString(&cfg.S3RootPassword, c.S3RootPassword)
	setString(&cfg.S3Bucket, c.S3Bucket)
	setString(&cfg.S3Region, c.S3Region)
	setString(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
