package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/songkeeper/internal/flagx"
	"github.com/dmitrijs2005/songkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted.
// Fields left out of the file keep their previous value.
type FileConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC string `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN      string `json:"database_dsn" yaml:"database_dsn"`

	DocumentBackend  string `json:"document_backend" yaml:"document_backend"`
	MongoURI         string `json:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase    string `json:"mongo_database" yaml:"mongo_database"`
	SurrealURL       string `json:"surreal_url" yaml:"surreal_url"`
	SurrealNamespace string `json:"surreal_namespace" yaml:"surreal_namespace"`
	SurrealDatabase  string `json:"surreal_database" yaml:"surreal_database"`
	SurrealUser      string `json:"surreal_user" yaml:"surreal_user"`
	SurrealPassword  string `json:"surreal_password" yaml:"surreal_password"`

	SecretKey             string         `json:"secret_key" yaml:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	PageSize              int            `json:"page_size" yaml:"page_size"`
	LogBackend            string         `json:"log_backend" yaml:"log_backend"`

	S3RootUser     string `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	if err := decodeFile(path, data, fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func decodeFile(path string, data []byte, fc *FileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, fc)
	default:
		return json.Unmarshal(data, fc)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&cfg.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)

	setString(&cfg.DocumentBackend, fc.DocumentBackend)
	setString(&cfg.MongoURI, fc.MongoURI)
	setString(&cfg.MongoDatabase, fc.MongoDatabase)
	setString(&cfg.SurrealURL, fc.SurrealURL)
	setString(&cfg.SurrealNamespace, fc.SurrealNamespace)
	setString(&cfg.SurrealDatabase, fc.SurrealDatabase)
	setString(&cfg.SurrealUser, fc.SurrealUser)
	setString(&cfg.SurrealPassword, fc.SurrealPassword)

	setString(&cfg.SecretKey, fc.SecretKey)
	if fc.TokenValidityDuration.Duration > 0 {
		cfg.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	if fc.PageSize > 0 {
		cfg.PageSize = fc.PageSize
	}
	setString(&cfg.LogBackend, fc.LogBackend)

	setString(&cfg.S3RootUser, fc.S3RootUser)
	setString(&cfg.S3RootPassword, fc.S3RootPassword)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
}
