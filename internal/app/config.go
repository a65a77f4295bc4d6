package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Constants
const (
	DefaultImageURL   = "https://images.unsplash.com/photo-1552664730-d307ca884978?w=600&h=400&fit=crop"
	DefaultBlobPrefix = "she-events"
	DefaultRegion     = "eu-west-1"

	SessionCookie = "she-admin-session"
)

// Config holds the runtime configuration, loaded from the environment.
type Config struct {
	Port int

	// Admin gate. Hash takes precedence; Password is a dev-mode fallback.
	AdminPasswordHash string
	AdminPassword     string

	// Blob storage. An empty bucket means no persistence: reads come from
	// the bundled seed data and writes are accepted but not retained.
	BlobBucket    string
	BlobPrefix    string
	BlobRegion    string
	BlobEndpoint  string
	BlobPublicURL string

	ContactEmail string
}

// LoadConfig reads configuration from the environment. A .env file is
// loaded first when present so local development does not need exported
// variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional; real deployments provide the environment.
	}

	cfg := &Config{
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		BlobBucket:        os.Getenv("BLOB_BUCKET"),
		BlobPrefix:        os.Getenv("BLOB_PREFIX"),
		BlobRegion:        os.Getenv("BLOB_REGION"),
		BlobEndpoint:      os.Getenv("BLOB_ENDPOINT"),
		BlobPublicURL:     os.Getenv("BLOB_PUBLIC_URL"),
		ContactEmail:      os.Getenv("CONTACT_EMAIL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate fills defaults and rejects inconsistent settings.
func (c *Config) validate() error {
	if c.BlobPrefix == "" {
		c.BlobPrefix = DefaultBlobPrefix
	}
	if strings.ContainsAny(c.BlobPrefix, " \t\n") {
		return fmt.Errorf("config: BLOB_PREFIX mag geen witruimte bevatten (%q)", c.BlobPrefix)
	}
	if c.BlobRegion == "" {
		c.BlobRegion = DefaultRegion
	}
	if c.ContactEmail == "" {
		c.ContactEmail = "info@she-is.nl"
	}
	return nil
}

// StorageConfigured reports whether a durable blob store is available.
// Without one the service still runs, with reduced guarantees.
func (c *Config) StorageConfigured() bool {
	return c.BlobBucket != ""
}
