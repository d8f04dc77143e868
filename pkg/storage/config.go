package storage

import (
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-units"
)

// Backend selects the blob store implementation.
type Backend string

const (
	BackendFilesystem Backend = "filesystem"
	BackendMinio      Backend = "minio"
)

// Config contains blob storage configuration.
type Config struct {
	Backend Backend `toml:"backend"`
	// BasePath is the root directory for filesystem storage.
	// Default: ".data/uploads"
	BasePath      string `toml:"base_path"`
	MaxUploadSize string `toml:"max_upload_size"`
	Naming        Naming `toml:"naming"`
	// PublicPrefix is the URL path under which stored blobs are served.
	PublicPrefix string      `toml:"public_prefix"`
	Minio        MinioConfig `toml:"minio"`

	maxUploadSizeVal int64
}

// MinioConfig holds the S3-compatible object store connection.
type MinioConfig struct {
	Endpoint     string `toml:"endpoint"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	Bucket       string `toml:"bucket"`
	CreateBucket bool   `toml:"create_bucket"`
}

type Env struct {
	Backend        string
	BasePath       string
	MaxUploadSize  string
	Naming         string
	PublicPrefix   string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
}

func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if size, err := units.FromHumanSize(overlay.MaxUploadSize); err == nil {
		c.MaxUploadSize = overlay.MaxUploadSize
		c.maxUploadSizeVal = size
	}
	if overlay.Naming != "" {
		c.Naming = overlay.Naming
	}
	if overlay.PublicPrefix != "" {
		c.PublicPrefix = overlay.PublicPrefix
	}
	if overlay.Minio.Endpoint != "" {
		c.Minio.Endpoint = overlay.Minio.Endpoint
	}
	if overlay.Minio.AccessKey != "" {
		c.Minio.AccessKey = overlay.Minio.AccessKey
	}
	if overlay.Minio.SecretKey != "" {
		c.Minio.SecretKey = overlay.Minio.SecretKey
	}
	if overlay.Minio.Bucket != "" {
		c.Minio.Bucket = overlay.Minio.Bucket
	}
	if overlay.Minio.CreateBucket {
		c.Minio.CreateBucket = true
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFilesystem
	}
	if c.BasePath == "" {
		c.BasePath = ".data/uploads"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
	if c.Naming == "" {
		c.Naming = NamingContent
	}
	if c.PublicPrefix == "" {
		c.PublicPrefix = "/uploads"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	var backend, naming string
	set(env.Backend, &backend)
	set(env.Naming, &naming)
	if backend != "" {
		c.Backend = Backend(backend)
	}
	if naming != "" {
		c.Naming = Naming(naming)
	}

	set(env.BasePath, &c.BasePath)
	set(env.MaxUploadSize, &c.MaxUploadSize)
	set(env.PublicPrefix, &c.PublicPrefix)
	set(env.MinioEndpoint, &c.Minio.Endpoint)
	set(env.MinioAccessKey, &c.Minio.AccessKey)
	set(env.MinioSecretKey, &c.Minio.SecretKey)
	set(env.MinioBucket, &c.Minio.Bucket)
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendFilesystem:
		if c.BasePath == "" {
			return fmt.Errorf("base_path required")
		}
	case BackendMinio:
		if c.Minio.Endpoint == "" {
			return fmt.Errorf("minio.endpoint required")
		}
		if c.Minio.Bucket == "" {
			return fmt.Errorf("minio.bucket required")
		}
	default:
		return fmt.Errorf("invalid backend: %s (must be filesystem or minio)", c.Backend)
	}

	if err := c.Naming.Validate(); err != nil {
		return err
	}

	if !strings.HasPrefix(c.PublicPrefix, "/") {
		return fmt.Errorf("public_prefix must start with /")
	}
	c.PublicPrefix = "/" + strings.Trim(c.PublicPrefix, "/")

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	return nil
}
