package config

import (
	"github.com/JaimeStill/philatopia/internal/auth"
	"github.com/JaimeStill/philatopia/pkg/database"
	"github.com/JaimeStill/philatopia/pkg/logging"
	"github.com/JaimeStill/philatopia/pkg/middleware"
	"github.com/JaimeStill/philatopia/pkg/openapi"
	"github.com/JaimeStill/philatopia/pkg/pagination"
	"github.com/JaimeStill/philatopia/pkg/storage"
)

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
	SSLMode:         "DATABASE_SSL_MODE",
	AutoMigrate:     "DATABASE_AUTO_MIGRATE",
}

var loggingEnv = &logging.Env{
	Level:  "LOGGING_LEVEL",
	Format: "LOGGING_FORMAT",
	Source: "LOGGING_SOURCE",
}

var storageEnv = &storage.Env{
	Backend:        "STORAGE_BACKEND",
	BasePath:       "STORAGE_BASE_PATH",
	MaxUploadSize:  "STORAGE_MAX_UPLOAD_SIZE",
	Naming:         "STORAGE_NAMING",
	PublicPrefix:   "STORAGE_PUBLIC_PREFIX",
	MinioEndpoint:  "STORAGE_MINIO_ENDPOINT",
	MinioAccessKey: "STORAGE_MINIO_ACCESS_KEY",
	MinioSecretKey: "STORAGE_MINIO_SECRET_KEY",
	MinioBucket:    "STORAGE_MINIO_BUCKET",
}

var authEnv = &auth.Env{
	TokenSecret: "AUTH_TOKEN_SECRET",
	TokenTTL:    "AUTH_TOKEN_TTL",
}

var corsEnv = &middleware.CORSEnv{
	Enabled:          "API_CORS_ENABLED",
	Origins:          "API_CORS_ORIGINS",
	AllowedMethods:   "API_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "API_CORS_ALLOWED_HEADERS",
	AllowCredentials: "API_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "API_CORS_MAX_AGE",
}

var rateLimitEnv = &middleware.RateLimitEnv{
	Enabled: "API_RATE_LIMIT_ENABLED",
	Rate:    "API_RATE_LIMIT_RATE",
	Burst:   "API_RATE_LIMIT_BURST",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "API_OPENAPI_TITLE",
	Description: "API_OPENAPI_DESCRIPTION",
	Servers:     "API_OPENAPI_SERVERS",
}

var paginationEnv = &pagination.Env{
	PageSize: "API_PAGINATION_PAGE_SIZE",
}
