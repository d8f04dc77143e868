package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/JaimeStill/philatopia/pkg/lifecycle"
)

type minioStore struct {
	client *mclient.Client
	cfg    *MinioConfig
	logger *slog.Logger
}

// NewMinio creates a System backed by an S3-compatible bucket. The endpoint
// may carry an http or https scheme, which selects TLS.
func NewMinio(cfg *MinioConfig, logger *slog.Logger) (System, error) {
	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &minioStore{
		client: client,
		cfg:    cfg,
		logger: logger.With("system", "storage", "backend", "minio"),
	}, nil
}

// Start verifies the bucket exists, creating it when configured to.
func (m *minioStore) Start(lc *lifecycle.Coordinator) error {
	ctx := lc.Context()

	exists, err := m.client.BucketExists(ctx, m.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}

	if !exists {
		if !m.cfg.CreateBucket {
			return fmt.Errorf("bucket %q does not exist", m.cfg.Bucket)
		}
		if err := m.client.MakeBucket(ctx, m.cfg.Bucket, mclient.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		m.logger.Info("bucket created", "bucket", m.cfg.Bucket)
	}

	m.logger.Info("starting storage system", "endpoint", m.cfg.Endpoint, "bucket", m.cfg.Bucket)
	return nil
}

func (m *minioStore) Store(ctx context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	opts := mclient.PutObjectOptions{ContentType: contentType(key, data)}
	if _, err := m.client.PutObject(ctx, m.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return m.mapError(err, "put object")
	}

	return nil
}

func (m *minioStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, m.cfg.Bucket, key, mclient.GetObjectOptions{})
	if err != nil {
		return nil, m.mapError(err, "get object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, m.mapError(err, "read object")
	}

	return data, nil
}

func (m *minioStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := m.client.RemoveObject(ctx, m.cfg.Bucket, key, mclient.RemoveObjectOptions{}); err != nil {
		if err := m.mapError(err, "remove object"); err != ErrNotFound {
			return err
		}
	}

	return nil
}

func (m *minioStore) Validate(ctx context.Context, key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}

	if _, err := m.client.StatObject(ctx, m.cfg.Bucket, key, mclient.StatObjectOptions{}); err != nil {
		mapped := m.mapError(err, "stat object")
		if mapped == ErrNotFound {
			return false, nil
		}
		return false, mapped
	}

	return true, nil
}

func (m *minioStore) mapError(err error, op string) error {
	resp := mclient.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.Code == "AccessDenied" || resp.StatusCode == http.StatusForbidden:
		return ErrPermissionDenied
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// checkKey applies the same traversal rules as the filesystem backend so
// keys stay portable between backends.
func checkKey(key string) error {
	if key == "" || strings.ContainsRune(key, '\\') || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned != key || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return ErrInvalidKey
	}
	return nil
}

func contentType(key string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
