// Package storage archives ranking results in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"tourism/internal/keys"
	"tourism/internal/logging"
	"tourism/internal/metrics"
	"tourism/internal/recommend"
)

// Config holds the object store connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// Archive stores one JSON object per ranking result.
type Archive struct {
	client *minio.Client
	bucket string
	region string
	log    zerolog.Logger
}

func NewArchive(cfg Config) (*Archive, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("storage: endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		log:    logging.With().Str("component", "archive").Str("bucket", cfg.Bucket).Logger(),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("storage: create bucket: %w", err)
	}
	a.log.Info().Msg("bucket created")
	return nil
}

// StoreResult writes res under its ranking key and returns the key. A result
// already stored under the same key is left untouched, so redelivered
// requests do not rewrite history.
func (a *Archive) StoreResult(ctx context.Context, res *recommend.Result) (string, error) {
	key := keys.Ranking(res.Category, res.RequestID, res.GeneratedAt)

	_, err := a.client.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		a.log.Debug().Str("key", key).Msg("result already archived")
		metrics.ArchiveWrites.WithLabelValues("exists").Inc()
		return key, nil
	}
	if !isNotFound(err) {
		metrics.ArchiveWrites.WithLabelValues("error").Inc()
		return "", fmt.Errorf("storage: stat %s: %w", key, err)
	}

	data, err := encodeResult(res)
	if err != nil {
		return "", err
	}
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		metrics.ArchiveWrites.WithLabelValues("error").Inc()
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}

	metrics.ArchiveWrites.WithLabelValues("stored").Inc()
	a.log.Debug().Str("key", key).Int("spots", len(res.Spots)).Msg("result archived")
	return key, nil
}

// GetResult reads back a result written by StoreResult.
func (a *Archive) GetResult(ctx context.Context, key string) (*recommend.Result, error) {
	var res recommend.Result
	if err := a.getJSON(ctx, a.bucket, key, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LoadRequest reads a ranking request object from any bucket. It matches
// the worker's object loader signature.
func (a *Archive) LoadRequest(ctx context.Context, bucket, key string) (recommend.Request, error) {
	var req recommend.Request
	err := a.getJSON(ctx, bucket, key, &req)
	return req, err
}

func (a *Archive) getJSON(ctx context.Context, bucket, key string, out any) error {
	obj, err := a.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("storage: get %s: %w", key, err)
	}
	defer obj.Close()

	if err := json.NewDecoder(obj).Decode(out); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("storage: %s: %w", key, ErrNotFound)
		}
		return fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return nil
}

// ErrNotFound is returned by GetResult for unknown keys.
var ErrNotFound = errors.New("object not found")

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func encodeResult(res *recommend.Result) ([]byte, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("storage: encode result: %w", err)
	}
	return data, nil
}
