package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/broddo-baggins/ovenai-insights/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver uploads daily snapshot JSON to S3-compatible object storage so
// historical dashboards outlive the Redis cache. A nil Archiver is a
// no-op: archival is optional.
type Archiver struct {
	client *minio.Client
	bucket string
}

// NewArchiver creates an archiver from storage config. Returns nil when
// MinIO is not configured.
func NewArchiver(cfg config.StorageConfig) (*Archiver, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, nil
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Archiver{
		client: client,
		bucket: cfg.GetSnapshotBucket(),
	}, nil
}

// EnsureBucketExists creates the snapshot bucket if it doesn't exist.
func (a *Archiver) EnsureBucketExists(ctx context.Context) error {
	if a == nil {
		return nil
	}

	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}

	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", a.bucket, err)
		}
	}

	return nil
}

// Archive uploads the snapshot keyed by its LastUpdated timestamp.
func (a *Archiver) Archive(ctx context.Context, snapshot MessageMetrics) error {
	if a == nil {
		return nil
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("snapshots/%s/metrics-%s.json",
		snapshot.LastUpdated.Format("2006/01/02"),
		snapshot.LastUpdated.Format("150405"),
	)

	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload snapshot %s: %w", key, err)
	}

	return nil
}
