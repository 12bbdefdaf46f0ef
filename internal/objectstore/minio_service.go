package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"whisper-wpm-eval/internal/config"
)

// MinioStore holds the MinIO client and bucket used to mirror dataset
// audio between machines. Recordings are uploaded under the same relative
// path they carry in the metadata file, so the object key doubles as the
// on-disk path.
type MinioStore struct {
	Client     *minio.Client
	BucketName string
}

// NewMinioStore initializes a MinIO client from the object store
// configuration and makes sure the bucket exists, creating it if needed.
func NewMinioStore(cfg config.ObjectStoreConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("object store endpoint and bucket must be configured")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("EVAL_MINIO_ACCESS_KEY and EVAL_MINIO_SECRET_KEY must be set")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if MinIO bucket '%s' exists: %w", cfg.Bucket, err)
	}
	if !exists {
		log.Printf("MinIO bucket '%s' does not exist. Attempting to create it.", cfg.Bucket)
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create MinIO bucket '%s': %w", cfg.Bucket, err)
		}
		log.Printf("MinIO bucket '%s' created successfully.", cfg.Bucket)
	}

	return &MinioStore{Client: client, BucketName: cfg.Bucket}, nil
}

// UploadRecording stores a WAV file under its dataset-relative object
// name, e.g. "audio/a3f1.wav".
func (ms *MinioStore) UploadRecording(ctx context.Context, objectName string, data []byte) error {
	info, err := ms.Client.PutObject(ctx, ms.BucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "audio/wav",
	})
	if err != nil {
		return fmt.Errorf("failed to upload '%s' to MinIO bucket '%s': %w", objectName, ms.BucketName, err)
	}
	log.Printf("Uploaded '%s' (%d bytes) to MinIO. ETag: %s", objectName, info.Size, info.ETag)
	return nil
}

// Fetch retrieves a recording by its dataset-relative path. It satisfies
// the evaluation engine's audio source interface, so a run can score
// recordings that only exist in the bucket.
func (ms *MinioStore) Fetch(ctx context.Context, relativePath string) ([]byte, error) {
	object, err := ms.Client.GetObject(ctx, ms.BucketName, relativePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", relativePath, ms.BucketName, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object '%s' data: %w", relativePath, err)
	}
	return data, nil
}
