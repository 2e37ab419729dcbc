package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/foxxcyber/pantry-match/internal/models"
)

// ArchiveService keeps completion summaries in S3-compatible storage
type ArchiveService struct {
	client     *minio.Client
	bucketName string
	region     string
}

var _ CompletionArchive = (*ArchiveService)(nil)

// NewArchiveService creates a new S3 archive service
func NewArchiveService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*ArchiveService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &ArchiveService{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// CompletionKey is the object key a completion summary is stored under
func CompletionKey(ownerID int, completionID string) string {
	return fmt.Sprintf("completions/%d/%s.json", ownerID, completionID)
}

// ArchiveCompletion uploads a completion summary as JSON and returns its key
func (s *ArchiveService) ArchiveCompletion(ctx context.Context, summary *models.CompletionSummary) (string, error) {
	body, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion: %w", err)
	}

	key := CompletionKey(summary.OwnerID, summary.ID)
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload completion: %w", err)
	}

	return key, nil
}

// GetBucketName returns the bucket name
func (s *ArchiveService) GetBucketName() string {
	return s.bucketName
}
