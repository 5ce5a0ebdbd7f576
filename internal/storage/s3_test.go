package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Integration test against a local MinIO instance; skipped unless the
// LOCAL_S3_ENDPOINT environment is configured.
func TestArchiverIntegrationWithMinIO(t *testing.T) {
	if os.Getenv("LOCAL_S3_ENDPOINT") == "" {
		t.Skip("LOCAL_S3_ENDPOINT not set; skipping MinIO integration test")
	}
	if os.Getenv("R2_ACCESS_KEY_ID") == "" || os.Getenv("R2_SECRET_ACCESS_KEY") == "" {
		t.Skip("R2_ACCESS_KEY_ID or R2_SECRET_ACCESS_KEY not set; skipping MinIO integration test")
	}

	bucket := os.Getenv("LOCAL_S3_BUCKET")
	if bucket == "" {
		bucket = "retentiond-integration"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	archiver, err := NewArchiver(ctx, bucket, "cold")
	if err != nil {
		t.Fatalf("new archiver: %v", err)
	}

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "old.bin")
	payload := []byte("expired-payload-" + time.Now().Format(time.RFC3339Nano))
	if err := os.WriteFile(srcPath, payload, 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	key := fmt.Sprintf("blocks/%d/old.bin", time.Now().UnixNano())
	if err := archiver.Archive(ctx, key, srcPath); err != nil {
		t.Fatalf("archive: %v", err)
	}

	objectKey := "cold/" + key
	if _, err := archiver.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	}); err != nil {
		t.Fatalf("expected %s in bucket: %v", objectKey, err)
	}

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cleanupCancel()
	if _, err := archiver.client.DeleteObject(cleanupCtx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	}); err != nil {
		var notFound *types.NoSuchKey
		if !errors.As(err, &notFound) {
			t.Logf("WARN: failed to delete integration object %s: %v", objectKey, err)
		}
	}
}

func TestNewArchiverEmptyBucket(t *testing.T) {
	_, err := NewArchiver(context.Background(), " ", "")
	if err == nil {
		t.Fatal("expected error for empty bucket name")
	}
}
