// Package storage uploads expired files to S3-compatible object storage
// before the sweeper deletes them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Archiver copies files into a bucket keyed by their path relative to
// the data root, under an optional prefix.
type Archiver struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewArchiver builds an Archiver for the given bucket. Credentials come
// from R2_* environment variables when set (Cloudflare R2 or a local
// MinIO endpoint via LOCAL_S3_ENDPOINT), otherwise from the default AWS
// credential chain.
func NewArchiver(ctx context.Context, bucket, prefix string) (*Archiver, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("archive bucket name is empty")
	}

	cfg, forcePathStyle, err := resolveAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if forcePathStyle {
			o.UsePathStyle = true
		}
	})

	a := &Archiver{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
	}

	if err := a.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", bucket, err)
	}

	return a, nil
}

func resolveAWSConfig(ctx context.Context) (aws.Config, bool, error) {
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
	localEndpoint := os.Getenv("LOCAL_S3_ENDPOINT")

	if localEndpoint != "" {
		if accessKeyID == "" || secretKey == "" {
			return aws.Config{}, false, errors.New("R2_ACCESS_KEY_ID and R2_SECRET_ACCESS_KEY must be set for a local endpoint")
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithEndpointResolverWithOptions(staticEndpoint(localEndpoint, "us-east-1")),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretKey, "")),
			awsconfig.WithRegion("us-east-1"),
		)
		if err != nil {
			return aws.Config{}, false, fmt.Errorf("load local endpoint config: %w", err)
		}
		return cfg, true, nil
	}

	if accountID := os.Getenv("R2_ACCOUNT_ID"); accountID != "" {
		if accessKeyID == "" || secretKey == "" {
			return aws.Config{}, false, errors.New("R2_ACCESS_KEY_ID and R2_SECRET_ACCESS_KEY must be set for R2")
		}
		endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithEndpointResolverWithOptions(staticEndpoint(endpoint, "auto")),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretKey, "")),
			awsconfig.WithRegion("auto"),
		)
		if err != nil {
			return aws.Config{}, false, fmt.Errorf("load R2 config: %w", err)
		}
		return cfg, false, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, false, fmt.Errorf("load default AWS config: %w", err)
	}
	return cfg, false, nil
}

func staticEndpoint(url, region string) aws.EndpointResolverWithOptionsFunc {
	return func(service, _ string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               url,
			HostnameImmutable: true,
			SigningRegion:     region,
		}, nil
	}
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	_, err := a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}

	var exists *types.BucketAlreadyExists
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &exists) || errors.As(err, &owned) {
		return nil
	}

	return err
}

// Archive uploads localPath under the archiver's prefix. The key is the
// file's slash-separated path relative to the data root, so the bucket
// mirrors the swept tree.
func (a *Archiver) Archive(ctx context.Context, key, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer file.Close()

	objectKey := key
	if a.prefix != "" {
		objectKey = path.Join(a.prefix, key)
	}

	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectKey, err)
	}

	return nil
}
