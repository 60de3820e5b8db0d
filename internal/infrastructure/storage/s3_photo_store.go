package storage

import (
	"context"
	"io"
	"log"
	"net/url"
	"os"
	"strings"

	"quickfix/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultPhotosBucket = "quickfix-photos"

// ConnectS3 creates an S3 client using environment variables.
//
// Supported env vars (local-friendly):
//   - AWS_REGION (default: us-east-1)
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (default: local)
//   - S3_ENDPOINT (optional; e.g. http://minio:9000, forces path-style)
func ConnectS3() *s3.Client {
	region := getenvDefault("AWS_REGION", "us-east-1")
	endpoint := os.Getenv("S3_ENDPOINT")

	creds := credentials.NewStaticCredentialsProvider(
		getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		log.Fatalf("failed to create s3 config: %v", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// S3PhotoStore uploads request photos and resolves their public URLs.
//
// Objects are never deleted here: a submission that fails after some uploads
// leaves those objects orphaned, by contract.
type S3PhotoStore struct {
	client *s3.Client
	bucket string
	region string
	// endpoint overrides public URL construction for local object stores.
	endpoint string
}

var _ interfaces.IBlobStore = (*S3PhotoStore)(nil)

func NewS3PhotoStore(client *s3.Client) *S3PhotoStore {
	return &S3PhotoStore{
		client:   client,
		bucket:   getenvDefault("PHOTOS_BUCKET", defaultPhotosBucket),
		region:   getenvDefault("AWS_REGION", "us-east-1"),
		endpoint: os.Getenv("S3_ENDPOINT"),
	}
}

func (s *S3PhotoStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", err
	}
	return s.objectURL(key), nil
}

func (s *S3PhotoStore) objectURL(key string) string {
	escaped := escapeKey(key)
	if s.endpoint != "" {
		return strings.TrimSuffix(s.endpoint, "/") + "/" + s.bucket + "/" + escaped
	}
	return "https://" + s.bucket + ".s3." + s.region + ".amazonaws.com/" + escaped
}

// escapeKey percent-encodes each path segment while keeping the separators.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
