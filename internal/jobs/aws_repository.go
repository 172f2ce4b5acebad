package jobs

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AWSRepository is the object-store boundary: fetch inputs, push artifacts,
// mint time-limited download links.
type AWSRepository interface {
	GetObject(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, bucket, key, contentType string, body io.Reader) error
	RemoveObject(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
