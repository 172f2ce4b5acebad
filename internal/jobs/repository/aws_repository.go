package repository

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/pkg/errors"
)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient) jobs.AWSRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
	}
}

func (a *awsRepository) GetObject(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error) {
	res, err := a.client.GetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
	)
	if err != nil {
		return nil, errors.Wrapf(err, "awsRepository.GetObject %s/%s", bucket, key)
	}
	return res, nil
}

func (a *awsRepository) PutObject(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	_, err := a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:      &bucket,
			Key:         &key,
			ContentType: &contentType,
			Body:        body,
		},
	)
	if err != nil {
		return errors.Wrapf(err, "awsRepository.PutObject %s/%s", bucket, key)
	}
	return nil
}

func (a *awsRepository) RemoveObject(ctx context.Context, bucket, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return errors.Wrapf(err, "awsRepository.RemoveObject %s/%s", bucket, key)
	}
	return nil
}

func (a *awsRepository) GetPresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	req, err := a.preSignClient.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
		s3.WithPresignExpires(expiry),
	)
	if err != nil {
		return "", errors.Wrapf(err, "awsRepository.GetPresignedURL %s/%s", bucket, key)
	}
	return req.URL, nil
}
