package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/clipforge/video-edit-api/internal/config"
	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/go-redis/redis/v8"
)

const statusCachePrefix = "job_status:"

// statusRepository keeps the durable document in S3 (one JSON object per job,
// overwritten whole on each transition, atomic per key) and mirrors every
// write into redis so the polling endpoint rarely hits S3.
type statusRepository struct {
	client      *s3.Client
	redisClient *redis.Client
	cfg         *config.S3Config
	cacheTTL    time.Duration
}

func NewStatusRepository(client *s3.Client, redisClient *redis.Client, cfg *config.Config) jobs.StatusRepository {
	ttl := time.Duration(cfg.Redis.StatusTTL) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &statusRepository{
		client:      client,
		redisClient: redisClient,
		cfg:         &cfg.S3,
		cacheTTL:    ttl,
	}
}

func (r *statusRepository) statusKey(jobID string) string {
	prefix := r.cfg.StatusPrefix
	if prefix == "" {
		prefix = "jobs"
	}
	return fmt.Sprintf("%s/%s/status.json", prefix, jobID)
}

func (r *statusRepository) GetStatus(ctx context.Context, jobID string) (*models.StatusDocument, error) {
	if r.redisClient != nil {
		cached, err := r.redisClient.Get(ctx, statusCachePrefix+jobID).Result()
		if err == nil {
			doc := &models.StatusDocument{}
			if err = json.Unmarshal([]byte(cached), doc); err == nil {
				return doc, nil
			}
		}
	}

	res, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(r.cfg.OutputBucket),
		Key:    awssdk.String(r.statusKey(jobID)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, jobs.ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to read status document for job %s: %w", jobID, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status body for job %s: %w", jobID, err)
	}
	doc := &models.StatusDocument{}
	if err = json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status document for job %s: %w", jobID, err)
	}

	r.cache(ctx, doc)
	return doc, nil
}

func (r *statusRepository) PutStatus(ctx context.Context, doc *models.StatusDocument) error {
	doc.Timestamp = time.Now().UTC()

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal status document for job %s: %w", doc.JobID, err)
	}
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(r.cfg.OutputBucket),
		Key:         awssdk.String(r.statusKey(doc.JobID)),
		ContentType: awssdk.String("application/json"),
		Body:        bytes.NewReader(raw),
	})
	if err != nil {
		return fmt.Errorf("failed to write status document for job %s: %w", doc.JobID, err)
	}

	r.cache(ctx, doc)
	return nil
}

// cache is best effort; the S3 document stays authoritative.
func (r *statusRepository) cache(ctx context.Context, doc *models.StatusDocument) {
	if r.redisClient == nil {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	r.redisClient.Set(ctx, statusCachePrefix+doc.JobID, raw, r.cacheTTL)
}
