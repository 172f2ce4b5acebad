package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/clipforge/video-edit-api/internal/config"
	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/clipforge/video-edit-api/internal/models"
)

// MediaStore is the input/output adapter: it fetches remote inputs into the
// workspace and pushes finished artifacts to the output bucket.
type MediaStore struct {
	awsRepo    jobs.AWSRepository
	httpClient *http.Client
	cfg        *config.S3Config
}

func NewMediaStore(awsRepo jobs.AWSRepository, cfg *config.S3Config) *MediaStore {
	return &MediaStore{
		awsRepo: awsRepo,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
		cfg: cfg,
	}
}

// Fetch downloads one media reference to dest. Fetch errors are not retried
// here; redelivery of the whole job is the recovery path.
func (s *MediaStore) Fetch(ctx context.Context, ref models.MediaReference, dest string) error {
	if ref.IsURL() {
		return s.fetchURL(ctx, ref.URL, dest)
	}
	return s.fetchObject(ctx, ref.Bucket, ref.Key, dest)
}

func (s *MediaStore) fetchURL(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("invalid input url %s: %w", rawURL, err)
	}
	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: unexpected status %d", rawURL, res.StatusCode)
	}
	return writeFile(dest, res.Body)
}

func (s *MediaStore) fetchObject(ctx context.Context, bucket, key, dest string) error {
	obj, err := s.awsRepo.GetObject(ctx, bucket, key)
	if err != nil {
		return err
	}
	defer obj.Body.Close()
	return writeFile(dest, obj.Body)
}

func writeFile(dest string, body io.Reader) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()
	if _, err = io.Copy(out, body); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// OutputKey derives the artifact key for a job in the output bucket.
func (s *MediaStore) OutputKey(jobID string) string {
	return fmt.Sprintf("outputs/%s.mp4", jobID)
}

func (s *MediaStore) Upload(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open artifact %s: %w", localPath, err)
	}
	defer f.Close()
	return s.awsRepo.PutObject(ctx, s.cfg.OutputBucket, key, "video/mp4", f)
}

// PresignDownload mints a time-limited download link for the uploaded
// artifact and returns its explicit expiry.
func (s *MediaStore) PresignDownload(ctx context.Context, key string) (string, time.Time, error) {
	ttl := s.cfg.PresignTTL()
	if ttl <= 0 {
		ttl = time.Hour
	}
	presigned, err := s.awsRepo.GetPresignedURL(ctx, s.cfg.OutputBucket, key, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return presigned, time.Now().UTC().Add(ttl), nil
}

// Discard removes an uploaded artifact that will never be handed to a
// client, so failed jobs do not accumulate orphaned objects.
func (s *MediaStore) Discard(ctx context.Context, key string) error {
	return s.awsRepo.RemoveObject(ctx, s.cfg.OutputBucket, key)
}

// refExt guesses a filename extension for a media reference so ffmpeg sees a
// familiar suffix in the workspace.
func refExt(ref models.MediaReference) string {
	if ref.IsURL() {
		if u, err := url.Parse(ref.URL); err == nil {
			if ext := path.Ext(u.Path); ext != "" {
				return ext
			}
		}
		return ".mp4"
	}
	if ext := path.Ext(ref.Key); ext != "" {
		return ext
	}
	return ".mp4"
}
