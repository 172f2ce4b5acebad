package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  AppVersion: 1.0.0
  Port: :8080
  Mode: Development

logger:
  Encoding: console
  Level: info

redis:
  RedisAddr: 127.0.0.1:6379
  StatusTTL: 3600

s3:
  Region: us-east-1
  OutputBucket: video-edit-outputs
  StatusPrefix: jobs
  PresignExpiry: 60

queue:
  Region: us-east-1
  QueueURL: https://sqs.us-east-1.amazonaws.com/000000000000/video-edit-jobs
  VisibilityTimeout: 900
  WaitTimeSeconds: 20
  MaxReceiveCount: 3

worker:
  ScratchDir: /tmp/video-edit
  MaxCPUUsage: 80
  JobTimeout: 600
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAndParseConfig(t *testing.T) {
	t.Parallel()

	v, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	cfg, err := ParseConfig(v)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Port)
	require.Equal(t, "video-edit-outputs", cfg.S3.OutputBucket)
	require.Equal(t, 3, cfg.Queue.MaxReceiveCount)
	require.Equal(t, 10*time.Minute, cfg.Worker.Timeout())
	require.Equal(t, time.Hour, cfg.S3.PresignTTL())
}

func TestParseConfigRequiresQueueURL(t *testing.T) {
	t.Parallel()

	content := sampleConfig + "\n"
	v, err := LoadConfig(writeConfig(t, content))
	require.NoError(t, err)
	v.Set("queue.queueurl", "")

	_, err = ParseConfig(v)
	require.Error(t, err)
}

func TestParseConfigRejectsTimeoutOverVisibility(t *testing.T) {
	t.Parallel()

	v, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	v.Set("worker.jobtimeout", 900)

	_, err = ParseConfig(v)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
