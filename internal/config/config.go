package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	S3     S3Config
	Queue  QueueConfig
	Worker WorkerConfig
	Logger Logger
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	UseTLS        bool
	// StatusTTL bounds how long cached status documents live, in seconds.
	StatusTTL int
}

type S3Config struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	InputBucket  string
	OutputBucket string
	// StatusPrefix is the key prefix for status documents in OutputBucket.
	StatusPrefix string
	// PresignExpiry is the lifetime of minted download links, in minutes.
	PresignExpiry int
}

type QueueConfig struct {
	Endpoint           string
	Region             string
	QueueURL           string
	DeadLetterQueueURL string
	// VisibilityTimeout hides a received message from other workers, in
	// seconds. Must exceed Worker.JobTimeout.
	VisibilityTimeout int
	WaitTimeSeconds   int
	MaxReceiveCount   int
}

type WorkerConfig struct {
	ScratchDir  string
	MaxCPUUsage float64
	// JobTimeout is the hard wall-clock ceiling for one attempt, in seconds.
	JobTimeout  int
	FFmpegPath  string
	FFprobePath string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func (c *WorkerConfig) Timeout() time.Duration {
	return time.Duration(c.JobTimeout) * time.Second
}

func (c *S3Config) PresignTTL() time.Duration {
	return time.Duration(c.PresignExpiry) * time.Minute
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Queue.QueueURL == "" {
		return errors.New("queue url is required")
	}
	if c.S3.OutputBucket == "" {
		return errors.New("s3 output bucket is required")
	}
	// An attempt outliving the visibility window would let a second worker
	// receive the same message while the first is still running.
	if c.Worker.JobTimeout >= c.Queue.VisibilityTimeout {
		return fmt.Errorf("worker job timeout (%ds) must be shorter than queue visibility timeout (%ds)",
			c.Worker.JobTimeout, c.Queue.VisibilityTimeout)
	}
	return nil
}
