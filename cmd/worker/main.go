package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/clipforge/video-edit-api/internal/config"
	jobsRepository "github.com/clipforge/video-edit-api/internal/jobs/repository"
	"github.com/clipforge/video-edit-api/internal/worker"
	"github.com/clipforge/video-edit-api/pkg/db/aws"
	clientRedis "github.com/clipforge/video-edit-api/pkg/db/redis"
	"github.com/clipforge/video-edit-api/pkg/ffmpeg"
	"github.com/clipforge/video-edit-api/pkg/logger"
)

func main() {
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	redisClient, err := clientRedis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	defer redisClient.Close()
	appLogger.Infof("redis connected")

	s3Client, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}
	sqsClient, err := aws.NewSQSClient(cfg.Queue.Endpoint, cfg.Queue.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to sqs: %s", err)
	}

	runner, err := ffmpeg.NewExecRunner(cfg.Worker.FFmpegPath, cfg.Worker.FFprobePath)
	if err != nil {
		appLogger.Fatalf("ffmpeg not available: %s", err)
	}

	awsRepo := jobsRepository.NewAwsRepository(s3Client, presignClient)
	statusRepo := jobsRepository.NewStatusRepository(s3Client, redisClient, cfg)
	queueRepo := jobsRepository.NewSqsRepository(sqsClient, &cfg.Queue)

	store := worker.NewMediaStore(awsRepo, &cfg.S3)
	scratch := worker.NewScratchManager(cfg.Worker.ScratchDir)
	strategies := worker.NewStrategyRegistry(runner)
	executor := worker.NewExecutor(cfg, statusRepo, store, scratch, strategies, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutdown signal received")
		cancel()
	}()

	w := worker.NewWorker(cfg, queueRepo, executor, appLogger)
	w.Run(ctx)
}
