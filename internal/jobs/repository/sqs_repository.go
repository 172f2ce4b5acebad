package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/clipforge/video-edit-api/internal/config"
	"github.com/clipforge/video-edit-api/internal/jobs"
	"github.com/clipforge/video-edit-api/internal/models"
)

type sqsRepository struct {
	client *sqs.Client
	cfg    *config.QueueConfig
}

func NewSqsRepository(client *sqs.Client, cfg *config.QueueConfig) jobs.QueueRepository {
	return &sqsRepository{
		client: client,
		cfg:    cfg,
	}
}

func (q *sqsRepository) EnqueueJob(ctx context.Context, job *models.EditJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.JobID, err)
	}
	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.cfg.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", job.JobID, err)
	}
	return nil
}

func (q *sqsRepository) ReceiveJob(ctx context.Context) (*models.JobDelivery, error) {
	res, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.cfg.QueueURL),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     int32(q.cfg.WaitTimeSeconds),
		VisibilityTimeout:   int32(q.cfg.VisibilityTimeout),
		AttributeNames: []types.QueueAttributeName{
			types.QueueAttributeName("ApproximateReceiveCount"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive message: %w", err)
	}
	if len(res.Messages) == 0 {
		return nil, nil
	}

	msg := res.Messages[0]
	rawBody := aws.ToString(msg.Body)
	job := &models.EditJob{}
	if err = json.Unmarshal([]byte(rawBody), job); err != nil {
		// A body that does not decode will not decode on redelivery either;
		// divert it now instead of letting it cycle through the queue forever.
		if fwdErr := q.sendToDeadLetter(ctx, rawBody); fwdErr != nil {
			return nil, fmt.Errorf("malformed job message not diverted: %v: %w", err, fwdErr)
		}
		if delErr := q.DeleteJob(ctx, aws.ToString(msg.ReceiptHandle)); delErr != nil {
			return nil, fmt.Errorf("malformed job message diverted but not deleted: %w", delErr)
		}
		return nil, nil
	}

	receiveCount := 1
	if raw, ok := msg.Attributes["ApproximateReceiveCount"]; ok {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			receiveCount = n
		}
	}

	return &models.JobDelivery{
		Job:           job,
		ReceiptHandle: aws.ToString(msg.ReceiptHandle),
		ReceiveCount:  receiveCount,
	}, nil
}

func (q *sqsRepository) DeleteJob(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.cfg.QueueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (q *sqsRepository) ForwardToDeadLetter(ctx context.Context, delivery *models.JobDelivery) error {
	body, err := json.Marshal(delivery.Job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", delivery.Job.JobID, err)
	}
	if err = q.sendToDeadLetter(ctx, string(body)); err != nil {
		return fmt.Errorf("failed to forward job %s to dead-letter queue: %w", delivery.Job.JobID, err)
	}
	return nil
}

func (q *sqsRepository) sendToDeadLetter(ctx context.Context, body string) error {
	if q.cfg.DeadLetterQueueURL == "" {
		return fmt.Errorf("no dead-letter queue configured")
	}
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.cfg.DeadLetterQueueURL),
		MessageBody: aws.String(body),
	})
	return err
}
