package services

import (
	"context"
	"encoding/json"
	"fmt"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// QueueMessage is one received delivery. Receipt identifies it for Delete.
type QueueMessage struct {
	ID      string
	Body    []byte
	Receipt string
}

// WorkQueue is a point-to-point queue with at-least-once delivery. A received
// message stays invisible until it is deleted or its visibility lapses.
type WorkQueue interface {
	Send(ctx context.Context, item models.WorkItem) error
	Receive(ctx context.Context) ([]QueueMessage, error)
	Delete(ctx context.Context, msg QueueMessage) error
	Close() error
}

func encodeWorkItem(item models.WorkItem) ([]byte, error) {
	body, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal work item: %w", err)
	}
	return body, nil
}

// DecodeWorkItem parses a queue body and checks the fields the worker needs.
func DecodeWorkItem(body []byte) (models.WorkItem, error) {
	var item models.WorkItem
	if err := json.Unmarshal(body, &item); err != nil {
		return item, fmt.Errorf("failed to unmarshal work item: %w", err)
	}
	if item.ResumeID == "" || item.S3Bucket == "" || item.S3Key == "" {
		return item, fmt.Errorf("incomplete work item: %s", string(body))
	}
	return item, nil
}
