// Package queue submits background jobs to the external worker over redis.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ThumbnailJob asks the worker to produce size variants for an image entity.
type ThumbnailJob struct {
	FileID uuid.UUID `json:"fileId"`
	UserID uuid.UUID `json:"userId"`
}

// RedisEmitter pushes jobs onto a redis list consumed by the thumbnail
// worker. The contract ends at "accepted for delivery": nothing waits on or
// observes job completion.
type RedisEmitter struct {
	client *redis.Client
	list   string
}

// NewRedisEmitter constructs an emitter for the named list.
func NewRedisEmitter(client *redis.Client, list string) *RedisEmitter {
	return &RedisEmitter{client: client, list: list}
}

// Emit enqueues a single job.
func (e *RedisEmitter) Emit(ctx context.Context, job ThumbnailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal thumbnail job: %w", err)
	}
	if err := e.client.LPush(ctx, e.list, payload).Err(); err != nil {
		return fmt.Errorf("enqueue thumbnail job: %w", err)
	}
	return nil
}
