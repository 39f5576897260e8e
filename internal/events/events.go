// Package events publishes job change notifications so other services (or a
// frontend gateway) can react to listings being created, edited or removed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jobboard/jobs-api/internal/job"
	"github.com/redis/go-redis/v9"
)

type Type string

const (
	JobCreated Type = "job.created"
	JobUpdated Type = "job.updated"
	JobDeleted Type = "job.deleted"
)

// DefaultChannel is used when no channel is configured.
const DefaultChannel = "jobs:events"

// Event is the JSON payload published for every successful write.
type Event struct {
	Type  Type      `json:"type"`
	JobID string    `json:"jobId"`
	Job   *job.Job  `json:"job"`
	At    time.Time `json:"at"`
}

func NewEvent(t Type, j *job.Job) Event {
	return Event{Type: t, JobID: j.ID, Job: j, At: time.Now().UTC()}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards every event. It is used when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher returns a publisher for channel. An empty channel means
// DefaultChannel.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Channel() string { return p.channel }

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
