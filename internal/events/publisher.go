package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CompletedChannel carries one message per interview that reaches COMPLETED.
const CompletedChannel = "interview_completed"

// Completion triggers
const (
	TriggerPolicy   = "policy"
	TriggerProvider = "provider"
)

type InterviewCompletedEvent struct {
	SessionID    string    `json:"sessionId"`
	OwnerID      string    `json:"ownerId"`
	Company      string    `json:"company"`
	Role         string    `json:"role"`
	RoundType    string    `json:"roundType"`
	Trigger      string    `json:"trigger"`
	CompletedAt  time.Time `json:"completedAt"`
	DurationSec  int       `json:"durationSeconds"`
	Evaluated    bool      `json:"evaluated"`
	OverallScore float64   `json:"overallScore,omitempty"`
	Verdict      string    `json:"verdict,omitempty"`
}

type Publisher interface {
	PublishCompleted(ctx context.Context, event InterviewCompletedEvent) error
}

// RedisPublisher fans completion events out over Redis pub/sub.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) PublishCompleted(ctx context.Context, event InterviewCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, CompletedChannel, data).Err()
}

// NopPublisher drops events; used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishCompleted(context.Context, InterviewCompletedEvent) error { return nil }
