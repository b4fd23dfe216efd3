package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisherPublishesCompletion(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, CompletedChannel)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	completed := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	pub := NewRedisPublisher(rdb)
	err = pub.PublishCompleted(ctx, InterviewCompletedEvent{
		SessionID:    "s1",
		OwnerID:      "u1",
		Trigger:      TriggerProvider,
		CompletedAt:  completed,
		Evaluated:    true,
		OverallScore: 81,
		Verdict:      "Selected",
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var got InterviewCompletedEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "s1", got.SessionID)
		assert.Equal(t, TriggerProvider, got.Trigger)
		assert.True(t, got.CompletedAt.Equal(completed))
		assert.Equal(t, 81.0, got.OverallScore)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion event")
	}
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishCompleted(context.Background(), InterviewCompletedEvent{}))
}
