package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/jobboard/internal/model"
)

type published struct {
	channel string
	message []byte
}

type fakeRedis struct {
	sent []published
	err  error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.sent = append(f.sent, published{channel: channel, message: message.([]byte)})
	cmd.SetVal(1)
	return cmd
}

func TestRedisPublisher_Publish(t *testing.T) {
	rdb := &fakeRedis{}
	p := NewRedisPublisher(rdb)

	event := model.Event{
		Type:          model.EventApplicationMoved,
		ApplicationID: uuid.New(),
		JobID:         uuid.New(),
		UserID:        uuid.New(),
		Status:        model.StatusAdvanced,
		At:            time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, rdb.sent, 1)
	assert.Equal(t, "EVENT_APPLICATION_MOVED", rdb.sent[0].channel)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rdb.sent[0].message, &got))
	assert.Equal(t, "EVENT_APPLICATION_MOVED", got["type"])
	assert.Equal(t, event.ApplicationID.String(), got["applicationId"])
	assert.Equal(t, "Avanzado", got["status"])
}

func TestRedisPublisher_PublishError(t *testing.T) {
	p := NewRedisPublisher(&fakeRedis{err: assert.AnError})

	err := p.Publish(context.Background(), model.Event{Type: model.EventApplicationCreated})
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "EVENT_APPLICATION_CREATED")
}

func TestNoop(t *testing.T) {
	var p model.EventPublisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), model.Event{}))
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse redis url")
}
