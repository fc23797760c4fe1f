package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "chat_transcript:"

// RedisStore keeps each session as a Redis list that expires after ttl of
// inactivity.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore returns nil when redisClient is nil so callers can fall back.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if redisClient == nil {
		return nil
	}
	return &RedisStore{
		redis:  redisClient,
		tracer: otel.Tracer("heritage.internal.transcript"),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, msg Message) (Message, error) {
	if sessionID == "" {
		return Message{}, ErrSessionRequired
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return Message{}, fmt.Errorf("transcript: marshal message: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "transcript.append",
		trace.WithAttributes(attribute.String("message.kind", string(msg.Kind))))
	defer span.End()

	key := sessionKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return Message{}, fmt.Errorf("transcript: append: %w", err)
	}
	return msg, nil
}

func (s *RedisStore) List(ctx context.Context, sessionID string, limit int64) ([]Message, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	ctx, span := s.tracer.Start(ctx, "transcript.list")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}
	raw, err := s.redis.LRange(ctx, sessionKey(sessionID), start, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Message{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("transcript: list: %w", err)
	}

	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}
