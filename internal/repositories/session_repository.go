package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"estateBack/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps refresh sessions in Redis, keyed by refresh token.
type SessionRepository struct {
	RDB *redis.Client
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (r *SessionRepository) SaveSession(ctx context.Context, token string, s models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("SaveSession: session already expired")
	}
	return r.RDB.Set(ctx, sessionKey(token), data, ttl).Err()
}

func (r *SessionRepository) GetSession(ctx context.Context, token string) (models.Session, error) {
	data, err := r.RDB.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, token string) error {
	return r.RDB.Del(ctx, sessionKey(token)).Err()
}

// ModerationChannel is the pub/sub channel moderation events go to.
const ModerationChannel = "listings:moderation"

// EventRepository publishes moderation events over Redis pub/sub so every API
// instance can forward them to its websocket clients.
type EventRepository struct {
	RDB *redis.Client
}

func (r *EventRepository) PublishModeration(ctx context.Context, ev models.ModerationEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.RDB.Publish(ctx, ModerationChannel, data).Err()
}

// SubscribeModeration streams decoded events until ctx is done. Undecodable
// messages are skipped.
func (r *EventRepository) SubscribeModeration(ctx context.Context) (<-chan models.ModerationEvent, error) {
	sub := r.RDB.Subscribe(ctx, ModerationChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}
	out := make(chan models.ModerationEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev models.ModerationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
