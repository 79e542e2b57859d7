// Package events fans profile changes out over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Type string

const (
	ProfileUpserted   Type = "profile.upserted"
	ProfileDeleted    Type = "profile.deleted"
	ExperienceAdded   Type = "experience.added"
	ExperienceRemoved Type = "experience.removed"
	EducationAdded    Type = "education.added"
	EducationRemoved  Type = "education.removed"
)

type ProfileEvent struct {
	Type     Type      `json:"type"`
	UserID   string    `json:"user_id"`
	Handle   string    `json:"handle,omitempty"`
	RecordID string    `json:"record_id,omitempty"`
	At       time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev ProfileEvent) error
}

func Channel(userID string) string {
	return "profile:" + userID + ":events"
}

type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) Publish(ctx context.Context, ev ProfileEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel(ev.UserID), payload).Err()
}

// Subscribe listens on the event channel of one profile owner. The caller
// closes the returned PubSub.
func (b *RedisBus) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return b.rdb.Subscribe(ctx, Channel(userID))
}
