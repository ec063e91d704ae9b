package notify

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"separation-engine/internal/domain/notification"
)

// RedisSink publishes each notification on a channel and keeps a capped
// per-recipient inbox list.
type RedisSink struct {
	rdb     *redis.Client
	channel string
	keep    int64
}

var _ notification.Sink = (*RedisSink)(nil)

func NewRedisSink(rdb *redis.Client, channel string, keep int64) *RedisSink {
	if keep <= 0 {
		keep = 100
	}
	return &RedisSink{rdb: rdb, channel: channel, keep: keep}
}

func InboxKey(recipientID string) string { return "notifications:" + recipientID }

func (s *RedisSink) Deliver(ctx context.Context, n notification.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	key := InboxKey(n.RecipientID)
	_, err = s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, key, payload)
		p.LTrim(ctx, key, 0, s.keep-1)
		p.Publish(ctx, s.channel, payload)
		return nil
	})
	return err
}
