package notify

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"separation-engine/internal/domain/notification"
)

func TestRedisSink_InboxAndPublish(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, "sep:notify")
	t.Cleanup(func() { _ = sub.Close() })
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sink := NewRedisSink(rdb, "sep:notify", 2)
	for _, kind := range []notification.Kind{
		notification.KindResignationValidated,
		notification.KindExitFormsUploaded,
		notification.KindClearanceValidated,
	} {
		if err := sink.Deliver(ctx, notification.Notification{NotificationID: string(kind), RecipientID: "emp-1", Kind: kind}); err != nil {
			t.Fatalf("Deliver: %v", err)
		}
	}

	items, err := rdb.LRange(ctx, InboxKey("emp-1"), 0, -1).Result()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("inbox not trimmed: %d items", len(items))
	}
	var newest notification.Notification
	if err := json.Unmarshal([]byte(items[0]), &newest); err != nil {
		t.Fatal(err)
	}
	if newest.Kind != notification.KindClearanceValidated {
		t.Fatalf("newest = %+v", newest)
	}

	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("ReceiveMessage: %v", err)
	}
	var first notification.Notification
	if err := json.Unmarshal([]byte(msg.Payload), &first); err != nil {
		t.Fatal(err)
	}
	if first.Kind != notification.KindResignationValidated {
		t.Fatalf("first published = %+v", first)
	}
}

func TestRedisSink_Error(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s.Close()

	if err := NewRedisSink(rdb, "c", 0).Deliver(context.Background(), notification.Notification{RecipientID: "x"}); err == nil {
		t.Fatal("expected error with redis down")
	}
}
