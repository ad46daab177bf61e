package notifications

import (
	"context"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// chatChannelPrefix is the Redis channel namespace for group chat. The
// remainder of the channel name is the group slug.
const chatChannelPrefix = "chat:group:"

// Notifier publishes chat events into Redis channels so every server
// instance sees them. A nil Redis client degrades to local-only fan-out.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether cross-instance fan-out is available.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// GroupChannel derives the Redis channel name for a group slug.
func GroupChannel(group string) string {
	return chatChannelPrefix + group
}

// PublishGroupMessage publishes a chat event payload to a group's channel.
func (n *Notifier) PublishGroupMessage(ctx context.Context, group, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, GroupChannel(group), payload).Err()
}

// StartChatSubscriber subscribes to the pattern `chat:group:*` and calls
// onMessage for each incoming message. onMessage receives channel and payload.
func (n *Notifier) StartChatSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, chatChannelPrefix+"*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in ChatSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
