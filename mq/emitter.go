package mq

import (
	"context"
	"encoding/json"
	"log"

	"everfresh/live"
	"everfresh/models"
	"everfresh/rdx"
)

const notificationChannel = "notification-events"

// NotificationEvent carries a freshly stored notification to the push worker.
type NotificationEvent struct {
	UserID       string              `json:"user_id"`
	Notification models.Notification `json:"notification"`
}

// Emit publishes a notification event to Redis. Callers run this after the
// response is prepared; failures are logged and dropped, never retried.
func Emit(ctx context.Context, event NotificationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), notificationChannel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish event: %v", err)
	}
}

// StartNotificationWorker pushes published events to live websocket rooms.
// Run it once, in its own goroutine.
func StartNotificationWorker(hub *live.Hub) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, notificationChannel)
	ch := sub.Channel()

	log.Println("[NotificationWorker] listening for notification events...")

	for msg := range ch {
		var event NotificationEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[NotificationWorker] failed to parse event: %v", err)
			continue
		}

		data, err := live.EncodeNotify(event.Notification)
		if err != nil {
			log.Printf("[NotificationWorker] failed to encode payload: %v", err)
			continue
		}
		hub.Broadcast(live.RoomFor(event.UserID), data)
	}
}
