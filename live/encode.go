package live

import (
	"encoding/json"

	"everfresh/models"
)

// Payload is the wire shape pushed over a notification socket.
type Payload struct {
	Action        string                `json:"action"` // "backlog" or "notify"
	Notifications []models.Notification `json:"notifications"`
}

func encodeNotifications(list []models.Notification) ([]byte, error) {
	if list == nil {
		list = []models.Notification{}
	}
	return json.Marshal(Payload{Action: "backlog", Notifications: list})
}

// EncodeNotify wraps a single freshly created notification.
func EncodeNotify(n models.Notification) ([]byte, error) {
	return json.Marshal(Payload{Action: "notify", Notifications: []models.Notification{n}})
}
