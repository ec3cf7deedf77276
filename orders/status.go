package orders

import (
	"fmt"

	"everfresh/models"
)

// NextStatus returns the status that follows the given one in the
// delivery flow. Delivered and Failed Delivery are terminal.
func NextStatus(current string) (string, error) {
	switch current {
	case models.OrderConfirmed:
		return models.OrderShipped, nil
	case models.OrderShipped:
		return models.OrderOutOfDelivery, nil
	case models.OrderOutOfDelivery:
		return models.OrderDelivered, nil
	case models.OrderDelivered, models.OrderFailedDelivery:
		return "", fmt.Errorf("order status %q is terminal", current)
	}
	return "", fmt.Errorf("unknown order status %q", current)
}

// CanFailDelivery reports whether an order may be marked as a failed
// delivery. Only an order already out with a courier can fail.
func CanFailDelivery(current string) bool {
	return current == models.OrderOutOfDelivery
}

func notificationTypeFor(status string) string {
	switch status {
	case models.OrderShipped:
		return models.NotifyShipped
	case models.OrderOutOfDelivery:
		return models.NotifyOutForDelivery
	case models.OrderDelivered:
		return models.NotifyDelivered
	}
	return ""
}
