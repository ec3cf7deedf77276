package models

import "time"

// Notification categories.
const (
	NotifyNewPlant        = "new_plant"
	NotifyNewPlanter      = "new_planter"
	NotifyNewSeed         = "new_seed"
	NotifyPurchasingOrder = "purchasing_order"
	NotifyShipped         = "shipped"
	NotifyOutForDelivery  = "out_for_delivery"
	NotifyDelivered       = "delivered"
	NotifyNewVoucher      = "new_voucher"
)

type Notification struct {
	NotificationID string    `bson:"notification_id" json:"notification_id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	IsNew          bool      `bson:"is_new" json:"is_new"`
	IsRead         bool      `bson:"is_read" json:"is_read"`
	Description    string    `bson:"description" json:"description"`
	Type           string    `bson:"type" json:"type"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}
