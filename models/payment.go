package models

import "time"

// PaymentReceipt records a processed provider transaction so a replayed
// callback returns the already-created order instead of creating a second
// one. Uniqueness is enforced by the (provider, transaction_id) index.
type PaymentReceipt struct {
	ReceiptID     string    `bson:"receipt_id" json:"receipt_id"`
	Provider      string    `bson:"provider" json:"provider"`
	TransactionID string    `bson:"transaction_id" json:"transaction_id"`
	OrderRef      string    `bson:"order_ref" json:"order_ref"`
	OrderID       string    `bson:"order_id,omitempty" json:"order_id,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt     time.Time `bson:"expires_at" json:"expires_at"`
}
