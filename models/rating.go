package models

import "time"

// Rating is a per-purchase product review. Star values arrive as strings from
// the frontend and are parsed when the average is recomputed.
type Rating struct {
	RatingID    string    `bson:"rating_id" json:"rating_id"`
	OrderID     string    `bson:"order_id" json:"order_id"`
	ProductID   string    `bson:"product_id" json:"product_id"`
	ProductType string    `bson:"product_type" json:"product_type"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Star        string    `bson:"star" json:"star"`
	Comment     string    `bson:"comment" json:"comment"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
