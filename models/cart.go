package models

import "time"

// Cart is the per-user mutable staging area before checkout. Invariant:
// TotalPrice equals the sum of the member items' ItemTotalPrice.
type Cart struct {
	CartID         string    `bson:"cart_id" json:"cart_id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	ListCartItemID []string  `bson:"list_cart_item_id" json:"list_cart_item_id"`
	TotalPrice     float64   `bson:"total_price" json:"total_price"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	CartItemID     string          `bson:"cart_item_id" json:"cart_item_id"`
	ProductID      string          `bson:"product_id" json:"product_id"`
	ProductType    string          `bson:"product_type" json:"product_type"`
	Product        ProductSnapshot `bson:"product" json:"product"`
	CustomColor    string          `bson:"custom_color,omitempty" json:"custom_color,omitempty"`
	Quantity       int             `bson:"quantity" json:"quantity"`
	ItemTotalPrice float64         `bson:"item_total_price" json:"item_total_price"`
	CreatedAt      time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at" json:"updated_at"`
}
