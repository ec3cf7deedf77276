package models

import "time"

// Order status progression. Delivered and Failed Delivery are terminal.
const (
	OrderConfirmed      = "Confirmed"
	OrderShipped        = "Shipped"
	OrderOutOfDelivery  = "Out of Delivery"
	OrderFailedDelivery = "Failed Delivery"
	OrderDelivered      = "Delivered"
)

// Payment methods recorded on an order.
const (
	PaymentCOD    = "COD"
	PaymentMoMo   = "MOMO"
	PaymentStripe = "STRIPE"
)

type TrackingStatusDate struct {
	Key  string    `bson:"key" json:"key"`
	Date time.Time `bson:"date" json:"date"`
}

// DeliveryMethodSnapshot and DeliveryInfoSnapshot are copied into the order
// at creation, so edits to the source records don't rewrite history.
type DeliveryMethodSnapshot struct {
	DeliveryMethodName string  `bson:"delivery_method_name" json:"delivery_method_name"`
	Price              float64 `bson:"price" json:"price"`
}

type DeliveryInfoSnapshot struct {
	PhoneNumber   string `bson:"phone_number" json:"phone_number"`
	Address       string `bson:"address" json:"address"`
	AddressDetail string `bson:"address_detail" json:"address_detail"`
}

type Order struct {
	OrderID             string                 `bson:"order_id" json:"order_id"`
	OrderCode           string                 `bson:"order_code" json:"order_code"`
	CustomerID          string                 `bson:"customer_id" json:"customer_id"`
	PaymentMethod       string                 `bson:"payment_method" json:"payment_method"`
	VoucherID           string                 `bson:"voucher_id,omitempty" json:"voucher_id,omitempty"`
	DeliveryMethod      DeliveryMethodSnapshot `bson:"delivery_method" json:"delivery_method"`
	DeliveryInformation DeliveryInfoSnapshot   `bson:"delivery_information" json:"delivery_information"`
	ListCartItemID      []string               `bson:"list_cart_item_id" json:"list_cart_item_id"`
	TotalPrice          float64                `bson:"total_price" json:"total_price"`
	Status              string                 `bson:"status" json:"status"`
	TrackingStatusDates []TrackingStatusDate   `bson:"tracking_status_dates" json:"tracking_status_dates"`
	FailedDeliveryNote  string                 `bson:"failed_delivery_note,omitempty" json:"failed_delivery_note,omitempty"`
	CreatedAt           time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time              `bson:"updated_at" json:"updated_at"`
}
