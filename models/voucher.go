package models

import "time"

const (
	VoucherValid   = "VALID"
	VoucherInvalid = "IN_VALID"
)

type Voucher struct {
	VoucherID       string    `bson:"voucher_id" json:"voucher_id"`
	VoucherCode     string    `bson:"voucher_code" json:"voucher_code"`
	VoucherName     string    `bson:"voucher_name" json:"voucher_name"`
	Description     string    `bson:"description" json:"description"`
	StartDay        time.Time `bson:"start_day" json:"start_day"`
	EndDay          time.Time `bson:"end_day" json:"end_day"`
	IsPercent       bool      `bson:"is_percent" json:"is_percent"`
	VoucherDiscount float64   `bson:"voucher_discount" json:"voucher_discount"`
	Quantity        int       `bson:"quantity" json:"quantity"`
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
