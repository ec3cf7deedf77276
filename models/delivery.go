package models

import "time"

type DeliveryMethod struct {
	DeliveryMethodID   string    `bson:"delivery_method_id" json:"delivery_method_id"`
	DeliveryMethodName string    `bson:"delivery_method_name" json:"delivery_method_name"`
	Price              float64   `bson:"price" json:"price"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

type DeliveryInformation struct {
	DeliveryInformationID string    `bson:"delivery_information_id" json:"delivery_information_id"`
	UserID                string    `bson:"user_id" json:"user_id"`
	PhoneNumber           string    `bson:"phone_number" json:"phone_number"`
	Address               string    `bson:"address" json:"address"`
	AddressDetail         string    `bson:"address_detail" json:"address_detail"`
	IsDefault             bool      `bson:"is_default" json:"is_default"`
	CreatedAt             time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time `bson:"updated_at" json:"updated_at"`
}

type LinkedInformation struct {
	LinkedInformationID string    `bson:"linked_information_id" json:"linked_information_id"`
	UserID              string    `bson:"user_id" json:"user_id"`
	Author              string    `bson:"author" json:"author"`
	CardNumber          string    `bson:"card_number" json:"card_number"`
	ExpirationDate      string    `bson:"expiration_date" json:"expiration_date"`
	CVV                 string    `bson:"cvv" json:"-"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}
