package models

import "time"

// FavoriteCollection is the implicit collection products land in first.
const FavoriteCollection = "Favorite"

type Collection struct {
	CollectionID   string    `bson:"collection_id" json:"collection_id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	CollectionName string    `bson:"collection_name" json:"collection_name"`
	CollectionImg  string    `bson:"collection_img" json:"collection_img"`
	ListProductID  []string  `bson:"list_product_id" json:"list_product_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

type Gallery struct {
	GalleryID        string    `bson:"gallery_id" json:"gallery_id"`
	UserID           string    `bson:"user_id" json:"user_id"`
	ListCollectionID []string  `bson:"list_collection_id" json:"list_collection_id"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}
