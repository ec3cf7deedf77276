package models

import "time"

// Product type tags used for type-dispatch across cart, rating and order paths.
const (
	ProductTypePlant   = "Plant"
	ProductTypePlanter = "Planter"
	ProductTypeSeed    = "Seed"
)

// Stock status values shared by all catalog items.
const (
	StatusInStock    = "IN_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"
)

// ProductSnapshot is the immutable projection of a catalog item captured at
// write time into cart items and orders, so later catalog edits don't
// retroactively change placed orders.
type ProductSnapshot struct {
	ProductID   string   `bson:"product_id" json:"product_id"`
	ProductType string   `bson:"product_type" json:"product_type"`
	Name        string   `bson:"name" json:"name"`
	Price       float64  `bson:"price" json:"price"`
	ImgURL      []string `bson:"img_url" json:"img_url"`
	GenusID     string   `bson:"genus_id,omitempty" json:"genus_id,omitempty"`
	PlantTypeID string   `bson:"plant_type_id,omitempty" json:"plant_type_id,omitempty"`
}

type Plant struct {
	PlantID       string   `bson:"plant_id" json:"plant_id"`
	Name          string   `bson:"name" json:"name"`
	SubName       string   `bson:"sub_name,omitempty" json:"sub_name,omitempty"`
	GenusID       string   `bson:"genus_id" json:"genus_id"`
	PlantTypeID   string   `bson:"plant_type_id" json:"plant_type_id"`
	ImgURL        []string `bson:"img_url" json:"img_url"`
	VideoURL      []string `bson:"video_url,omitempty" json:"video_url,omitempty"`
	Price         float64  `bson:"price" json:"price"`
	Quantity      int      `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Height        string   `bson:"height,omitempty" json:"height,omitempty"`
	Width         string   `bson:"width,omitempty" json:"width,omitempty"`
	Zones         string   `bson:"zones,omitempty" json:"zones,omitempty"`
	Uses          string   `bson:"uses,omitempty" json:"uses,omitempty"`
	Tolerance     string   `bson:"tolerance,omitempty" json:"tolerance,omitempty"`
	BloomTime     string   `bson:"bloom_time,omitempty" json:"bloom_time,omitempty"`
	Light         string   `bson:"light,omitempty" json:"light,omitempty"`
	Moisture      string   `bson:"moisture,omitempty" json:"moisture,omitempty"`
	Maintenance   string   `bson:"maintenance,omitempty" json:"maintenance,omitempty"`
	GrowthRate    string   `bson:"growth_rate,omitempty" json:"growth_rate,omitempty"`
	Status        string   `bson:"status" json:"status"`
	AverageRating float64  `bson:"average_rating" json:"average_rating"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type Planter struct {
	PlanterID        string   `bson:"planter_id" json:"planter_id"`
	Name             string   `bson:"name" json:"name"`
	GenusID          string   `bson:"genus_id" json:"genus_id"`
	PlantTypeID      string   `bson:"plant_type_id" json:"plant_type_id"`
	ImgURL           []string `bson:"img_url" json:"img_url"`
	Price            float64  `bson:"price" json:"price"`
	Size             string   `bson:"size,omitempty" json:"size,omitempty"`
	Material         string   `bson:"material,omitempty" json:"material,omitempty"`
	SpecialFeature   string   `bson:"special_feature,omitempty" json:"special_feature,omitempty"`
	IntroDescription string   `bson:"intro_description,omitempty" json:"intro_description,omitempty"`
	DefaultColor     string   `bson:"default_color,omitempty" json:"default_color,omitempty"`
	Status           string   `bson:"status" json:"status"`
	AverageRating    float64  `bson:"average_rating" json:"average_rating"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type Seed struct {
	SeedID        string   `bson:"seed_id" json:"seed_id"`
	Name          string   `bson:"name" json:"name"`
	SubName       string   `bson:"sub_name,omitempty" json:"sub_name,omitempty"`
	GenusID       string   `bson:"genus_id" json:"genus_id"`
	PlantTypeID   string   `bson:"plant_type_id" json:"plant_type_id"`
	ImgURL        []string `bson:"img_url" json:"img_url"`
	Price         float64  `bson:"price" json:"price"`
	Quantity      int      `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Status        string   `bson:"status" json:"status"`
	AverageRating float64  `bson:"average_rating" json:"average_rating"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type Genus struct {
	GenusID     string    `bson:"genus_id" json:"genus_id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type PlantType struct {
	PlantTypeID string    `bson:"plant_type_id" json:"plant_type_id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
