package catalog

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"everfresh/db"
	"everfresh/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductResolver loads one product of a concrete type and projects it
// into the uniform snapshot the cart and orders work with.
type ProductResolver func(ctx context.Context, productID string) (models.ProductSnapshot, error)

var productResolvers = map[string]ProductResolver{
	models.ProductTypePlant:   resolvePlant,
	models.ProductTypePlanter: resolvePlanter,
	models.ProductTypeSeed:    resolveSeed,
}

// ResolveProduct dispatches on product type. Unknown types are a caller
// error, not a lookup miss.
func ResolveProduct(ctx context.Context, productType, productID string) (models.ProductSnapshot, error) {
	resolver, ok := productResolvers[productType]
	if !ok {
		return models.ProductSnapshot{}, fmt.Errorf("unknown product type %q", productType)
	}
	return resolver(ctx, productID)
}

func resolvePlant(ctx context.Context, productID string) (models.ProductSnapshot, error) {
	var plant models.Plant
	err := db.PlantsCollection.FindOne(ctx, bson.M{"plant_id": productID}).Decode(&plant)
	if err != nil {
		return models.ProductSnapshot{}, err
	}
	return models.ProductSnapshot{
		ProductID:   plant.PlantID,
		ProductType: models.ProductTypePlant,
		Name:        plant.Name,
		Price:       plant.Price,
		ImgURL:      plant.ImgURL,
		GenusID:     plant.GenusID,
		PlantTypeID: plant.PlantTypeID,
	}, nil
}

func resolvePlanter(ctx context.Context, productID string) (models.ProductSnapshot, error) {
	var planter models.Planter
	err := db.PlantersCollection.FindOne(ctx, bson.M{"planter_id": productID}).Decode(&planter)
	if err != nil {
		return models.ProductSnapshot{}, err
	}
	return models.ProductSnapshot{
		ProductID:   planter.PlanterID,
		ProductType: models.ProductTypePlanter,
		Name:        planter.Name,
		Price:       planter.Price,
		ImgURL:      planter.ImgURL,
		GenusID:     planter.GenusID,
		PlantTypeID: planter.PlantTypeID,
	}, nil
}

func resolveSeed(ctx context.Context, productID string) (models.ProductSnapshot, error) {
	var seed models.Seed
	err := db.SeedsCollection.FindOne(ctx, bson.M{"seed_id": productID}).Decode(&seed)
	if err != nil {
		return models.ProductSnapshot{}, err
	}
	return models.ProductSnapshot{
		ProductID:   seed.SeedID,
		ProductType: models.ProductTypeSeed,
		Name:        seed.Name,
		Price:       seed.Price,
		ImgURL:      seed.ImgURL,
		GenusID:     seed.GenusID,
		PlantTypeID: seed.PlantTypeID,
	}, nil
}

func collectionFor(productType string) (*mongo.Collection, string, bool) {
	switch productType {
	case models.ProductTypePlant:
		return db.PlantsCollection, "plant_id", true
	case models.ProductTypePlanter:
		return db.PlantersCollection, "planter_id", true
	case models.ProductTypeSeed:
		return db.SeedsCollection, "seed_id", true
	}
	return nil, "", false
}

// AverageStars turns rating documents into a mean with one decimal.
// Stars arrive as strings, bad values are skipped.
func AverageStars(ratings []models.Rating) float64 {
	var sum float64
	var count int
	for _, rating := range ratings {
		star, err := strconv.ParseFloat(rating.Star, 64)
		if err != nil {
			continue
		}
		sum += star
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(sum/float64(count)*10) / 10
}

// UpdateAverageRating recomputes and stores a product's average rating.
func UpdateAverageRating(ctx context.Context, productType, productID string) error {
	coll, idField, ok := collectionFor(productType)
	if !ok {
		return fmt.Errorf("unknown product type %q", productType)
	}

	cursor, err := db.RatingsCollection.Find(ctx, bson.M{"product_id": productID})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return err
	}

	_, err = coll.UpdateOne(ctx,
		bson.M{idField: productID},
		bson.M{"$set": bson.M{"average_rating": AverageStars(ratings)}},
	)
	return err
}
