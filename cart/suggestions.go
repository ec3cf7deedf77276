package cart

import (
	"context"
	"net/http"
	"time"

	"everfresh/db"
	"everfresh/models"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const suggestionSlots = 6

// suggestionType validates the product_type query parameter. An absent
// value keeps the historical default of plants.
func suggestionType(raw string) (string, bool) {
	switch raw {
	case "":
		return models.ProductTypePlant, true
	case models.ProductTypePlant, models.ProductTypePlanter, models.ProductTypeSeed:
		return raw, true
	}
	return "", false
}

// MergeSuggestions fills up to `slots` snapshots, preferring related
// products, skipping anything already in the cart and duplicates.
func MergeSuggestions(related, fallback []models.ProductSnapshot, inCart map[string]bool, slots int) []models.ProductSnapshot {
	out := make([]models.ProductSnapshot, 0, slots)
	seen := make(map[string]bool)

	take := func(candidates []models.ProductSnapshot) {
		for _, c := range candidates {
			if len(out) >= slots {
				return
			}
			if inCart[c.ProductID] || seen[c.ProductID] {
				continue
			}
			seen[c.ProductID] = true
			out = append(out, c)
		}
	}

	take(related)
	take(fallback)
	return out
}

// GetSuggestions recommends products of the requested type related to
// what is already in the cart, topped up with the newest arrivals when
// the cart gives too little signal.
func GetSuggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productType, ok := suggestionType(r.URL.Query().Get("product_type"))
	if !ok {
		http.Error(w, "Unknown product type", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	cart, err := findCartOfUser(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	items, err := loadItems(ctx, cart.ListCartItemID)
	if err != nil {
		http.Error(w, "Could not retrieve cart items", http.StatusInternalServerError)
		return
	}

	inCart := make(map[string]bool, len(items))
	var genusIDs, plantTypeIDs []string
	for _, item := range items {
		inCart[item.ProductID] = true
		if item.Product.GenusID != "" {
			genusIDs = append(genusIDs, item.Product.GenusID)
		}
		if item.Product.PlantTypeID != "" {
			plantTypeIDs = append(plantTypeIDs, item.Product.PlantTypeID)
		}
	}

	var related []models.ProductSnapshot
	if len(genusIDs) > 0 || len(plantTypeIDs) > 0 {
		related, err = findSnapshots(ctx, productType, bson.M{
			"status": models.StatusInStock,
			"$or": []bson.M{
				{"genus_id": bson.M{"$in": genusIDs}},
				{"plant_type_id": bson.M{"$in": plantTypeIDs}},
			},
		})
		if err != nil {
			http.Error(w, "Could not build suggestions", http.StatusInternalServerError)
			return
		}
	}

	fallback, err := findSnapshots(ctx, productType, bson.M{"status": models.StatusInStock})
	if err != nil {
		http.Error(w, "Could not build suggestions", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK,
		MergeSuggestions(related, fallback, inCart, suggestionSlots))
}

// findSnapshots queries the collection backing productType and projects
// the hits into uniform snapshots, newest first.
func findSnapshots(ctx context.Context, productType string, filter bson.M) ([]models.ProductSnapshot, error) {
	opts := options.Find().
		SetLimit(suggestionSlots * 2).
		SetSort(bson.M{"created_at": -1})

	switch productType {
	case models.ProductTypePlanter:
		cursor, err := db.PlantersCollection.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var planters []models.Planter
		if err := cursor.All(ctx, &planters); err != nil {
			return nil, err
		}
		snapshots := make([]models.ProductSnapshot, 0, len(planters))
		for _, planter := range planters {
			snapshots = append(snapshots, models.ProductSnapshot{
				ProductID:   planter.PlanterID,
				ProductType: models.ProductTypePlanter,
				Name:        planter.Name,
				Price:       planter.Price,
				ImgURL:      planter.ImgURL,
				GenusID:     planter.GenusID,
				PlantTypeID: planter.PlantTypeID,
			})
		}
		return snapshots, nil

	case models.ProductTypeSeed:
		cursor, err := db.SeedsCollection.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var seeds []models.Seed
		if err := cursor.All(ctx, &seeds); err != nil {
			return nil, err
		}
		snapshots := make([]models.ProductSnapshot, 0, len(seeds))
		for _, seed := range seeds {
			snapshots = append(snapshots, models.ProductSnapshot{
				ProductID:   seed.SeedID,
				ProductType: models.ProductTypeSeed,
				Name:        seed.Name,
				Price:       seed.Price,
				ImgURL:      seed.ImgURL,
				GenusID:     seed.GenusID,
				PlantTypeID: seed.PlantTypeID,
			})
		}
		return snapshots, nil

	default:
		cursor, err := db.PlantsCollection.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var plants []models.Plant
		if err := cursor.All(ctx, &plants); err != nil {
			return nil, err
		}
		snapshots := make([]models.ProductSnapshot, 0, len(plants))
		for _, plant := range plants {
			snapshots = append(snapshots, models.ProductSnapshot{
				ProductID:   plant.PlantID,
				ProductType: models.ProductTypePlant,
				Name:        plant.Name,
				Price:       plant.Price,
				ImgURL:      plant.ImgURL,
				GenusID:     plant.GenusID,
				PlantTypeID: plant.PlantTypeID,
			})
		}
		return snapshots, nil
	}
}
