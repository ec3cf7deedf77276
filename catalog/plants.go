package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"everfresh/db"
	"everfresh/models"
	"everfresh/notifications"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreatePlant inserts a plant and tells every active customer about it.
func CreatePlant(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var plant models.Plant
	if err := json.NewDecoder(r.Body).Decode(&plant); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if plant.Name == "" || plant.Price <= 0 {
		http.Error(w, "Name and a positive price are required", http.StatusBadRequest)
		return
	}

	plant.PlantID = "p" + utils.GenerateRandomString(12)
	plant.Status = models.StatusInStock
	plant.AverageRating = 0
	plant.CreatedAt = time.Now()
	plant.UpdatedAt = plant.CreatedAt

	if _, err := db.PlantsCollection.InsertOne(ctx, plant); err != nil {
		http.Error(w, "Failed to create plant", http.StatusInternalServerError)
		return
	}

	go notifications.NotifyAllCustomers(
		"New plant in the shop: "+plant.Name, models.NotifyNewPlant)

	utils.RespondWithJSON(w, http.StatusCreated, plant)
}

// GetPlants lists in-stock plants with optional name search and
// genus / plant-type filters.
func GetPlants(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": models.StatusInStock}
	if name := r.URL.Query().Get("name"); name != "" {
		filter["name"] = bson.M{"$regex": name, "$options": "i"}
	}
	if genusID := r.URL.Query().Get("genus_id"); genusID != "" {
		filter["genus_id"] = genusID
	}
	if plantTypeID := r.URL.Query().Get("plant_type_id"); plantTypeID != "" {
		filter["plant_type_id"] = plantTypeID
	}

	limit, skip := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.M{"created_at": -1})

	cursor, err := db.PlantsCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Could not retrieve plants", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var plants []models.Plant
	if err := cursor.All(ctx, &plants); err != nil {
		http.Error(w, "Error reading plants", http.StatusInternalServerError)
		return
	}
	if plants == nil {
		plants = []models.Plant{}
	}

	utils.RespondWithJSON(w, http.StatusOK, plants)
}

// GetAllPlants is the admin listing; it includes out-of-stock entries.
func GetAllPlants(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, skip := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.M{"created_at": -1})

	cursor, err := db.PlantsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Could not retrieve plants", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var plants []models.Plant
	if err := cursor.All(ctx, &plants); err != nil {
		http.Error(w, "Error reading plants", http.StatusInternalServerError)
		return
	}
	if plants == nil {
		plants = []models.Plant{}
	}

	utils.RespondWithJSON(w, http.StatusOK, plants)
}

func GetPlantByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var plant models.Plant
	err := db.PlantsCollection.FindOne(ctx, bson.M{"plant_id": ps.ByName("id")}).Decode(&plant)
	if err != nil {
		http.Error(w, "Plant not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, plant)
}

func UpdatePlant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var updates bson.M
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	// Identity and computed fields are not writable through this route.
	delete(updates, "plant_id")
	delete(updates, "average_rating")
	delete(updates, "created_at")
	updates["updated_at"] = time.Now()

	res, err := db.PlantsCollection.UpdateOne(ctx,
		bson.M{"plant_id": ps.ByName("id")},
		bson.M{"$set": updates},
	)
	if err != nil {
		http.Error(w, "Failed to update plant", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Plant not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ChangePlantStatus flips a plant between IN_STOCK and OUT_OF_STOCK.
func ChangePlantStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	changeProductStatus(w, r, db.PlantsCollection, "plant_id", ps.ByName("id"))
}
