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

func CreateSeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var seed models.Seed
	if err := json.NewDecoder(r.Body).Decode(&seed); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if seed.Name == "" || seed.Price <= 0 {
		http.Error(w, "Name and a positive price are required", http.StatusBadRequest)
		return
	}

	seed.SeedID = "s" + utils.GenerateRandomString(12)
	seed.Status = models.StatusInStock
	seed.AverageRating = 0
	seed.CreatedAt = time.Now()
	seed.UpdatedAt = seed.CreatedAt

	if _, err := db.SeedsCollection.InsertOne(ctx, seed); err != nil {
		http.Error(w, "Failed to create seed", http.StatusInternalServerError)
		return
	}

	go notifications.NotifyAllCustomers(
		"New seeds in the shop: "+seed.Name, models.NotifyNewSeed)

	utils.RespondWithJSON(w, http.StatusCreated, seed)
}

func GetSeeds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	cursor, err := db.SeedsCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Could not retrieve seeds", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var seeds []models.Seed
	if err := cursor.All(ctx, &seeds); err != nil {
		http.Error(w, "Error reading seeds", http.StatusInternalServerError)
		return
	}
	if seeds == nil {
		seeds = []models.Seed{}
	}

	utils.RespondWithJSON(w, http.StatusOK, seeds)
}

func GetAllSeeds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, skip := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.M{"created_at": -1})

	cursor, err := db.SeedsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Could not retrieve seeds", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var seeds []models.Seed
	if err := cursor.All(ctx, &seeds); err != nil {
		http.Error(w, "Error reading seeds", http.StatusInternalServerError)
		return
	}
	if seeds == nil {
		seeds = []models.Seed{}
	}

	utils.RespondWithJSON(w, http.StatusOK, seeds)
}

func GetSeedByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var seed models.Seed
	err := db.SeedsCollection.FindOne(ctx, bson.M{"seed_id": ps.ByName("id")}).Decode(&seed)
	if err != nil {
		http.Error(w, "Seed not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, seed)
}

func UpdateSeed(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var updates bson.M
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	delete(updates, "seed_id")
	delete(updates, "average_rating")
	delete(updates, "created_at")
	updates["updated_at"] = time.Now()

	res, err := db.SeedsCollection.UpdateOne(ctx,
		bson.M{"seed_id": ps.ByName("id")},
		bson.M{"$set": updates},
	)
	if err != nil {
		http.Error(w, "Failed to update seed", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Seed not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func ChangeSeedStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	changeProductStatus(w, r, db.SeedsCollection, "seed_id", ps.ByName("id"))
}
