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

func CreatePlanter(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var planter models.Planter
	if err := json.NewDecoder(r.Body).Decode(&planter); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if planter.Name == "" || planter.Price <= 0 {
		http.Error(w, "Name and a positive price are required", http.StatusBadRequest)
		return
	}

	planter.PlanterID = "pl" + utils.GenerateRandomString(12)
	planter.Status = models.StatusInStock
	planter.AverageRating = 0
	planter.CreatedAt = time.Now()
	planter.UpdatedAt = planter.CreatedAt

	if _, err := db.PlantersCollection.InsertOne(ctx, planter); err != nil {
		http.Error(w, "Failed to create planter", http.StatusInternalServerError)
		return
	}

	go notifications.NotifyAllCustomers(
		"New planter in the shop: "+planter.Name, models.NotifyNewPlanter)

	utils.RespondWithJSON(w, http.StatusCreated, planter)
}

func GetPlanters(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": models.StatusInStock}
	if name := r.URL.Query().Get("name"); name != "" {
		filter["name"] = bson.M{"$regex": name, "$options": "i"}
	}
	if material := r.URL.Query().Get("material"); material != "" {
		filter["material"] = material
	}

	limit, skip := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.M{"created_at": -1})

	cursor, err := db.PlantersCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Could not retrieve planters", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var planters []models.Planter
	if err := cursor.All(ctx, &planters); err != nil {
		http.Error(w, "Error reading planters", http.StatusInternalServerError)
		return
	}
	if planters == nil {
		planters = []models.Planter{}
	}

	utils.RespondWithJSON(w, http.StatusOK, planters)
}

func GetAllPlanters(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, skip := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.M{"created_at": -1})

	cursor, err := db.PlantersCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Could not retrieve planters", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var planters []models.Planter
	if err := cursor.All(ctx, &planters); err != nil {
		http.Error(w, "Error reading planters", http.StatusInternalServerError)
		return
	}
	if planters == nil {
		planters = []models.Planter{}
	}

	utils.RespondWithJSON(w, http.StatusOK, planters)
}

func GetPlanterByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var planter models.Planter
	err := db.PlantersCollection.FindOne(ctx, bson.M{"planter_id": ps.ByName("id")}).Decode(&planter)
	if err != nil {
		http.Error(w, "Planter not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, planter)
}

func UpdatePlanter(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var updates bson.M
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	delete(updates, "planter_id")
	delete(updates, "average_rating")
	delete(updates, "created_at")
	updates["updated_at"] = time.Now()

	res, err := db.PlantersCollection.UpdateOne(ctx,
		bson.M{"planter_id": ps.ByName("id")},
		bson.M{"$set": updates},
	)
	if err != nil {
		http.Error(w, "Failed to update planter", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Planter not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func ChangePlanterStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	changeProductStatus(w, r, db.PlantersCollection, "planter_id", ps.ByName("id"))
}
