package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"everfresh/db"
	"everfresh/models"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateDeliveryMethod adds a shipping option. Method names are unique.
func CreateDeliveryMethod(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var method models.DeliveryMethod
	if err := json.NewDecoder(r.Body).Decode(&method); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if method.DeliveryMethodName == "" || method.Price < 0 {
		http.Error(w, "A name and a non-negative price are required", http.StatusBadRequest)
		return
	}

	method.DeliveryMethodID = "dm" + utils.GenerateRandomString(12)
	method.CreatedAt = time.Now()
	method.UpdatedAt = method.CreatedAt

	if _, err := db.DeliveryMethodsCollection.InsertOne(ctx, method); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Delivery method name already exists", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create delivery method", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, method)
}

func GetDeliveryMethods(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.DeliveryMethodsCollection.Find(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Could not retrieve delivery methods", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var methods []models.DeliveryMethod
	if err := cursor.All(ctx, &methods); err != nil {
		http.Error(w, "Error reading delivery methods", http.StatusInternalServerError)
		return
	}
	if methods == nil {
		methods = []models.DeliveryMethod{}
	}

	utils.RespondWithJSON(w, http.StatusOK, methods)
}

func UpdateDeliveryMethod(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		DeliveryMethodName string  `json:"delivery_method_name"`
		Price              float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.DeliveryMethodName == "" || input.Price < 0 {
		http.Error(w, "A name and a non-negative price are required", http.StatusBadRequest)
		return
	}

	res, err := db.DeliveryMethodsCollection.UpdateOne(ctx,
		bson.M{"delivery_method_id": ps.ByName("id")},
		bson.M{"$set": bson.M{
			"delivery_method_name": input.DeliveryMethodName,
			"price":                input.Price,
			"updated_at":           time.Now(),
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Delivery method name already exists", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to update delivery method", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Delivery method not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteDeliveryMethod(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.DeliveryMethodsCollection.DeleteOne(ctx,
		bson.M{"delivery_method_id": ps.ByName("id")})
	if err != nil {
		http.Error(w, "Failed to delete delivery method", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Delivery method not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Delivery method deleted"})
}
