package catalog

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
)

func CreatePlantType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var plantType models.PlantType
	if err := json.NewDecoder(r.Body).Decode(&plantType); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if plantType.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	plantType.PlantTypeID = "pt" + utils.GenerateRandomString(12)
	plantType.CreatedAt = time.Now()
	plantType.UpdatedAt = plantType.CreatedAt

	if _, err := db.PlantTypesCollection.InsertOne(ctx, plantType); err != nil {
		http.Error(w, "Failed to create plant type", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, plantType)
}

func GetPlantTypes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.PlantTypesCollection.Find(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Could not retrieve plant types", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var plantTypes []models.PlantType
	if err := cursor.All(ctx, &plantTypes); err != nil {
		http.Error(w, "Error reading plant types", http.StatusInternalServerError)
		return
	}
	if plantTypes == nil {
		plantTypes = []models.PlantType{}
	}

	utils.RespondWithJSON(w, http.StatusOK, plantTypes)
}

func UpdatePlantType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	res, err := db.PlantTypesCollection.UpdateOne(ctx,
		bson.M{"plant_type_id": ps.ByName("id")},
		bson.M{"$set": bson.M{
			"name":        input.Name,
			"description": input.Description,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		http.Error(w, "Failed to update plant type", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Plant type not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeletePlantType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	plantTypeID := ps.ByName("id")

	inUse, err := db.PlantsCollection.CountDocuments(ctx, bson.M{"plant_type_id": plantTypeID})
	if err != nil {
		http.Error(w, "Failed to delete plant type", http.StatusInternalServerError)
		return
	}
	if inUse == 0 {
		inUse, err = db.SeedsCollection.CountDocuments(ctx, bson.M{"plant_type_id": plantTypeID})
		if err != nil {
			http.Error(w, "Failed to delete plant type", http.StatusInternalServerError)
			return
		}
	}
	if inUse > 0 {
		http.Error(w, "Plant type is still referenced by products", http.StatusConflict)
		return
	}

	res, err := db.PlantTypesCollection.DeleteOne(ctx, bson.M{"plant_type_id": plantTypeID})
	if err != nil {
		http.Error(w, "Failed to delete plant type", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Plant type not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Plant type deleted"})
}
