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

func CreateGenus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var genus models.Genus
	if err := json.NewDecoder(r.Body).Decode(&genus); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if genus.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	genus.GenusID = "gn" + utils.GenerateRandomString(12)
	genus.CreatedAt = time.Now()
	genus.UpdatedAt = genus.CreatedAt

	if _, err := db.GenusCollection.InsertOne(ctx, genus); err != nil {
		http.Error(w, "Failed to create genus", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, genus)
}

func GetGenuses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.GenusCollection.Find(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Could not retrieve genuses", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var genuses []models.Genus
	if err := cursor.All(ctx, &genuses); err != nil {
		http.Error(w, "Error reading genuses", http.StatusInternalServerError)
		return
	}
	if genuses == nil {
		genuses = []models.Genus{}
	}

	utils.RespondWithJSON(w, http.StatusOK, genuses)
}

func UpdateGenus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	res, err := db.GenusCollection.UpdateOne(ctx,
		bson.M{"genus_id": ps.ByName("id")},
		bson.M{"$set": bson.M{
			"name":        input.Name,
			"description": input.Description,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		http.Error(w, "Failed to update genus", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Genus not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteGenus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	genusID := ps.ByName("id")

	// A genus with products behind it cannot be removed.
	inUse, err := db.PlantsCollection.CountDocuments(ctx, bson.M{"genus_id": genusID})
	if err != nil {
		http.Error(w, "Failed to delete genus", http.StatusInternalServerError)
		return
	}
	if inUse == 0 {
		inUse, err = db.SeedsCollection.CountDocuments(ctx, bson.M{"genus_id": genusID})
		if err != nil {
			http.Error(w, "Failed to delete genus", http.StatusInternalServerError)
			return
		}
	}
	if inUse > 0 {
		http.Error(w, "Genus is still referenced by products", http.StatusConflict)
		return
	}

	res, err := db.GenusCollection.DeleteOne(ctx, bson.M{"genus_id": genusID})
	if err != nil {
		http.Error(w, "Failed to delete genus", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Genus not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Genus deleted"})
}
