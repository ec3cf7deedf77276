package catalog

import (
	"context"
	"net/http"
	"time"

	"everfresh/models"
	"everfresh/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// changeProductStatus toggles a product between in stock and out of
// stock. Out-of-stock products stay readable but leave public listings.
func changeProductStatus(w http.ResponseWriter, r *http.Request, coll *mongo.Collection, idField, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var current struct {
		Status string `bson:"status"`
	}
	err := coll.FindOne(ctx, bson.M{idField: id}).Decode(&current)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	next := models.StatusInStock
	if current.Status == models.StatusInStock {
		next = models.StatusOutOfStock
	}

	_, err = coll.UpdateOne(ctx,
		bson.M{idField: id},
		bson.M{"$set": bson.M{"status": next, "updated_at": time.Now()}},
	)
	if err != nil {
		http.Error(w, "Failed to update status", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": next})
}
