package collections

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

// findOrCreateCollection returns the user's named collection, creating
// it and linking it into the gallery when it does not exist yet.
func findOrCreateCollection(ctx context.Context, userID, name string) (models.Collection, error) {
	var collection models.Collection
	err := db.CollectionsCollection.FindOne(ctx, bson.M{
		"user_id":         userID,
		"collection_name": name,
	}).Decode(&collection)
	if err == nil {
		return collection, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Collection{}, err
	}

	now := time.Now()
	collection = models.Collection{
		CollectionID:   "cl" + utils.GenerateRandomString(12),
		UserID:         userID,
		CollectionName: name,
		ListProductID:  []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	session, err := db.Client.StartSession()
	if err != nil {
		return models.Collection{}, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.CollectionsCollection.InsertOne(sc, collection); err != nil {
			return nil, err
		}
		_, err := db.GalleriesCollection.UpdateOne(sc,
			bson.M{"user_id": userID},
			bson.M{
				"$push": bson.M{"list_collection_id": collection.CollectionID},
				"$set":  bson.M{"updated_at": now},
			},
		)
		return nil, err
	})
	if err != nil {
		return models.Collection{}, err
	}
	return collection, nil
}

// AddToFavorite puts a product into the caller's Favorite collection,
// creating the collection on first use.
func AddToFavorite(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ProductID == "" {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	favorite, err := findOrCreateCollection(ctx, userID, models.FavoriteCollection)
	if err != nil {
		http.Error(w, "Could not update favorites", http.StatusInternalServerError)
		return
	}
	if utils.Contains(favorite.ListProductID, input.ProductID) {
		http.Error(w, "Product is already in favorites", http.StatusBadRequest)
		return
	}

	_, err = db.CollectionsCollection.UpdateOne(ctx,
		bson.M{"collection_id": favorite.CollectionID},
		bson.M{
			"$push": bson.M{"list_product_id": input.ProductID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		http.Error(w, "Could not update favorites", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// CreateCollection adds a named collection to the caller's gallery.
func CreateCollection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		CollectionName string `json:"collection_name"`
		CollectionImg  string `json:"collection_img"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.CollectionName == "" {
		http.Error(w, "collection_name is required", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	count, err := db.CollectionsCollection.CountDocuments(ctx, bson.M{
		"user_id":         userID,
		"collection_name": input.CollectionName,
	})
	if err != nil {
		http.Error(w, "Could not create collection", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "A collection with that name already exists", http.StatusConflict)
		return
	}

	collection, err := findOrCreateCollection(ctx, userID, input.CollectionName)
	if err != nil {
		http.Error(w, "Could not create collection", http.StatusInternalServerError)
		return
	}

	if input.CollectionImg != "" {
		_, err = db.CollectionsCollection.UpdateOne(ctx,
			bson.M{"collection_id": collection.CollectionID},
			bson.M{"$set": bson.M{"collection_img": input.CollectionImg}},
		)
		if err == nil {
			collection.CollectionImg = input.CollectionImg
		}
	}

	utils.RespondWithJSON(w, http.StatusCreated, collection)
}

// ChangeCollection moves a product from one of the caller's collections
// to another in a single transaction.
func ChangeCollection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		ProductID        string `json:"product_id"`
		FromCollectionID string `json:"from_collection_id"`
		ToCollectionID   string `json:"to_collection_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil ||
		input.ProductID == "" || input.FromCollectionID == "" || input.ToCollectionID == "" {
		http.Error(w, "product_id, from_collection_id and to_collection_id are required", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	var from models.Collection
	err := db.CollectionsCollection.FindOne(ctx, bson.M{
		"collection_id": input.FromCollectionID,
		"user_id":       userID,
	}).Decode(&from)
	if err != nil {
		http.Error(w, "Source collection not found", http.StatusNotFound)
		return
	}
	if !utils.Contains(from.ListProductID, input.ProductID) {
		http.Error(w, "Product is not in the source collection", http.StatusBadRequest)
		return
	}

	session, err := db.Client.StartSession()
	if err != nil {
		http.Error(w, "Could not move product", http.StatusInternalServerError)
		return
	}
	defer session.EndSession(ctx)

	now := time.Now()
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := db.CollectionsCollection.UpdateOne(sc,
			bson.M{"collection_id": input.ToCollectionID, "user_id": userID},
			bson.M{
				"$addToSet": bson.M{"list_product_id": input.ProductID},
				"$set":      bson.M{"updated_at": now},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, mongo.ErrNoDocuments
		}
		_, err = db.CollectionsCollection.UpdateOne(sc,
			bson.M{"collection_id": input.FromCollectionID, "user_id": userID},
			bson.M{
				"$pull": bson.M{"list_product_id": input.ProductID},
				"$set":  bson.M{"updated_at": now},
			},
		)
		return nil, err
	})
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Target collection not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not move product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

// RemoveFromCollection drops a product from one of the caller's collections.
func RemoveFromCollection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ProductID == "" {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}

	res, err := db.CollectionsCollection.UpdateOne(ctx,
		bson.M{
			"collection_id": ps.ByName("id"),
			"user_id":       utils.GetUserIDFromRequest(r),
		},
		bson.M{
			"$pull": bson.M{"list_product_id": input.ProductID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		http.Error(w, "Could not update collection", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Collection not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// GetCollectionByID returns one of the caller's collections.
func GetCollectionByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var collection models.Collection
	err := db.CollectionsCollection.FindOne(ctx, bson.M{
		"collection_id": ps.ByName("id"),
		"user_id":       utils.GetUserIDFromRequest(r),
	}).Decode(&collection)
	if err != nil {
		http.Error(w, "Collection not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, collection)
}

// GetGallery returns the caller's gallery with its collections joined in.
func GetGallery(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var gallery models.Gallery
	err := db.GalleriesCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&gallery)
	if err != nil {
		http.Error(w, "Gallery not found", http.StatusNotFound)
		return
	}

	collections := []models.Collection{}
	if len(gallery.ListCollectionID) > 0 {
		cursor, err := db.CollectionsCollection.Find(ctx,
			bson.M{"collection_id": bson.M{"$in": gallery.ListCollectionID}})
		if err != nil {
			http.Error(w, "Could not retrieve collections", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &collections); err != nil {
			http.Error(w, "Error reading collections", http.StatusInternalServerError)
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"gallery":     gallery,
		"collections": collections,
	})
}
