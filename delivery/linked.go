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

// CreateLinkedInformation saves a payment card for the caller. Card
// numbers are unique across the system.
func CreateLinkedInformation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var info models.LinkedInformation
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if info.CardNumber == "" || info.Author == "" || info.ExpirationDate == "" {
		http.Error(w, "card_number, author and expiration_date are required", http.StatusBadRequest)
		return
	}

	info.LinkedInformationID = "li" + utils.GenerateRandomString(12)
	info.UserID = utils.GetUserIDFromRequest(r)
	info.CreatedAt = time.Now()
	info.UpdatedAt = info.CreatedAt

	if _, err := db.LinkedInfoCollection.InsertOne(ctx, info); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Card is already linked", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to link card", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, info)
}

func GetLinkedInformationOfUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.LinkedInfoCollection.Find(ctx,
		bson.M{"user_id": utils.GetUserIDFromRequest(r)})
	if err != nil {
		http.Error(w, "Could not retrieve cards", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.LinkedInformation
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading cards", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.LinkedInformation{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func DeleteLinkedInformation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.LinkedInfoCollection.DeleteOne(ctx, bson.M{
		"linked_information_id": ps.ByName("id"),
		"user_id":               utils.GetUserIDFromRequest(r),
	})
	if err != nil {
		http.Error(w, "Failed to delete card", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Card not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Card unlinked"})
}
