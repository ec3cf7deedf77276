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

// CreateDeliveryInformation stores a shipping address for the caller.
// The first address automatically becomes the default.
func CreateDeliveryInformation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var info models.DeliveryInformation
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if info.PhoneNumber == "" || info.Address == "" {
		http.Error(w, "phone_number and address are required", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	existing, err := db.DeliveryInfoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		http.Error(w, "Failed to save address", http.StatusInternalServerError)
		return
	}

	info.DeliveryInformationID = "di" + utils.GenerateRandomString(12)
	info.UserID = userID
	info.IsDefault = existing == 0
	info.CreatedAt = time.Now()
	info.UpdatedAt = info.CreatedAt

	if _, err := db.DeliveryInfoCollection.InsertOne(ctx, info); err != nil {
		http.Error(w, "Failed to save address", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, info)
}

// GetDeliveryInformationOfUser lists the caller's addresses, default first.
func GetDeliveryInformationOfUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.DeliveryInfoCollection.Find(ctx,
		bson.M{"user_id": utils.GetUserIDFromRequest(r)})
	if err != nil {
		http.Error(w, "Could not retrieve addresses", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.DeliveryInformation
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading addresses", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.DeliveryInformation{}
	}

	// Default address leads the list.
	for i := range list {
		if list[i].IsDefault && i > 0 {
			list[0], list[i] = list[i], list[0]
			break
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func UpdateDeliveryInformation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		PhoneNumber   string `json:"phone_number"`
		Address       string `json:"address"`
		AddressDetail string `json:"address_detail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	res, err := db.DeliveryInfoCollection.UpdateOne(ctx,
		bson.M{
			"delivery_information_id": ps.ByName("id"),
			"user_id":                 utils.GetUserIDFromRequest(r),
		},
		bson.M{"$set": bson.M{
			"phone_number":   input.PhoneNumber,
			"address":        input.Address,
			"address_detail": input.AddressDetail,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		http.Error(w, "Failed to update address", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// SetDefaultDeliveryInformation promotes one address and demotes the
// rest in a single transaction.
func SetDefaultDeliveryInformation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	infoID := ps.ByName("id")

	session, err := db.Client.StartSession()
	if err != nil {
		http.Error(w, "Failed to update address", http.StatusInternalServerError)
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := db.DeliveryInfoCollection.UpdateOne(sc,
			bson.M{"delivery_information_id": infoID, "user_id": userID},
			bson.M{"$set": bson.M{"is_default": true, "updated_at": time.Now()}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, mongo.ErrNoDocuments
		}
		_, err = db.DeliveryInfoCollection.UpdateMany(sc,
			bson.M{
				"user_id":                 userID,
				"delivery_information_id": bson.M{"$ne": infoID},
			},
			bson.M{"$set": bson.M{"is_default": false}},
		)
		return nil, err
	})
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to update address", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteDeliveryInformation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.DeliveryInfoCollection.DeleteOne(ctx, bson.M{
		"delivery_information_id": ps.ByName("id"),
		"user_id":                 utils.GetUserIDFromRequest(r),
		// The default address cannot be deleted; promote another first.
		"is_default": false,
	})
	if err != nil {
		http.Error(w, "Failed to delete address", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Address not found or is the default", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Address deleted"})
}
