package notifications

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"everfresh/db"
	"everfresh/globals"
	"everfresh/models"
	"everfresh/mq"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Notify stores a notification for one user and schedules the live push.
// The push is decoupled from the caller's request; a failed push only logs.
func Notify(ctx context.Context, userID, description, ntype string) {
	now := time.Now()
	n := models.Notification{
		NotificationID: "n" + utils.GenerateRandomString(12),
		UserID:         userID,
		IsNew:          true,
		IsRead:         false,
		Description:    description,
		Type:           ntype,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
		log.Println("Notify insert error:", err)
		return
	}

	go mq.Emit(ctx, mq.NotificationEvent{UserID: userID, Notification: n})
}

// NotifyAllCustomers fans one message out to every active customer account.
// Used for catalog additions and new vouchers.
func NotifyAllCustomers(description, ntype string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := db.UserCollection.Find(ctx, bson.M{
		"role":   globals.RoleCustomer,
		"status": true,
	})
	if err != nil {
		log.Println("NotifyAllCustomers find error:", err)
		return
	}
	defer cursor.Close(ctx)

	var customers []models.User
	if err := cursor.All(ctx, &customers); err != nil {
		log.Println("NotifyAllCustomers decode error:", err)
		return
	}

	for _, customer := range customers {
		Notify(ctx, customer.UserID, description, ntype)
	}
}

// GetAllNotificationsOfUser returns the caller's notifications.
func GetAllNotificationsOfUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	cursor, err := db.NotificationsCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		http.Error(w, "Could not retrieve notifications", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Notification
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading notifications", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetNotificationByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var n models.Notification
	err := db.NotificationsCollection.FindOne(ctx, bson.M{
		"notification_id": ps.ByName("id"),
		"user_id":         utils.GetUserIDFromRequest(r),
	}).Decode(&n)
	if err != nil {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, n)
}

// CreateNotification lets an admin push a message to a specific user.
func CreateNotification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		UserID      string `json:"user_id"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.Description == "" || input.UserID == "" {
		http.Error(w, "Description and user_id are required", http.StatusBadRequest)
		return
	}

	Notify(ctx, input.UserID, input.Description, input.Type)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func UpdateNotificationIsRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	markOne(w, r, ps.ByName("id"), bson.M{"is_read": true})
}

func UpdateAllNotificationsIsRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	markAll(w, r, bson.M{"is_read": true})
}

func UpdateNotificationIsSeen(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	markOne(w, r, ps.ByName("id"), bson.M{"is_new": false})
}

func UpdateAllNotificationsIsSeen(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	markAll(w, r, bson.M{"is_new": false})
}

func markOne(w http.ResponseWriter, r *http.Request, id string, set bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	set["updated_at"] = time.Now()
	var updated models.Notification
	err := db.NotificationsCollection.FindOneAndUpdate(ctx,
		bson.M{"notification_id": id, "user_id": utils.GetUserIDFromRequest(r)},
		bson.M{"$set": set},
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to update notification", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func markAll(w http.ResponseWriter, r *http.Request, set bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	set["updated_at"] = time.Now()

	res, err := db.NotificationsCollection.UpdateMany(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		http.Error(w, "Failed to update notifications", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "User doesn't have notifications", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"updated": res.ModifiedCount})
}

func DeleteNotification(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.NotificationsCollection.DeleteOne(ctx, bson.M{
		"notification_id": ps.ByName("id"),
		"user_id":         utils.GetUserIDFromRequest(r),
	})
	if err != nil {
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}

func DeleteAllNotificationsOfUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.NotificationsCollection.DeleteMany(ctx, bson.M{
		"user_id": utils.GetUserIDFromRequest(r),
	})
	if err != nil {
		http.Error(w, "Failed to delete notifications", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "User doesn't have notifications", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "All notifications deleted"})
}
