package users

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"everfresh/db"
	"everfresh/globals"
	"everfresh/models"
	"everfresh/rdx"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// GetCurrentUser returns the caller's own profile.
func GetCurrentUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx,
		bson.M{"user_id": utils.GetUserIDFromRequest(r)}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// GetUserByID returns a profile. Customers can only read themselves.
func GetUserByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	targetID := ps.ByName("id")
	if utils.GetRoleFromRequest(r) != globals.RoleAdmin &&
		targetID != utils.GetUserIDFromRequest(r) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"user_id": targetID}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile edits the caller's own profile fields. Email, role and
// rank are not writable here.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phone_number"`
		Country     string `json:"country"`
		Gender      string `json:"gender"`
		DOB         string `json:"dob"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"user_id": utils.GetUserIDFromRequest(r)},
		bson.M{"$set": bson.M{
			"name":         input.Name,
			"phone_number": input.PhoneNumber,
			"country":      input.Country,
			"gender":       input.Gender,
			"dob":          input.DOB,
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// CheckOldPassword verifies the caller's current password before the
// client shows the change-password form.
func CheckOldPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx,
		bson.M{"user_id": utils.GetUserIDFromRequest(r)}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	match := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) == nil
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"match": match})
}

// ChangePassword replaces the caller's password after re-checking the
// old one.
func ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if len(input.NewPassword) < 6 {
		http.Error(w, "New password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)) != nil {
		http.Error(w, "Old password is incorrect", http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Failed to change password", http.StatusInternalServerError)
		return
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"password":   string(hashed),
			"updated_at": time.Now(),
			// Force a fresh login everywhere.
			"refresh_token": "",
		}},
	)
	if err != nil {
		http.Error(w, "Failed to change password", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// GetAllUsers is the admin listing with optional role and status filters.
func GetAllUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if role := r.URL.Query().Get("role"); role != "" {
		filter["role"] = role
	}
	switch r.URL.Query().Get("status") {
	case "active":
		filter["status"] = true
	case "banned":
		filter["status"] = false
	}

	limit, skip := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.M{"created_at": -1})

	cursor, err := db.UserCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Could not retrieve users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.User
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading users", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// SearchUsersByEmail is an admin prefix search over email addresses.
func SearchUsersByEmail(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		http.Error(w, "email query parameter is required", http.StatusBadRequest)
		return
	}

	cursor, err := db.UserCollection.Find(ctx, bson.M{
		"email": bson.M{"$regex": "^" + email, "$options": "i"},
	}, options.Find().SetLimit(20))
	if err != nil {
		http.Error(w, "Could not search users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.User
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading users", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetUserStatistics counts active and banned accounts for the admin
// dashboard.
func GetUserStatistics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	active, err := db.UserCollection.CountDocuments(ctx, bson.M{"status": true})
	if err != nil {
		http.Error(w, "Could not compute statistics", http.StatusInternalServerError)
		return
	}
	banned, err := db.UserCollection.CountDocuments(ctx, bson.M{"status": false})
	if err != nil {
		http.Error(w, "Could not compute statistics", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{
		"active": active,
		"banned": banned,
		"total":  active + banned,
	})
}

// BanUser toggles an account's status. Admin accounts cannot be banned.
func BanUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"user_id": ps.ByName("id")}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if user.Role == globals.RoleAdmin {
		http.Error(w, "Admin accounts cannot be banned", http.StatusBadRequest)
		return
	}

	next := !user.Status
	set := bson.M{"status": next, "updated_at": time.Now()}
	if !next {
		// Banning cuts any standing sessions.
		set["refresh_token"] = ""
		if err := rdx.RdxHdel("sessions", user.UserID); err != nil {
			log.Println("could not drop session for banned user:", err)
		}
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"user_id": user.UserID}, bson.M{"$set": set})
	if err != nil {
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"status": next})
}

// DeleteUser removes an account and its personal data.
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("id")

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if user.Role == globals.RoleAdmin {
		http.Error(w, "Admin accounts cannot be deleted", http.StatusBadRequest)
		return
	}

	owned := bson.M{"user_id": userID}
	for _, coll := range []*mongo.Collection{
		db.CartsCollection,
		db.DeliveryInfoCollection,
		db.LinkedInfoCollection,
		db.NotificationsCollection,
		db.CollectionsCollection,
		db.GalleriesCollection,
	} {
		if _, err := coll.DeleteMany(ctx, owned); err != nil {
			http.Error(w, "Failed to delete user data", http.StatusInternalServerError)
			return
		}
	}

	if _, err := db.UserCollection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
