package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"everfresh/db"
	"everfresh/globals"
	"everfresh/middleware"
	"everfresh/models"
	"everfresh/rdx"
	"everfresh/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type registerInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
	Gender      string `json:"gender"`
	DOB         string `json:"dob"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a customer account together with its empty cart and
// gallery so later operations never have to lazily provision either.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input registerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" || input.Name == "" {
		http.Error(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}

	count, err := db.UserCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "Email already in use", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := models.User{
		UserID:      "u" + utils.GenerateRandomString(12),
		Name:        input.Name,
		Email:       input.Email,
		Password:    string(hashed),
		PhoneNumber: input.PhoneNumber,
		Country:     input.Country,
		Gender:      input.Gender,
		DOB:         input.DOB,
		Role:        globals.RoleCustomer,
		Rank:        globals.RankNormal,
		Status:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	cart := models.Cart{
		CartID:         "c" + utils.GenerateRandomString(12),
		UserID:         user.UserID,
		ListCartItemID: []string{},
		TotalPrice:     0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	gallery := models.Gallery{
		GalleryID:        "g" + utils.GenerateRandomString(12),
		UserID:           user.UserID,
		ListCollectionID: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	session, err := db.Client.StartSession()
	if err != nil {
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.UserCollection.InsertOne(sc, user); err != nil {
			return nil, err
		}
		if _, err := db.CartsCollection.InsertOne(sc, cart); err != nil {
			return nil, err
		}
		if _, err := db.GalleriesCollection.InsertOne(sc, gallery); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Email already in use", http.StatusConflict)
			return
		}
		log.Println("Register transaction error:", err)
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"user_id": user.UserID,
		"email":   user.Email,
	})
}

// Login verifies credentials and issues an access token plus a refresh
// token. The refresh token is stored hashed on the user document and
// handed to the client in an http-only cookie.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input loginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if !user.Status {
		http.Error(w, "This account has been banned", http.StatusForbidden)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	accessToken, err := generateAccessToken(user)
	if err != nil {
		http.Error(w, "Could not issue token", http.StatusInternalServerError)
		return
	}

	refreshToken := utils.GenerateRandomString(48)
	refreshHash, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Could not issue token", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"user_id": user.UserID},
		bson.M{"$set": bson.M{
			"refresh_token":  string(refreshHash),
			"refresh_expiry": now.Add(refreshTokenTTL),
			"last_login":     now,
		}},
	)
	if err != nil {
		http.Error(w, "Could not issue token", http.StatusInternalServerError)
		return
	}

	// Session cache lets websocket and middleware checks skip Mongo.
	if err := rdx.RdxHset("sessions", user.UserID, accessToken); err != nil {
		log.Println("session cache error:", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/api/auth",
		Expires:  now.Add(refreshTokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": accessToken,
		"user_id":      user.UserID,
		"name":         user.Name,
		"role":         user.Role,
		"rank":         user.Rank,
		"avatar_url":   user.AvatarURL,
	})
}

// RefreshToken exchanges a valid refresh cookie for a fresh access token.
func RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		http.Error(w, "Refresh token missing", http.StatusUnauthorized)
		return
	}

	var input struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var user models.User
	err = db.UserCollection.FindOne(ctx, bson.M{"user_id": input.UserID}).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}
	if !user.Status {
		http.Error(w, "This account has been banned", http.StatusForbidden)
		return
	}
	if user.RefreshToken == "" || time.Now().After(user.RefreshExpiry) {
		http.Error(w, "Refresh token expired", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.RefreshToken), []byte(cookie.Value)) != nil {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	accessToken, err := generateAccessToken(user)
	if err != nil {
		http.Error(w, "Could not issue token", http.StatusInternalServerError)
		return
	}
	if err := rdx.RdxHset("sessions", user.UserID, accessToken); err != nil {
		log.Println("session cache error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
}

// Logout clears the stored refresh token and drops the session cache entry.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"refresh_token": "", "refresh_expiry": time.Time{}}},
	)
	if err != nil {
		http.Error(w, "Logout failed", http.StatusInternalServerError)
		return
	}
	if err := rdx.RdxHdel("sessions", userID); err != nil {
		log.Println("session cache error:", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func generateAccessToken(user models.User) (string, error) {
	claims := middleware.Claims{
		Name:   user.Name,
		Email:  user.Email,
		UserID: user.UserID,
		Role:   user.Role,
		Rank:   user.Rank,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}
