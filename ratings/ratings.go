package ratings

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"everfresh/catalog"
	"everfresh/db"
	"everfresh/models"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createRatingInput struct {
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductType string `json:"product_type"`
	Star        string `json:"star"`
	Comment     string `json:"comment"`
}

func validStar(star string) bool {
	v, err := strconv.ParseFloat(star, 64)
	return err == nil && v >= 1 && v <= 5
}

// CreateRating lets a customer rate a product from one of their own
// delivered orders. The composite index rejects a second rating for
// the same order and product.
func CreateRating(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input createRatingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.OrderID == "" || input.ProductID == "" {
		http.Error(w, "order_id and product_id are required", http.StatusBadRequest)
		return
	}
	if !validStar(input.Star) {
		http.Error(w, "Star must be between 1 and 5", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{
		"order_id":    input.OrderID,
		"customer_id": userID,
		"status":      models.OrderDelivered,
	}).Decode(&order)
	if err != nil {
		http.Error(w, "No delivered order of yours matches", http.StatusForbidden)
		return
	}

	if !orderContainsProduct(ctx, order, input.ProductID) {
		http.Error(w, "The order does not contain this product", http.StatusBadRequest)
		return
	}

	now := time.Now()
	rating := models.Rating{
		RatingID:    "rt" + utils.GenerateRandomString(12),
		OrderID:     input.OrderID,
		ProductID:   input.ProductID,
		ProductType: input.ProductType,
		UserID:      userID,
		Star:        input.Star,
		Comment:     input.Comment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := db.RatingsCollection.InsertOne(ctx, rating); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "You already rated this product for this order", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create rating", http.StatusInternalServerError)
		return
	}

	refreshAverage(input.ProductType, input.ProductID)

	utils.RespondWithJSON(w, http.StatusCreated, rating)
}

func orderContainsProduct(ctx context.Context, order models.Order, productID string) bool {
	if len(order.ListCartItemID) == 0 {
		return false
	}
	count, err := db.CartItemsCollection.CountDocuments(ctx, bson.M{
		"cart_item_id": bson.M{"$in": order.ListCartItemID},
		"product_id":   productID,
	})
	return err == nil && count > 0
}

func refreshAverage(productType, productID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := catalog.UpdateAverageRating(ctx, productType, productID); err != nil {
			log.Println("average rating refresh:", err)
		}
	}()
}

// UpdateRating edits the caller's own rating.
func UpdateRating(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Star    string `json:"star"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !validStar(input.Star) {
		http.Error(w, "Star must be between 1 and 5", http.StatusBadRequest)
		return
	}

	var rating models.Rating
	err := db.RatingsCollection.FindOneAndUpdate(ctx,
		bson.M{"rating_id": ps.ByName("id"), "user_id": utils.GetUserIDFromRequest(r)},
		bson.M{"$set": bson.M{
			"star":       input.Star,
			"comment":    input.Comment,
			"updated_at": time.Now(),
		}},
	).Decode(&rating)
	if err != nil {
		http.Error(w, "Rating not found", http.StatusNotFound)
		return
	}

	refreshAverage(rating.ProductType, rating.ProductID)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteRating removes the caller's own rating.
func DeleteRating(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var rating models.Rating
	err := db.RatingsCollection.FindOneAndDelete(ctx, bson.M{
		"rating_id": ps.ByName("id"),
		"user_id":   utils.GetUserIDFromRequest(r),
	}).Decode(&rating)
	if err != nil {
		http.Error(w, "Rating not found", http.StatusNotFound)
		return
	}

	refreshAverage(rating.ProductType, rating.ProductID)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Rating deleted"})
}

// GetRatingsOfProduct lists ratings for one product, newest first.
func GetRatingsOfProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, skip := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.M{"created_at": -1})

	cursor, err := db.RatingsCollection.Find(ctx,
		bson.M{"product_id": ps.ByName("id")}, opts)
	if err != nil {
		http.Error(w, "Could not retrieve ratings", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Rating
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading ratings", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Rating{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetRatingsOfOrder returns what the caller already rated in an order,
// so clients can grey out rated products.
func GetRatingsOfOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.RatingsCollection.Find(ctx, bson.M{
		"order_id": ps.ByName("id"),
		"user_id":  utils.GetUserIDFromRequest(r),
	})
	if err != nil {
		http.Error(w, "Could not retrieve ratings", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Rating
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading ratings", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Rating{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}
