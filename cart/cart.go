package cart

import (
	"context"
	"net/http"
	"time"

	"everfresh/db"
	"everfresh/models"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// cartView is the cart document with its items joined in.
type cartView struct {
	models.Cart
	Items []models.CartItem `json:"items"`
}

func findCartOfUser(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := db.CartsCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	return cart, err
}

func loadItems(ctx context.Context, itemIDs []string) ([]models.CartItem, error) {
	if len(itemIDs) == 0 {
		return []models.CartItem{}, nil
	}
	cursor, err := db.CartItemsCollection.Find(ctx, bson.M{"cart_item_id": bson.M{"$in": itemIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// CartTotal sums line totals.
func CartTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.ItemTotalPrice
	}
	return total
}

// GetCart returns the caller's cart with its items.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	cart, err := findCartOfUser(ctx, userID)
	if err == mongo.ErrNoDocuments {
		// Accounts created before carts were provisioned at signup.
		cart = models.Cart{
			CartID:         "c" + utils.GenerateRandomString(12),
			UserID:         userID,
			ListCartItemID: []string{},
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		if _, err := db.CartsCollection.InsertOne(ctx, cart); err != nil {
			http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
			return
		}
	} else if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	items, err := loadItems(ctx, cart.ListCartItemID)
	if err != nil {
		http.Error(w, "Could not retrieve cart items", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cartView{Cart: cart, Items: items})
}
