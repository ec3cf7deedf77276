package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"everfresh/catalog"
	"everfresh/db"
	"everfresh/models"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type addItemInput struct {
	ProductID   string `json:"product_id"`
	ProductType string `json:"product_type"`
	CustomColor string `json:"custom_color"`
	Quantity    int    `json:"quantity"`
}

// SameLine reports whether an incoming addition belongs to an existing
// cart line. Planters with different custom colors stay separate lines.
func SameLine(item models.CartItem, productID, productType, customColor string) bool {
	return item.ProductID == productID &&
		item.ProductType == productType &&
		item.CustomColor == customColor
}

// AddItem puts a product into the cart. A second addition of the same
// product merges into the existing line instead of creating a new one.
func AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input addItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.Quantity <= 0 {
		http.Error(w, "Quantity must be positive", http.StatusBadRequest)
		return
	}

	snapshot, err := catalog.ResolveProduct(ctx, input.ProductType, input.ProductID)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	cart, err := findCartOfUser(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	items, err := loadItems(ctx, cart.ListCartItemID)
	if err != nil {
		http.Error(w, "Could not retrieve cart items", http.StatusInternalServerError)
		return
	}

	var existing *models.CartItem
	for i := range items {
		if SameLine(items[i], input.ProductID, input.ProductType, input.CustomColor) {
			existing = &items[i]
			break
		}
	}

	session, err := db.Client.StartSession()
	if err != nil {
		http.Error(w, "Could not update cart", http.StatusInternalServerError)
		return
	}
	defer session.EndSession(ctx)

	now := time.Now()
	var result models.CartItem

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if existing != nil {
			existing.Quantity += input.Quantity
			existing.ItemTotalPrice = snapshot.Price * float64(existing.Quantity)
			existing.UpdatedAt = now
			_, err := db.CartItemsCollection.UpdateOne(sc,
				bson.M{"cart_item_id": existing.CartItemID},
				bson.M{"$set": bson.M{
					"quantity":         existing.Quantity,
					"item_total_price": existing.ItemTotalPrice,
					"updated_at":       now,
				}},
			)
			if err != nil {
				return nil, err
			}
			result = *existing
		} else {
			item := models.CartItem{
				CartItemID:     "ci" + utils.GenerateRandomString(12),
				ProductID:      input.ProductID,
				ProductType:    input.ProductType,
				Product:        snapshot,
				CustomColor:    input.CustomColor,
				Quantity:       input.Quantity,
				ItemTotalPrice: snapshot.Price * float64(input.Quantity),
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if _, err := db.CartItemsCollection.InsertOne(sc, item); err != nil {
				return nil, err
			}
			items = append(items, item)
			result = item
		}

		_, err := db.CartsCollection.UpdateOne(sc,
			bson.M{"cart_id": cart.CartID},
			bson.M{"$set": bson.M{
				"list_cart_item_id": itemIDs(items),
				"total_price":       CartTotal(items),
				"updated_at":        now,
			}},
		)
		return nil, err
	})
	if err != nil {
		http.Error(w, "Could not update cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// UpdateItemQuantity sets a line's quantity. Zero removes the line;
// negative values are rejected.
func UpdateItemQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.Quantity < 0 {
		http.Error(w, "Quantity cannot be negative", http.StatusBadRequest)
		return
	}

	itemID := ps.ByName("id")
	userID := utils.GetUserIDFromRequest(r)

	cart, err := findCartOfUser(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	if !utils.Contains(cart.ListCartItemID, itemID) {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}

	if input.Quantity == 0 {
		removeLine(ctx, w, cart, itemID)
		return
	}

	items, err := loadItems(ctx, cart.ListCartItemID)
	if err != nil {
		http.Error(w, "Could not retrieve cart items", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	found := false
	for i := range items {
		if items[i].CartItemID == itemID {
			items[i].Quantity = input.Quantity
			items[i].ItemTotalPrice = items[i].Product.Price * float64(input.Quantity)
			items[i].UpdatedAt = now
			found = true
			break
		}
	}
	if !found {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}

	session, err := db.Client.StartSession()
	if err != nil {
		http.Error(w, "Could not update cart", http.StatusInternalServerError)
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, item := range items {
			if item.CartItemID != itemID {
				continue
			}
			_, err := db.CartItemsCollection.UpdateOne(sc,
				bson.M{"cart_item_id": itemID},
				bson.M{"$set": bson.M{
					"quantity":         item.Quantity,
					"item_total_price": item.ItemTotalPrice,
					"updated_at":       now,
				}},
			)
			if err != nil {
				return nil, err
			}
		}
		_, err := db.CartsCollection.UpdateOne(sc,
			bson.M{"cart_id": cart.CartID},
			bson.M{"$set": bson.M{"total_price": CartTotal(items), "updated_at": now}},
		)
		return nil, err
	})
	if err != nil {
		http.Error(w, "Could not update cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RemoveItem deletes a line from the caller's cart.
func RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	itemID := ps.ByName("id")
	userID := utils.GetUserIDFromRequest(r)

	cart, err := findCartOfUser(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	if !utils.Contains(cart.ListCartItemID, itemID) {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}

	removeLine(ctx, w, cart, itemID)
}

func removeLine(ctx context.Context, w http.ResponseWriter, cart models.Cart, itemID string) {
	remaining := make([]string, 0, len(cart.ListCartItemID))
	for _, id := range cart.ListCartItemID {
		if id != itemID {
			remaining = append(remaining, id)
		}
	}

	items, err := loadItems(ctx, remaining)
	if err != nil {
		http.Error(w, "Could not retrieve cart items", http.StatusInternalServerError)
		return
	}

	session, err := db.Client.StartSession()
	if err != nil {
		http.Error(w, "Could not update cart", http.StatusInternalServerError)
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.CartItemsCollection.DeleteOne(sc, bson.M{"cart_item_id": itemID}); err != nil {
			return nil, err
		}
		_, err := db.CartsCollection.UpdateOne(sc,
			bson.M{"cart_id": cart.CartID},
			bson.M{"$set": bson.M{
				"list_cart_item_id": remaining,
				"total_price":       CartTotal(items),
				"updated_at":        time.Now(),
			}},
		)
		return nil, err
	})
	if err != nil {
		http.Error(w, "Could not update cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Item removed"})
}

func itemIDs(items []models.CartItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.CartItemID)
	}
	return ids
}
