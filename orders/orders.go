package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"everfresh/db"
	"everfresh/globals"
	"everfresh/mailer"
	"everfresh/models"
	"everfresh/notifications"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createOrderInput struct {
	CartID           string `json:"cart_id"`
	VoucherID        string `json:"voucher_id"`
	DeliveryMethodID string `json:"delivery_method_id"`
	DeliveryInfoID   string `json:"delivery_information_id"`
}

// CreateOrder is the cash-on-delivery checkout. Card payments create
// their orders from the payment callback instead.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input createOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.CartID == "" || input.DeliveryMethodID == "" {
		http.Error(w, "cart_id and delivery_method_id are required", http.StatusBadRequest)
		return
	}

	customerID := utils.GetUserIDFromRequest(r)
	order, err := PlaceOrder(ctx, PlaceInput{
		CustomerID:       customerID,
		CartID:           input.CartID,
		PaymentMethod:    models.PaymentCOD,
		VoucherID:        input.VoucherID,
		DeliveryMethodID: input.DeliveryMethodID,
		DeliveryInfoID:   input.DeliveryInfoID,
		DecrementVoucher: true,
	})
	switch {
	case errors.Is(err, ErrEmptyCart):
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	case errors.Is(err, ErrVoucherInvalid):
		http.Error(w, "Voucher is not usable", http.StatusBadRequest)
		return
	case errors.Is(err, mongo.ErrNoDocuments):
		http.Error(w, "Checkout data not found", http.StatusNotFound)
		return
	case err != nil:
		log.Println("CreateOrder error:", err)
		http.Error(w, "Could not place order", http.StatusInternalServerError)
		return
	}

	notifications.Notify(ctx, customerID,
		"Your order "+order.OrderCode+" has been confirmed", models.NotifyPurchasingOrder)

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrdersOfCustomer lists the caller's own orders, newest first.
func GetOrdersOfCustomer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"customer_id": utils.GetUserIDFromRequest(r)}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	listOrders(ctx, w, r, filter)
}

// GetAllOrders is the admin listing with an optional status filter.
func GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		filter["customer_id"] = customerID
	}

	listOrders(ctx, w, r, filter)
}

func listOrders(ctx context.Context, w http.ResponseWriter, r *http.Request, filter bson.M) {
	limit, skip := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.M{"created_at": -1})

	cursor, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetOrderByID returns one order with its cart items joined in. Only
// the owner or an admin can read it.
func GetOrderByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, ok := loadOrderForCaller(ctx, w, r, ps.ByName("id"))
	if !ok {
		return
	}

	items, err := loadOrderItems(ctx, order.ListCartItemID)
	if err != nil {
		http.Error(w, "Could not retrieve order items", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"order": order,
		"items": items,
	})
}

// ChangeOrderStatus advances an order one step along the delivery flow
// and notifies the customer.
func ChangeOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"order_id": ps.ByName("id")}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	next, err := NextStatus(order.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	_, err = db.OrdersCollection.UpdateOne(ctx,
		bson.M{"order_id": order.OrderID},
		bson.M{
			"$set":  bson.M{"status": next, "updated_at": now},
			"$push": bson.M{"tracking_status_dates": models.TrackingStatusDate{Key: next, Date: now}},
		},
	)
	if err != nil {
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}

	if ntype := notificationTypeFor(next); ntype != "" {
		notifications.Notify(ctx, order.CustomerID,
			"Order "+order.OrderCode+" is now "+next, ntype)
	}

	if next == models.OrderDelivered {
		go sendCompletionMail(order)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": next})
}

func sendCompletionMail(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var customer models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"user_id": order.CustomerID}).Decode(&customer)
	if err != nil {
		log.Println("completion mail user lookup:", err)
		return
	}
	if err := mailer.SendOrderCompleted(customer.Email, customer.Name, order); err != nil {
		log.Println("completion mail send:", err)
	}
}

// FailDelivery marks an out-for-delivery order as failed. A note
// explaining the failure is mandatory.
func FailDelivery(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Note == "" {
		http.Error(w, "A failure note is required", http.StatusBadRequest)
		return
	}

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"order_id": ps.ByName("id")}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if !CanFailDelivery(order.Status) {
		http.Error(w, "Only an out-for-delivery order can fail", http.StatusBadRequest)
		return
	}

	now := time.Now()
	_, err = db.OrdersCollection.UpdateOne(ctx,
		bson.M{"order_id": order.OrderID},
		bson.M{
			"$set": bson.M{
				"status":               models.OrderFailedDelivery,
				"failed_delivery_note": input.Note,
				"updated_at":           now,
			},
			"$push": bson.M{"tracking_status_dates": models.TrackingStatusDate{
				Key: models.OrderFailedDelivery, Date: now,
			}},
		},
	)
	if err != nil {
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": models.OrderFailedDelivery})
}

// DeleteOrder removes an order and its archived cart items.
func DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"order_id": ps.ByName("id")}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	session, err := db.Client.StartSession()
	if err != nil {
		http.Error(w, "Failed to delete order", http.StatusInternalServerError)
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if len(order.ListCartItemID) > 0 {
			_, err := db.CartItemsCollection.DeleteMany(sc,
				bson.M{"cart_item_id": bson.M{"$in": order.ListCartItemID}})
			if err != nil {
				return nil, err
			}
		}
		_, err := db.OrdersCollection.DeleteOne(sc, bson.M{"order_id": order.OrderID})
		return nil, err
	})
	if err != nil {
		http.Error(w, "Failed to delete order", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}

func loadOrderForCaller(ctx context.Context, w http.ResponseWriter, r *http.Request, orderID string) (models.Order, bool) {
	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return models.Order{}, false
	}

	if utils.GetRoleFromRequest(r) != globals.RoleAdmin && order.CustomerID != utils.GetUserIDFromRequest(r) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return models.Order{}, false
	}
	return order, true
}

func loadOrderItems(ctx context.Context, itemIDs []string) ([]models.CartItem, error) {
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
