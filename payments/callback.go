package payments

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"everfresh/db"
	"everfresh/globals"
	"everfresh/models"
	"everfresh/notifications"
	"everfresh/orders"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// settlement is what a successful callback produced.
type settlement struct {
	Replayed    bool          `json:"replayed"`
	RankUpgrade bool          `json:"rank_upgrade,omitempty"`
	Order       *models.Order `json:"order,omitempty"`
}

// settle turns a confirmed provider payment into its effect exactly
// once. Replays of the same transaction return the first outcome.
func settle(ctx context.Context, provider, transactionID, refString string) (settlement, error) {
	if prior, ok, err := findReceipt(ctx, provider, transactionID); err != nil {
		return settlement{}, err
	} else if ok {
		return replayOutcome(ctx, prior)
	}

	ref, err := ParseOrderRef(refString)
	if err != nil {
		return settlement{}, err
	}

	if ref.IsRankUpgrade() {
		return settleRankUpgrade(ctx, provider, transactionID, refString, ref)
	}

	// The receipt rides inside PlaceOrder's transaction: the order and
	// its idempotency record commit together or not at all.
	receipt := newReceipt(provider, transactionID, refString)
	order, err := orders.PlaceOrder(ctx, orders.PlaceInput{
		CustomerID:       ref.CustomerID,
		CartID:           ref.CartID,
		PaymentMethod:    provider,
		VoucherID:        ref.VoucherID,
		DeliveryMethodID: ref.DeliveryMethodID,
		DeliveryInfoID:   ref.DeliveryInfoID,
		DecrementVoucher: true,
		Receipt:          &receipt,
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			// A concurrent callback won the race; its order stands.
			if prior, ok, lookupErr := findReceipt(ctx, provider, transactionID); lookupErr == nil && ok {
				return replayOutcome(ctx, prior)
			}
		}
		return settlement{}, err
	}

	notifications.Notify(ctx, ref.CustomerID,
		"Your order "+order.OrderCode+" has been confirmed", models.NotifyPurchasingOrder)

	return settlement{Order: &order}, nil
}

func settleRankUpgrade(ctx context.Context, provider, transactionID, refString string, ref OrderRef) (settlement, error) {
	receipt := newReceipt(provider, transactionID, refString)

	session, err := db.Client.StartSession()
	if err != nil {
		return settlement{}, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		_, err := db.UserCollection.UpdateOne(sc,
			bson.M{"user_id": ref.CustomerID},
			bson.M{"$set": bson.M{"rank": globals.RankPremium, "updated_at": time.Now()}},
		)
		if err != nil {
			return nil, err
		}
		if _, err := db.PaymentReceiptsCollection.InsertOne(sc, receipt); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			if prior, ok, lookupErr := findReceipt(ctx, provider, transactionID); lookupErr == nil && ok {
				return replayOutcome(ctx, prior)
			}
		}
		return settlement{}, err
	}

	return settlement{RankUpgrade: true}, nil
}

// settlementFromReceipt reproduces the outcome a receipt recorded, so a
// replayed callback answers with the original result instead of placing
// a second order.
func settlementFromReceipt(receipt models.PaymentReceipt, order *models.Order) settlement {
	if receipt.OrderID == "" {
		return settlement{Replayed: true, RankUpgrade: true}
	}
	return settlement{Replayed: true, Order: order}
}

func replayOutcome(ctx context.Context, receipt models.PaymentReceipt) (settlement, error) {
	if receipt.OrderID == "" {
		return settlementFromReceipt(receipt, nil), nil
	}
	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"order_id": receipt.OrderID}).Decode(&order)
	if err != nil {
		return settlement{}, err
	}
	return settlementFromReceipt(receipt, &order), nil
}

// MoMoCallback handles MoMo's redirect and IPN. resultCode 0 means the
// customer paid.
func MoMoCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	q := r.URL.Query()
	if q.Get("resultCode") != "0" {
		http.Error(w, "Payment was not completed", http.StatusPaymentRequired)
		return
	}
	refString := q.Get("orderId")
	transactionID := q.Get("transId")
	if refString == "" || transactionID == "" {
		http.Error(w, "orderId and transId are required", http.StatusBadRequest)
		return
	}

	result, err := settle(ctx, models.PaymentMoMo, transactionID, refString)
	if err != nil {
		respondSettleError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func respondSettleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrEmptyCart):
		http.Error(w, "Cart is empty", http.StatusBadRequest)
	case errors.Is(err, orders.ErrVoucherInvalid):
		http.Error(w, "Voucher is not usable", http.StatusBadRequest)
	default:
		log.Println("payment settle error:", err)
		http.Error(w, "Could not settle payment", http.StatusInternalServerError)
	}
}
