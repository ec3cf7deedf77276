package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"everfresh/db"
	"everfresh/models"
	"everfresh/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrVoucherInvalid = errors.New("voucher is not usable")
)

// PlaceInput carries everything needed to turn a cart into an order.
// Payment callbacks and the COD checkout both go through PlaceOrder so
// totals and side effects cannot drift between payment methods.
type PlaceInput struct {
	CustomerID       string
	CartID           string
	PaymentMethod    string
	VoucherID        string
	DeliveryMethodID string
	DeliveryInfoID   string
	// DecrementVoucher is set on settled payments: the voucher was
	// reserved when the payment session started.
	DecrementVoucher bool
	// Receipt, when set, is inserted in the same transaction as the
	// order. Payment callbacks pass it so a crash can never leave an
	// order without its idempotency record.
	Receipt *models.PaymentReceipt
}

// VoucherUsable reports whether a voucher can be spent right now:
// valid status, stock left, inside its window.
func VoucherUsable(v *models.Voucher, now time.Time) bool {
	return v.Status == models.VoucherValid &&
		v.Quantity > 0 &&
		!now.Before(v.StartDay) && !now.After(v.EndDay)
}

// ComputeTotal applies the voucher discount to the cart total, then
// adds the delivery fee. The discount never pushes goods below zero.
func ComputeTotal(cartTotal float64, voucher *models.Voucher, deliveryPrice float64) float64 {
	goods := cartTotal
	if voucher != nil {
		if voucher.IsPercent {
			goods -= cartTotal * voucher.VoucherDiscount / 100
		} else {
			goods -= voucher.VoucherDiscount
		}
		if goods < 0 {
			goods = 0
		}
	}
	return goods + deliveryPrice
}

// PlaceOrder validates the checkout inputs, computes the total and, in
// one transaction, inserts the order, empties the cart and spends the
// voucher.
func PlaceOrder(ctx context.Context, input PlaceInput) (models.Order, error) {
	var cart models.Cart
	err := db.CartsCollection.FindOne(ctx, bson.M{
		"cart_id": input.CartID,
		"user_id": input.CustomerID,
	}).Decode(&cart)
	if err != nil {
		return models.Order{}, fmt.Errorf("cart lookup: %w", err)
	}
	if len(cart.ListCartItemID) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	var method models.DeliveryMethod
	err = db.DeliveryMethodsCollection.FindOne(ctx,
		bson.M{"delivery_method_id": input.DeliveryMethodID}).Decode(&method)
	if err != nil {
		return models.Order{}, fmt.Errorf("delivery method lookup: %w", err)
	}

	info, err := resolveDeliveryInfo(ctx, input.CustomerID, input.DeliveryInfoID)
	if err != nil {
		return models.Order{}, err
	}

	var voucher *models.Voucher
	if input.VoucherID != "" {
		voucher = &models.Voucher{}
		err = db.VouchersCollection.FindOne(ctx,
			bson.M{"voucher_id": input.VoucherID}).Decode(voucher)
		if err != nil {
			return models.Order{}, fmt.Errorf("voucher lookup: %w", err)
		}
		if !VoucherUsable(voucher, time.Now()) {
			return models.Order{}, ErrVoucherInvalid
		}
	}

	now := time.Now()
	order := models.Order{
		OrderID:       "o" + utils.GenerateRandomString(12),
		OrderCode:     utils.GenerateRandomDigitString(10),
		CustomerID:    input.CustomerID,
		PaymentMethod: input.PaymentMethod,
		VoucherID:     input.VoucherID,
		DeliveryMethod: models.DeliveryMethodSnapshot{
			DeliveryMethodName: method.DeliveryMethodName,
			Price:              method.Price,
		},
		DeliveryInformation: models.DeliveryInfoSnapshot{
			PhoneNumber:   info.PhoneNumber,
			Address:       info.Address,
			AddressDetail: info.AddressDetail,
		},
		ListCartItemID: cart.ListCartItemID,
		TotalPrice:     ComputeTotal(cart.TotalPrice, voucher, method.Price),
		Status:         models.OrderConfirmed,
		TrackingStatusDates: []models.TrackingStatusDate{
			{Key: models.OrderConfirmed, Date: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	session, err := db.Client.StartSession()
	if err != nil {
		return models.Order{}, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.OrdersCollection.InsertOne(sc, order); err != nil {
			return nil, err
		}
		// The cart items move to the order; the cart starts over.
		_, err := db.CartsCollection.UpdateOne(sc,
			bson.M{"cart_id": cart.CartID},
			bson.M{"$set": bson.M{
				"list_cart_item_id": []string{},
				"total_price":       0,
				"updated_at":        now,
			}},
		)
		if err != nil {
			return nil, err
		}

		if voucher != nil && input.DecrementVoucher {
			update := bson.M{"$inc": bson.M{"quantity": -1}}
			if voucher.Quantity == 1 {
				update["$set"] = bson.M{"status": models.VoucherInvalid}
			}
			_, err = db.VouchersCollection.UpdateOne(sc,
				bson.M{"voucher_id": voucher.VoucherID}, update)
			if err != nil {
				return nil, err
			}
		}

		if input.Receipt != nil {
			input.Receipt.OrderID = order.OrderID
			if _, err := db.PaymentReceiptsCollection.InsertOne(sc, input.Receipt); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return models.Order{}, err
	}

	return order, nil
}

// resolveDeliveryInfo returns the requested address or, when no ID is
// given, the customer's default one.
func resolveDeliveryInfo(ctx context.Context, customerID, infoID string) (models.DeliveryInformation, error) {
	filter := bson.M{"user_id": customerID}
	if infoID != "" {
		filter["delivery_information_id"] = infoID
	} else {
		filter["is_default"] = true
	}

	var info models.DeliveryInformation
	err := db.DeliveryInfoCollection.FindOne(ctx, filter).Decode(&info)
	if err != nil {
		return models.DeliveryInformation{}, fmt.Errorf("delivery information lookup: %w", err)
	}
	return info, nil
}
