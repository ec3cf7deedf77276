package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"everfresh/db"
	"everfresh/models"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/coupon"
	"go.mongodb.org/mongo-driver/bson"
)

func init() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

type stripeCheckoutInput struct {
	CartID           string `json:"cart_id"`
	VoucherID        string `json:"voucher_id"`
	DeliveryMethodID string `json:"delivery_method_id"`
	DeliveryInfoID   string `json:"delivery_information_id"`
}

// CreateStripeCheckout builds a Stripe Checkout session from the cart
// contents and returns the hosted payment page URL.
func CreateStripeCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var input stripeCheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.CartID == "" || input.DeliveryMethodID == "" {
		http.Error(w, "cart_id and delivery_method_id are required", http.StatusBadRequest)
		return
	}

	customerID := utils.GetUserIDFromRequest(r)

	var cart models.Cart
	err := db.CartsCollection.FindOne(ctx, bson.M{
		"cart_id": input.CartID,
		"user_id": customerID,
	}).Decode(&cart)
	if err != nil {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}
	if len(cart.ListCartItemID) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	cursor, err := db.CartItemsCollection.Find(ctx,
		bson.M{"cart_item_id": bson.M{"$in": cart.ListCartItemID}})
	if err != nil {
		http.Error(w, "Could not retrieve cart items", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		http.Error(w, "Error reading cart items", http.StatusInternalServerError)
		return
	}

	var method models.DeliveryMethod
	err = db.DeliveryMethodsCollection.FindOne(ctx,
		bson.M{"delivery_method_id": input.DeliveryMethodID}).Decode(&method)
	if err != nil {
		http.Error(w, "Delivery method not found", http.StatusNotFound)
		return
	}

	ref := OrderRef{
		CustomerID:       customerID,
		VoucherID:        input.VoucherID,
		DeliveryMethodID: input.DeliveryMethodID,
		DeliveryInfoID:   input.DeliveryInfoID,
		CartID:           input.CartID,
		IssuedAt:         time.Now(),
	}

	baseURL := getenv("CLIENT_URL", "http://localhost:3000")
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(baseURL + "/payment/stripe/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(baseURL + "/payment/stripe/cancel"),
		ClientReferenceID: stripe.String(ref.Encode()),
	}

	for _, item := range items {
		name := item.Product.Name
		if item.CustomColor != "" {
			name += " (" + item.CustomColor + ")"
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("vnd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
				// VND is a zero-decimal currency on Stripe.
				UnitAmount: stripe.Int64(int64(item.Product.Price)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String("vnd"),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String("Delivery: " + method.DeliveryMethodName),
			},
			UnitAmount: stripe.Int64(int64(method.Price)),
		},
		Quantity: stripe.Int64(1),
	})

	if input.VoucherID != "" {
		couponID, err := stripeCouponFor(ctx, input.VoucherID)
		if err != nil {
			http.Error(w, "Voucher is not usable", http.StatusBadRequest)
			return
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{{Coupon: stripe.String(couponID)}}
	}

	s, err := session.New(params)
	if err != nil {
		http.Error(w, "Could not create checkout session", http.StatusBadGateway)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"checkout_url": s.URL,
		"session_id":   s.ID,
		"order_ref":    ref.Encode(),
	})
}

// stripeCouponFor mirrors a voucher as a single-use Stripe coupon.
func stripeCouponFor(ctx context.Context, voucherID string) (string, error) {
	var v models.Voucher
	err := db.VouchersCollection.FindOne(ctx, bson.M{"voucher_id": voucherID}).Decode(&v)
	if err != nil {
		return "", err
	}

	params := &stripe.CouponParams{
		Duration: stripe.String(string(stripe.CouponDurationOnce)),
		Name:     stripe.String(v.VoucherName),
	}
	if v.IsPercent {
		params.PercentOff = stripe.Float64(v.VoucherDiscount)
	} else {
		params.AmountOff = stripe.Int64(int64(v.VoucherDiscount))
		params.Currency = stripe.String("vnd")
	}

	c, err := coupon.New(params)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// StripeCallback settles a checkout after the customer returns from the
// hosted payment page. The session is fetched server-side; the client
// cannot forge a paid state.
func StripeCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	s, err := session.Get(sessionID, nil)
	if err != nil {
		http.Error(w, "Checkout session not found", http.StatusNotFound)
		return
	}
	if s.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		http.Error(w, "Payment was not completed", http.StatusPaymentRequired)
		return
	}

	result, err := settle(ctx, models.PaymentStripe, s.ID, s.ClientReferenceID)
	if err != nil {
		respondSettleError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}
