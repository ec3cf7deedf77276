package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"everfresh/db"
	"everfresh/models"
	"everfresh/orders"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// MoMo sandbox defaults; overridden by environment.
func momoConfig() (endpoint, partnerCode, accessKey, secretKey, redirectURL, ipnURL string) {
	endpoint = getenv("MOMO_API_URL", "https://test-payment.momo.vn/v2/gateway/api/create")
	partnerCode = os.Getenv("MOMO_PARTNER_CODE")
	accessKey = os.Getenv("MOMO_ACCESS_KEY")
	secretKey = os.Getenv("MOMO_SECRET_KEY")
	redirectURL = os.Getenv("RETURN_MOMO_PAYMENT_URL")
	ipnURL = getenv("MOMO_IPN_URL", redirectURL)
	return
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// momoSignature signs the request fields in MoMo's fixed alphabetical
// order with HMAC-SHA256 over the secret key.
func momoSignature(secretKey, accessKey, amount, extraData, ipnURL, orderID, orderInfo, partnerCode, redirectURL, requestID, requestType string) string {
	raw := "accessKey=" + accessKey +
		"&amount=" + amount +
		"&extraData=" + extraData +
		"&ipnUrl=" + ipnURL +
		"&orderId=" + orderID +
		"&orderInfo=" + orderInfo +
		"&partnerCode=" + partnerCode +
		"&redirectUrl=" + redirectURL +
		"&requestId=" + requestID +
		"&requestType=" + requestType

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	Amount      string `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	PayURL     string `json:"payUrl"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

type momoCheckoutInput struct {
	CartID           string `json:"cart_id"`
	VoucherID        string `json:"voucher_id"`
	DeliveryMethodID string `json:"delivery_method_id"`
	DeliveryInfoID   string `json:"delivery_information_id"`
}

// checkoutAmount is the charge MoMo sees: the stored cart total with
// the voucher applied plus the delivery fee, rounded to whole VND.
// The client never supplies an amount.
func checkoutAmount(cartTotal float64, voucher *models.Voucher, deliveryPrice float64) int64 {
	return int64(math.Round(orders.ComputeTotal(cartTotal, voucher, deliveryPrice)))
}

// premiumUpgradePrice is the fixed charge for a rank upgrade, set by
// operations, never by the client.
func premiumUpgradePrice() int64 {
	price, err := strconv.ParseInt(getenv("PREMIUM_UPGRADE_PRICE", "99000"), 10, 64)
	if err != nil || price <= 0 {
		return 99000
	}
	return price
}

// CreateMoMoPayment opens a MoMo payment session for the caller's cart
// and returns the pay URL the client should redirect to. The amount is
// recomputed from stored documents.
func CreateMoMoPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var input momoCheckoutInput
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

	var method models.DeliveryMethod
	err = db.DeliveryMethodsCollection.FindOne(ctx,
		bson.M{"delivery_method_id": input.DeliveryMethodID}).Decode(&method)
	if err != nil {
		http.Error(w, "Delivery method not found", http.StatusNotFound)
		return
	}

	var voucher *models.Voucher
	if input.VoucherID != "" {
		voucher = &models.Voucher{}
		err = db.VouchersCollection.FindOne(ctx,
			bson.M{"voucher_id": input.VoucherID}).Decode(voucher)
		if err != nil || !orders.VoucherUsable(voucher, time.Now()) {
			http.Error(w, "Voucher is not usable", http.StatusBadRequest)
			return
		}
	}

	ref := OrderRef{
		CustomerID:       customerID,
		VoucherID:        input.VoucherID,
		DeliveryMethodID: input.DeliveryMethodID,
		DeliveryInfoID:   input.DeliveryInfoID,
		CartID:           input.CartID,
		IssuedAt:         time.Now(),
	}

	amount := checkoutAmount(cart.TotalPrice, voucher, method.Price)
	payURL, err := requestMoMoPayURL(ctx, ref, amount, "Everfresh order")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"pay_url":   payURL,
		"order_ref": ref.Encode(),
	})
}

// CreateMoMoRankUpgrade starts a premium membership payment at the
// configured price.
func CreateMoMoRankUpgrade(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	ref := OrderRef{
		CustomerID: utils.GetUserIDFromRequest(r),
		VoucherID:  RankUpgrade,
		IssuedAt:   time.Now(),
	}

	payURL, err := requestMoMoPayURL(ctx, ref, premiumUpgradePrice(), "Everfresh premium membership")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"pay_url":   payURL,
		"order_ref": ref.Encode(),
	})
}

func requestMoMoPayURL(ctx context.Context, ref OrderRef, amount int64, orderInfo string) (string, error) {
	endpoint, partnerCode, accessKey, secretKey, redirectURL, ipnURL := momoConfig()

	orderID := ref.Encode()
	requestID := utils.GetUUID()
	amountStr := fmt.Sprintf("%d", amount)
	requestType := "captureWallet"
	extraData := ""

	req := momoCreateRequest{
		PartnerCode: partnerCode,
		RequestID:   requestID,
		Amount:      amountStr,
		OrderID:     orderID,
		OrderInfo:   orderInfo,
		RedirectURL: redirectURL,
		IpnURL:      ipnURL,
		RequestType: requestType,
		ExtraData:   extraData,
		Lang:        "en",
		Signature: momoSignature(secretKey, accessKey, amountStr, extraData,
			ipnURL, orderID, orderInfo, partnerCode, redirectURL, requestID, requestType),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("momo request: %w", err)
	}
	defer resp.Body.Close()

	var out momoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("momo response: %w", err)
	}
	if out.ResultCode != 0 || out.PayURL == "" {
		return "", fmt.Errorf("momo declined: %s", out.Message)
	}
	return out.PayURL, nil
}

// GetMoMoPayQR renders a payment URL as a PNG QR code so a second
// device can scan and pay.
func GetMoMoPayQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payURL := r.URL.Query().Get("pay_url")
	if payURL == "" {
		http.Error(w, "pay_url is required", http.StatusBadRequest)
		return
	}

	png, err := qrcode.Encode(payURL, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to render QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
