package payments

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"everfresh/models"
)

func TestOrderRefRoundTrip(t *testing.T) {
	issued := time.UnixMilli(time.Now().UnixMilli())

	tests := []struct {
		name string
		ref  OrderRef
	}{
		{
			name: "with voucher",
			ref: OrderRef{
				CustomerID:       "uAb12Cd34Ef56",
				VoucherID:        "vXy98Zw76",
				DeliveryMethodID: "dmFast01",
				DeliveryInfoID:   "diHome02",
				CartID:           "cQw11Er22",
				IssuedAt:         issued,
			},
		},
		{
			name: "without voucher",
			ref: OrderRef{
				CustomerID:       "uAb12Cd34Ef56",
				DeliveryMethodID: "dmFast01",
				DeliveryInfoID:   "diHome02",
				CartID:           "cQw11Er22",
				IssuedAt:         issued,
			},
		},
		{
			name: "rank upgrade",
			ref: OrderRef{
				CustomerID: "uAb12Cd34Ef56",
				VoucherID:  RankUpgrade,
				IssuedAt:   issued,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderRef(tt.ref.Encode())
			if err != nil {
				t.Fatalf("ParseOrderRef(%q) error: %v", tt.ref.Encode(), err)
			}
			if got != tt.ref {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, tt.ref)
			}
		})
	}
}

func TestParseOrderRefRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"onlyone",
		"a-b-c-d-e",
		"a-b-c-d-e-notmillis",
		"a-b-c-d-e-f-g",
		"-undefined-dm-di-cart-1700000000000",
		"u1-undefined-dm1-di1-undefined-1700000000000",
	} {
		if _, err := ParseOrderRef(s); err == nil {
			t.Errorf("ParseOrderRef(%q) should fail", s)
		}
	}
}

func TestEncodeUsesNoVoucherSentinel(t *testing.T) {
	ref := OrderRef{
		CustomerID:       "u1",
		DeliveryMethodID: "dm1",
		DeliveryInfoID:   "di1",
		CartID:           "c1",
		IssuedAt:         time.UnixMilli(1700000000000),
	}
	want := "u1-undefined-dm1-di1-c1-1700000000000"
	if got := ref.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestIsRankUpgrade(t *testing.T) {
	ref := OrderRef{CustomerID: "u1", VoucherID: RankUpgrade}
	if !ref.IsRankUpgrade() {
		t.Error("premium sentinel in the voucher slot should mark a rank upgrade")
	}
	ref.VoucherID = "v1"
	ref.CartID = "c1"
	if ref.IsRankUpgrade() {
		t.Error("regular checkout must not be a rank upgrade")
	}
}

func TestRankUpgradeRefEncodesSentinelInVoucherSlot(t *testing.T) {
	ref := OrderRef{
		CustomerID: "u1",
		VoucherID:  RankUpgrade,
		IssuedAt:   time.UnixMilli(1700000000000),
	}
	want := "u1-premium-undefined-undefined-undefined-1700000000000"
	if got := ref.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	parsed, err := ParseOrderRef(want)
	if err != nil {
		t.Fatalf("ParseOrderRef(%q) error: %v", want, err)
	}
	if !parsed.IsRankUpgrade() {
		t.Error("parsed reference should be a rank upgrade")
	}
}

func TestMoMoSignature(t *testing.T) {
	// Deterministic check: same inputs must always produce the same
	// hex digest, and any field change must change it.
	sig := momoSignature("secret", "access", "150000", "",
		"https://shop.example/ipn", "order-1", "Everfresh order",
		"PARTNER", "https://shop.example/return", "req-1", "captureWallet")

	if len(sig) != 64 {
		t.Fatalf("signature should be 64 hex chars, got %d", len(sig))
	}
	again := momoSignature("secret", "access", "150000", "",
		"https://shop.example/ipn", "order-1", "Everfresh order",
		"PARTNER", "https://shop.example/return", "req-1", "captureWallet")
	if sig != again {
		t.Error("signature is not deterministic")
	}
	changed := momoSignature("secret", "access", "150001", "",
		"https://shop.example/ipn", "order-1", "Everfresh order",
		"PARTNER", "https://shop.example/return", "req-1", "captureWallet")
	if sig == changed {
		t.Error("amount change must change the signature")
	}
}

func TestCheckoutAmountFromStoredTotals(t *testing.T) {
	now := time.Now()
	window := func(v *models.Voucher) *models.Voucher {
		v.Status = models.VoucherValid
		v.Quantity = 5
		v.StartDay = now.Add(-time.Hour)
		v.EndDay = now.Add(time.Hour)
		return v
	}

	tests := []struct {
		name      string
		cartTotal float64
		voucher   *models.Voucher
		delivery  float64
		want      int64
	}{
		{"no voucher", 200000, nil, 30000, 230000},
		{"percent voucher", 200000, window(&models.Voucher{IsPercent: true, VoucherDiscount: 10}), 30000, 210000},
		{"fixed voucher", 200000, window(&models.Voucher{VoucherDiscount: 50000}), 30000, 180000},
		{"discount floors at delivery fee", 200000, window(&models.Voucher{VoucherDiscount: 1000000}), 30000, 30000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkoutAmount(tt.cartTotal, tt.voucher, tt.delivery); got != tt.want {
				t.Errorf("checkoutAmount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckoutInputCarriesNoAmount(t *testing.T) {
	// The charge is derived from stored documents; an amount field in
	// the request body must be ignored entirely.
	var input momoCheckoutInput
	body := `{"cart_id":"c1","delivery_method_id":"dm1","amount":1}`
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if input.CartID != "c1" || input.DeliveryMethodID != "dm1" {
		t.Errorf("decoded input = %+v", input)
	}
	round, err := json.Marshal(input)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(round), "amount") {
		t.Errorf("checkout input should have no amount field, got %s", round)
	}
}

func TestPremiumUpgradePrice(t *testing.T) {
	t.Setenv("PREMIUM_UPGRADE_PRICE", "")
	if got := premiumUpgradePrice(); got != 99000 {
		t.Errorf("default price = %d, want 99000", got)
	}
	t.Setenv("PREMIUM_UPGRADE_PRICE", "150000")
	if got := premiumUpgradePrice(); got != 150000 {
		t.Errorf("configured price = %d, want 150000", got)
	}
	t.Setenv("PREMIUM_UPGRADE_PRICE", "-5")
	if got := premiumUpgradePrice(); got != 99000 {
		t.Errorf("invalid price should fall back, got %d", got)
	}
}

func TestNewReceipt(t *testing.T) {
	receipt := newReceipt(models.PaymentMoMo, "tx123", "u1-undefined-dm1-di1-c1-1700000000000")

	if !strings.HasPrefix(receipt.ReceiptID, "rc") {
		t.Errorf("receipt id %q should carry the rc prefix", receipt.ReceiptID)
	}
	if receipt.Provider != models.PaymentMoMo || receipt.TransactionID != "tx123" {
		t.Errorf("receipt keys = %q/%q", receipt.Provider, receipt.TransactionID)
	}
	if receipt.OrderID != "" {
		t.Error("order id is filled inside the order transaction, not up front")
	}
	if got := receipt.ExpiresAt.Sub(receipt.CreatedAt); got != receiptRetention {
		t.Errorf("retention = %v, want %v", got, receiptRetention)
	}
}

func TestSettlementFromReceipt(t *testing.T) {
	order := &models.Order{OrderID: "o1", OrderCode: "1234567890"}
	got := settlementFromReceipt(models.PaymentReceipt{OrderID: "o1"}, order)
	if !got.Replayed {
		t.Error("a recorded transaction must settle as a replay")
	}
	if got.Order != order {
		t.Error("replay must return the original order, never place a second one")
	}
	if got.RankUpgrade {
		t.Error("an order receipt is not a rank upgrade")
	}

	upgrade := settlementFromReceipt(models.PaymentReceipt{}, nil)
	if !upgrade.Replayed || !upgrade.RankUpgrade {
		t.Errorf("an order-less receipt marks a replayed rank upgrade, got %+v", upgrade)
	}
	if upgrade.Order != nil {
		t.Error("rank upgrade replay carries no order")
	}
}
