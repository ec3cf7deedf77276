package payments

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sentinel values inside an order reference.
const (
	// NoVoucher fills the voucher slot when none was applied; it also
	// stands in for the other slots a rank upgrade leaves empty.
	NoVoucher = "undefined"
	// RankUpgrade in the voucher slot marks a premium membership
	// purchase instead of a goods checkout.
	RankUpgrade = "premium"
)

// OrderRef identifies a pending checkout across the round trip through
// an external payment provider. It is encoded into the provider's
// order-id field and parsed back out of the callback.
type OrderRef struct {
	CustomerID       string
	VoucherID        string // NoVoucher when absent, RankUpgrade for membership purchases
	DeliveryMethodID string
	DeliveryInfoID   string
	CartID           string
	IssuedAt         time.Time
}

// Encode joins the reference fields with dashes. IDs are alphanumeric
// so the dash never appears inside a field.
func (ref OrderRef) Encode() string {
	return strings.Join([]string{
		ref.CustomerID,
		orSentinel(ref.VoucherID),
		orSentinel(ref.DeliveryMethodID),
		orSentinel(ref.DeliveryInfoID),
		orSentinel(ref.CartID),
		strconv.FormatInt(ref.IssuedAt.UnixMilli(), 10),
	}, "-")
}

func orSentinel(id string) string {
	if id == "" {
		return NoVoucher
	}
	return id
}

func fromSentinel(slot string) string {
	if slot == NoVoucher {
		return ""
	}
	return slot
}

// ParseOrderRef is the inverse of Encode.
func ParseOrderRef(s string) (OrderRef, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 6 {
		return OrderRef{}, fmt.Errorf("order ref %q: want 6 fields, got %d", s, len(parts))
	}
	millis, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return OrderRef{}, fmt.Errorf("order ref %q: bad timestamp: %w", s, err)
	}

	ref := OrderRef{
		CustomerID:       parts[0],
		VoucherID:        fromSentinel(parts[1]),
		DeliveryMethodID: fromSentinel(parts[2]),
		DeliveryInfoID:   fromSentinel(parts[3]),
		CartID:           fromSentinel(parts[4]),
		IssuedAt:         time.UnixMilli(millis),
	}
	if ref.CustomerID == "" {
		return OrderRef{}, fmt.Errorf("order ref %q: missing customer", s)
	}
	if ref.CartID == "" && !ref.IsRankUpgrade() {
		return OrderRef{}, fmt.Errorf("order ref %q: missing cart", s)
	}
	return ref, nil
}

// IsRankUpgrade reports whether the reference buys a premium rank
// rather than the contents of a cart.
func (ref OrderRef) IsRankUpgrade() bool {
	return ref.VoucherID == RankUpgrade
}
