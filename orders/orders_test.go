package orders

import (
	"testing"
	"time"

	"everfresh/models"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		current string
		want    string
		wantErr bool
	}{
		{models.OrderConfirmed, models.OrderShipped, false},
		{models.OrderShipped, models.OrderOutOfDelivery, false},
		{models.OrderOutOfDelivery, models.OrderDelivered, false},
		{models.OrderDelivered, "", true},
		{models.OrderFailedDelivery, "", true},
		{"Pending", "", true},
	}

	for _, tt := range tests {
		got, err := NextStatus(tt.current)
		if (err != nil) != tt.wantErr {
			t.Errorf("NextStatus(%q) error = %v, wantErr %v", tt.current, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NextStatus(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestCanFailDelivery(t *testing.T) {
	if !CanFailDelivery(models.OrderOutOfDelivery) {
		t.Error("out-for-delivery order should be able to fail")
	}
	for _, status := range []string{
		models.OrderConfirmed,
		models.OrderShipped,
		models.OrderDelivered,
		models.OrderFailedDelivery,
	} {
		if CanFailDelivery(status) {
			t.Errorf("order in %q must not be able to fail delivery", status)
		}
	}
}

func TestComputeTotal(t *testing.T) {
	now := time.Now()
	percent := &models.Voucher{
		IsPercent:       true,
		VoucherDiscount: 10,
		StartDay:        now.Add(-time.Hour),
		EndDay:          now.Add(time.Hour),
	}
	fixed := &models.Voucher{
		IsPercent:       false,
		VoucherDiscount: 50000,
	}
	huge := &models.Voucher{
		IsPercent:       false,
		VoucherDiscount: 1000000,
	}

	tests := []struct {
		name          string
		cartTotal     float64
		voucher       *models.Voucher
		deliveryPrice float64
		want          float64
	}{
		{"no voucher", 200000, nil, 30000, 230000},
		{"percent voucher", 200000, percent, 30000, 210000},
		{"fixed voucher", 200000, fixed, 30000, 180000},
		{"discount larger than goods", 200000, huge, 30000, 30000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(tt.cartTotal, tt.voucher, tt.deliveryPrice)
			if got != tt.want {
				t.Errorf("ComputeTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotificationTypeFor(t *testing.T) {
	if got := notificationTypeFor(models.OrderShipped); got != models.NotifyShipped {
		t.Errorf("shipped -> %q", got)
	}
	if got := notificationTypeFor(models.OrderOutOfDelivery); got != models.NotifyOutForDelivery {
		t.Errorf("out of delivery -> %q", got)
	}
	if got := notificationTypeFor(models.OrderDelivered); got != models.NotifyDelivered {
		t.Errorf("delivered -> %q", got)
	}
	if got := notificationTypeFor(models.OrderConfirmed); got != "" {
		t.Errorf("confirmed should not map to a notification, got %q", got)
	}
}

func TestVoucherUsable(t *testing.T) {
	now := time.Now()
	base := models.Voucher{
		Status:   models.VoucherValid,
		Quantity: 3,
		StartDay: now.Add(-time.Hour),
		EndDay:   now.Add(time.Hour),
	}

	if !VoucherUsable(&base, now) {
		t.Error("a valid in-window voucher with stock should be usable")
	}

	invalid := base
	invalid.Status = models.VoucherInvalid
	if VoucherUsable(&invalid, now) {
		t.Error("an invalidated voucher must not be usable")
	}

	spent := base
	spent.Quantity = 0
	if VoucherUsable(&spent, now) {
		t.Error("a spent voucher must not be usable")
	}

	early := base
	early.StartDay = now.Add(time.Minute)
	if VoucherUsable(&early, now) {
		t.Error("a voucher before its window must not be usable")
	}

	late := base
	late.EndDay = now.Add(-time.Minute)
	if VoucherUsable(&late, now) {
		t.Error("an expired voucher must not be usable")
	}
}
