package cart

import (
	"testing"

	"everfresh/models"
)

func TestCartTotal(t *testing.T) {
	items := []models.CartItem{
		{ItemTotalPrice: 150000},
		{ItemTotalPrice: 90000},
		{ItemTotalPrice: 35000},
	}
	if got := CartTotal(items); got != 275000 {
		t.Errorf("CartTotal() = %v, want 275000", got)
	}
	if got := CartTotal(nil); got != 0 {
		t.Errorf("CartTotal(nil) = %v, want 0", got)
	}
}

func TestSameLine(t *testing.T) {
	item := models.CartItem{
		ProductID:   "pl123",
		ProductType: models.ProductTypePlanter,
		CustomColor: "terracotta",
	}

	if !SameLine(item, "pl123", models.ProductTypePlanter, "terracotta") {
		t.Error("expected identical product and color to match")
	}
	if SameLine(item, "pl123", models.ProductTypePlanter, "white") {
		t.Error("different custom color must open a new line")
	}
	if SameLine(item, "pl999", models.ProductTypePlanter, "terracotta") {
		t.Error("different product must open a new line")
	}
}

func TestMergeSuggestions(t *testing.T) {
	snap := func(id string) models.ProductSnapshot {
		return models.ProductSnapshot{ProductID: id, ProductType: models.ProductTypePlant}
	}

	related := []models.ProductSnapshot{snap("a"), snap("b"), snap("a")}
	fallback := []models.ProductSnapshot{snap("b"), snap("c"), snap("d"), snap("e"), snap("f"), snap("g")}
	inCart := map[string]bool{"c": true}

	got := MergeSuggestions(related, fallback, inCart, 6)

	if len(got) != 6 {
		t.Fatalf("expected 6 suggestions, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, s := range got {
		if inCart[s.ProductID] {
			t.Errorf("suggestion %s is already in the cart", s.ProductID)
		}
		if seen[s.ProductID] {
			t.Errorf("duplicate suggestion %s", s.ProductID)
		}
		seen[s.ProductID] = true
	}
	if got[0].ProductID != "a" || got[1].ProductID != "b" {
		t.Errorf("related products should come first, got %s, %s", got[0].ProductID, got[1].ProductID)
	}
}

func TestMergeSuggestionsHonorsSlotLimit(t *testing.T) {
	var fallback []models.ProductSnapshot
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		fallback = append(fallback, models.ProductSnapshot{ProductID: id})
	}
	got := MergeSuggestions(nil, fallback, nil, 6)
	if len(got) != 6 {
		t.Errorf("expected 6 suggestions, got %d", len(got))
	}
}

func TestSuggestionType(t *testing.T) {
	if got, ok := suggestionType(""); !ok || got != models.ProductTypePlant {
		t.Errorf("empty type should default to plants, got %q ok=%v", got, ok)
	}
	for _, pt := range []string{models.ProductTypePlant, models.ProductTypePlanter, models.ProductTypeSeed} {
		if got, ok := suggestionType(pt); !ok || got != pt {
			t.Errorf("suggestionType(%q) = %q ok=%v", pt, got, ok)
		}
	}
	if _, ok := suggestionType("furniture"); ok {
		t.Error("unknown product types must be rejected")
	}
}
