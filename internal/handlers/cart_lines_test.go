package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestMergeLineCombinesSameProductAndSize(t *testing.T) {
	productID := primitive.NewObjectID()

	items := mergeLine(nil, models.CartItem{ProductID: productID, Size: "M", Quantity: 2, Price: 15})
	items = mergeLine(items, models.CartItem{ProductID: productID, Size: "M", Quantity: 3, Price: 20})

	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
	if items[0].Price != 15 {
		t.Fatalf("expected original snapshot price 15, got %v", items[0].Price)
	}
}

func TestMergeLineMatchesSingleAdd(t *testing.T) {
	productID := primitive.NewObjectID()

	split := mergeLine(nil, models.CartItem{ProductID: productID, Size: "L", Quantity: 2, Price: 10})
	split = mergeLine(split, models.CartItem{ProductID: productID, Size: "L", Quantity: 3, Price: 10})

	once := mergeLine(nil, models.CartItem{ProductID: productID, Size: "L", Quantity: 5, Price: 10})

	if len(split) != len(once) || split[0] != once[0] {
		t.Fatalf("adding 2 then 3 should equal adding 5 once: %+v vs %+v", split, once)
	}
}

func TestMergeLineKeepsDifferentSizesSeparate(t *testing.T) {
	productID := primitive.NewObjectID()

	items := mergeLine(nil, models.CartItem{ProductID: productID, Size: "S", Quantity: 1, Price: 10})
	items = mergeLine(items, models.CartItem{ProductID: productID, Size: "XL", Quantity: 1, Price: 10})

	if len(items) != 2 {
		t.Fatalf("expected two lines for two sizes, got %d", len(items))
	}
}

func TestReplaceLineQuantityMissingLine(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{{ProductID: productID, Size: "M", Quantity: 1, Price: 10}}

	_, found := replaceLineQuantity(items, productID, "L", 3)
	if found {
		t.Fatal("expected no match for a different size")
	}

	updated, found := replaceLineQuantity(items, productID, "M", 3)
	if !found {
		t.Fatal("expected match for existing line")
	}
	if updated[0].Quantity != 3 {
		t.Fatalf("expected quantity replaced to 3, got %d", updated[0].Quantity)
	}
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	productID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Size: "M", Quantity: 1, Price: 10},
		{ProductID: other, Size: "M", Quantity: 2, Price: 12},
	}

	items = removeLine(items, productID, "M")
	if len(items) != 1 || items[0].ProductID != other {
		t.Fatalf("expected only other product left, got %+v", items)
	}

	items = removeLine(items, productID, "M")
	if len(items) != 1 {
		t.Fatalf("removing an absent line should be a no-op, got %+v", items)
	}
}

func TestRemoveLineUnknownProductKeepsCart(t *testing.T) {
	items := []models.CartItem{
		{ProductID: primitive.NewObjectID(), Size: "M", Quantity: 1, Price: 10},
		{ProductID: primitive.NewObjectID(), Size: "L", Quantity: 2, Price: 12},
	}

	got := removeLine(items, primitive.NewObjectID(), "M")
	if len(got) != 2 {
		t.Fatalf("removing a product not in the cart must keep every line, got %+v", got)
	}
}

func TestComputeCartTotalUsesLivePrices(t *testing.T) {
	productA := primitive.NewObjectID()
	productB := primitive.NewObjectID()

	items := []models.CartItem{
		{ProductID: productA, Size: "M", Quantity: 2, Price: 10}, // snapshot 10, live 12
		{ProductID: productB, Size: "L", Quantity: 1, Price: 20}, // no live price
	}
	prices := map[primitive.ObjectID]float64{productA: 12}

	got := computeCartTotal(items, prices)
	want := 2*12.0 + 1*20.0
	if got != want {
		t.Fatalf("expected total %v, got %v", want, got)
	}
}

func TestLineQuantityForAbsentLine(t *testing.T) {
	if q := lineQuantity(nil, primitive.NewObjectID(), "M"); q != 0 {
		t.Fatalf("expected 0 for empty cart, got %d", q)
	}
}
