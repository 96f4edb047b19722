package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

// adjustStock is the single mutation point for Product.stock. Negative
// deltas are guarded by a conditional filter so the decrement and the
// availability check happen in one storage operation; a read-then-write
// pair would leave a race window between two competing checkouts.
func adjustStock(ctx context.Context, db *mongo.Database, productID primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": productID}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}

	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	res, err := db.Collection("products").UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// The guard failed: report whether the product is gone or short.
	var product models.Product
	err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return productNotFoundError{ProductID: productID.Hex()}
	}
	if err != nil {
		return err
	}

	return insufficientStockError{
		ProductID: productID.Hex(),
		Available: product.Stock,
		Requested: -delta,
	}
}

// findProductByRef is the boundary adapter for legacy product lookups: it
// accepts either a hex ObjectID or the numeric catalog id as a string.
// Business logic everywhere else works with the canonical ObjectID.
func findProductByRef(ctx context.Context, db *mongo.Database, ref string) (models.Product, error) {
	ref = strings.TrimSpace(ref)

	var product models.Product
	if objectID, err := primitive.ObjectIDFromHex(ref); err == nil {
		err := db.Collection("products").FindOne(ctx, bson.M{"_id": objectID}).Decode(&product)
		if err == nil {
			return product, nil
		}
		if err != mongo.ErrNoDocuments {
			return models.Product{}, err
		}
	}

	numericID, err := strconv.Atoi(ref)
	if err != nil {
		return models.Product{}, productNotFoundError{ProductID: ref}
	}

	err = db.Collection("products").FindOne(ctx, bson.M{"id": numericID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, productNotFoundError{ProductID: ref}
	}
	if err != nil {
		return models.Product{}, err
	}

	return product, nil
}
