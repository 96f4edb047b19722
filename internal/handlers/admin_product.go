package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

/* =======================
   REQUEST DTOs
======================= */

type ProductCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Image       string   `json:"image" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	NewPrice    float64  `json:"new_price"`
	OldPrice    float64  `json:"old_price"`
	Stock       int      `json:"stock"`
	Sizes       []string `json:"sizes"`
}

type ProductUpdateRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Category    *string   `json:"category"`
	NewPrice    *float64  `json:"new_price"`
	OldPrice    *float64  `json:"old_price"`
	Sizes       *[]string `json:"sizes"`
}

type RestockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

/*
POST /admin/api/products
- numeric id = max existing id + 1, silinen idler tekrar kullanılmaz
*/
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, route)

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := validateProductFields(req.Name, req.Category, req.NewPrice, req.OldPrice, req.Stock, req.Sizes); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		nextID, err := nextProductID(ctx, db)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		now := time.Now()
		product := models.Product{
			ProductID:   nextID,
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Image:       strings.TrimSpace(req.Image),
			Category:    req.Category,
			NewPrice:    req.NewPrice,
			OldPrice:    req.OldPrice,
			Stock:       req.Stock,
			Popularity:  0,
			Sizes:       normalizeSizes(req.Sizes),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Printf("[%s] insert failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
			log.Printf("[%s] created product id=%d _id=%s", route, product.ProductID, id.Hex())
		}

		product.InStock = product.Stock > 0
		c.JSON(http.StatusCreated, product)
	}
}

/*
PUT /admin/api/products/:id
- partial update by numeric catalog id
*/
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id"
		defer handlePanic(c, route)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		set, err := buildProductUpdate(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		after := options.After
		var product models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(after),
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "code": "product_not_found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product.InStock = product.Stock > 0
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

/*
DELETE /admin/api/products/:id
- mevcut siparişlere cascade YOK, order items soft referans tutar
*/
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
		defer handlePanic(c, route)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("products").DeleteOne(ctx, bson.M{"id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "code": "product_not_found"})
			return
		}

		log.Printf("[%s] deleted product id=%d", route, id)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

/*
POST /admin/api/products/:id/restock
- signed delta through the one stock mutation point
*/
func RestockProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products/:id/restock"
		defer handlePanic(c, route)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req RestockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"id": id}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "code": "product_not_found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := adjustStock(ctx, db, product.ID, req.Delta); err != nil {
			if respondTypedError(c, route, err) {
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		err = db.Collection("products").FindOne(ctx, bson.M{"id": id}).Decode(&product)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] product id=%d stock adjusted by %d, now %d", route, id, req.Delta, product.Stock)
		product.InStock = product.Stock > 0
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

/*
GET /admin/api/products
- stok durumuna bakmadan tüm ürünler
*/
func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().
			SetSort(bson.D{{Key: "id", Value: 1}})

		cursor, err := db.Collection("products").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

// buildProductUpdate translates a partial update request into a $set
// document. Stock is not an updatable field here: stock only moves through
// adjustStock (the restock endpoint), so an admin edit can never overwrite
// a concurrent checkout's decrement with a stale value.
func buildProductUpdate(req ProductUpdateRequest) (bson.M, error) {
	set := bson.M{"updatedAt": time.Now()}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		set["name"] = name
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Image != nil {
		set["image"] = strings.TrimSpace(*req.Image)
	}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			return nil, fmt.Errorf("invalid category, must be one of: primary, secondary, sixth")
		}
		set["category"] = *req.Category
	}
	if req.NewPrice != nil {
		if *req.NewPrice < 0 {
			return nil, fmt.Errorf("new_price must not be negative")
		}
		set["new_price"] = *req.NewPrice
	}
	if req.OldPrice != nil {
		if *req.OldPrice < 0 {
			return nil, fmt.Errorf("old_price must not be negative")
		}
		set["old_price"] = *req.OldPrice
	}
	if req.Sizes != nil {
		sizes := normalizeSizes(*req.Sizes)
		for _, size := range sizes {
			if !models.ValidSize(size) {
				return nil, fmt.Errorf("invalid size: %s", size)
			}
		}
		set["sizes"] = sizes
	}

	return set, nil
}

// nextProductID assigns max(existing id)+1.
func nextProductID(ctx context.Context, db *mongo.Database) (int, error) {
	var last models.Product
	err := db.Collection("products").FindOne(
		ctx,
		bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}}),
	).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.ProductID + 1, nil
}
