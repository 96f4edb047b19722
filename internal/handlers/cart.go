package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type removeCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
}

type cartItemView struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	NewPrice  float64 `json:"new_price"`
	Stock     int     `json:"stock"`
}

/*
GET /cart
*/
func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		userID := userIDFromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		views, total, err := enrichCartItems(ctx, db, cart.Items)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": views, "total": total})
	}
}

/*
POST /cart/add
- merge-by-key: aynı (product, size) satırı çoğaltmaz, miktarı artırır
*/
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/add"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must be greater than zero")
			return
		}

		userID := userIDFromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := findProductByRef(ctx, db, req.ProductID)
		if err != nil {
			if respondTypedError(c, route, err) {
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		size := strings.ToUpper(strings.TrimSpace(req.Size))
		if !product.HasSize(size) {
			respondWithError(c, http.StatusBadRequest, route, "invalid size: "+req.Size)
			return
		}

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		existing := lineQuantity(cart.Items, product.ID, size)
		if existing+quantity > product.Stock {
			respondTypedError(c, route, insufficientStockError{
				ProductID: product.ID.Hex(),
				Available: product.Stock - existing,
				Requested: quantity,
			})
			return
		}

		cart.Items = mergeLine(cart.Items, models.CartItem{
			ProductID: product.ID,
			Size:      size,
			Quantity:  quantity,
			Price:     product.NewPrice,
		})

		if err := saveCart(ctx, db, userID, cart.Items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] user=%s product=%s size=%s qty=%d", route, userID, product.ID.Hex(), size, quantity)
		respondCartSnapshot(c, ctx, db, cart.Items)
	}
}

/*
PATCH /cart/update
- quantity REPLACE edilir, eklenmez
*/
func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /cart/update"
		defer handlePanic(c, route)

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Quantity <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must be greater than zero")
			return
		}

		userID := userIDFromContext(c)
		size := strings.ToUpper(strings.TrimSpace(req.Size))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := findProductByRef(ctx, db, req.ProductID)
		if err != nil {
			if respondTypedError(c, route, err) {
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if req.Quantity > product.Stock {
			respondTypedError(c, route, insufficientStockError{
				ProductID: product.ID.Hex(),
				Available: product.Stock,
				Requested: req.Quantity,
			})
			return
		}

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		items, found := replaceLineQuantity(cart.Items, product.ID, size, req.Quantity)
		if !found {
			respondTypedError(c, route, cartLineNotFoundError{ProductID: product.ID.Hex(), Size: size})
			return
		}

		if err := saveCart(ctx, db, userID, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondCartSnapshot(c, ctx, db, items)
	}
}

/*
DELETE /cart/remove
- idempotent: satır yoksa da 200
*/
func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/remove"
		defer handlePanic(c, route)

		var req removeCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID := userIDFromContext(c)
		size := strings.ToUpper(strings.TrimSpace(req.Size))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			product, lookupErr := findProductByRef(ctx, db, req.ProductID)
			if lookupErr != nil {
				// removing an unknown product is a no-op on the existing cart
				respondCartSnapshot(c, ctx, db, cart.Items)
				return
			}
			objectID = product.ID
		}

		items := removeLine(cart.Items, objectID, size)

		if err := saveCart(ctx, db, userID, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondCartSnapshot(c, ctx, db, items)
	}
}

/*
DELETE /cart/clear
*/
func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/clear"
		defer handlePanic(c, route)

		userID := userIDFromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := saveCart(ctx, db, userID, []models.CartItem{}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}

/* =========================
   PERSISTENCE HELPERS
========================= */

// loadCart returns the user's cart, or an empty one if it was never
// created. Carts come into existence lazily on first add.
func loadCart(ctx context.Context, db *mongo.Database, userID string) (models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

func saveCart(ctx context.Context, db *mongo.Database, userID string, items []models.CartItem) error {
	now := time.Now()
	_, err := db.Collection("carts").UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set":         bson.M{"items": items, "updatedAt": now},
			"$setOnInsert": bson.M{"userId": userID, "createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func enrichCartItems(ctx context.Context, db *mongo.Database, items []models.CartItem) ([]cartItemView, float64, error) {
	views := make([]cartItemView, 0, len(items))
	if len(items) == 0 {
		return views, 0, nil
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	productByID := make(map[primitive.ObjectID]models.Product)
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, 0, err
		}
		productByID[product.ID] = product
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	priceByProduct := make(map[primitive.ObjectID]float64, len(productByID))
	for id, product := range productByID {
		priceByProduct[id] = product.NewPrice
	}

	for _, item := range items {
		view := cartItemView{
			ProductID: item.ProductID.Hex(),
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if product, ok := productByID[item.ProductID]; ok {
			view.Name = product.Name
			view.Image = product.Image
			view.NewPrice = product.NewPrice
			view.Stock = product.Stock
		}
		views = append(views, view)
	}

	return views, computeCartTotal(items, priceByProduct), nil
}

func respondCartSnapshot(c *gin.Context, ctx context.Context, db *mongo.Database, items []models.CartItem) {
	views, total, err := enrichCartItems(ctx, db, items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": views, "total": total})
}
