package handlers

import (
	"context"
	"errors"
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
	"backend/internal/notify"
)

/* =========================
   REQUEST DTOs
========================= */

type createOrderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Size      string  `json:"size" binding:"required"`
	Price     float64 `json:"price"`
}

type createOrderCustomerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	Country   string `json:"country" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
}

type createOrderRequest struct {
	Customer      createOrderCustomerRequest `json:"customer" binding:"required"`
	Items         []createOrderItemRequest   `json:"items"`
	Total         *float64                   `json:"total"`
	PaymentMethod string                     `json:"paymentMethod"`
}

/* =========================
   CREATE ORDER
========================= */

// CreateOrder runs the checkout workflow: validate every line against live
// stock, then decrement stock and insert the order inside one transaction.
// Validation is a side-effect-free pre-pass across ALL lines, so a failure
// never leaves a partially decremented catalog.
func CreateOrder(db *mongo.Database, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		order, err := buildOrderFromRequest(req)
		if err != nil {
			if respondTypedError(c, route, err) {
				return
			}
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		order.UserID = userIDFromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var lowStockProducts []models.Product
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			// Pre-pass: fetch live products and snapshot name/price. No
			// writes happen before every line has been checked.
			productByID := make(map[primitive.ObjectID]models.Product)
			for i, item := range order.Items {
				product, ok := productByID[item.ProductID]
				if !ok {
					err := db.Collection("products").FindOne(sessCtx, bson.M{"_id": item.ProductID}).Decode(&product)
					if err == mongo.ErrNoDocuments {
						return nil, productNotFoundError{ProductID: item.ProductID.Hex()}
					}
					if err != nil {
						return nil, err
					}
					productByID[item.ProductID] = product
				}

				order.Items[i].Name = product.Name
				order.Items[i].Price = product.NewPrice
			}

			needByProduct, productOrder := aggregateNeed(order.Items)
			if err := checkStockAvailability(productOrder, needByProduct, productByID); err != nil {
				return nil, err
			}

			order.Total = computeOrderTotal(order.Items)
			if err := checkClaimedTotal(req.Total, order.Total); err != nil {
				return nil, err
			}

			// Decrement pass. adjustStock keeps the stock >= need guard, so
			// a checkout racing this transaction aborts instead of
			// overselling.
			for _, productID := range productOrder {
				need := needByProduct[productID]
				if err := adjustStock(sessCtx, db, productID, -need); err != nil {
					return nil, err
				}

				_, err := db.Collection("products").UpdateOne(
					sessCtx,
					bson.M{"_id": productID},
					bson.M{"$inc": bson.M{"popularity": 1}},
				)
				if err != nil {
					return nil, err
				}
			}

			seq, err := nextOrderSequence(sessCtx, db)
			if err != nil {
				return nil, err
			}
			order.OrderID = formatOrderID(seq)

			now := time.Now()
			order.CreatedAt = now
			order.UpdatedAt = now

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}

			lowStockProducts = lowStockProducts[:0]
			for _, productID := range productOrder {
				product := productByID[productID]
				product.Stock -= needByProduct[productID]
				if isLowStock(product.Stock) {
					lowStockProducts = append(lowStockProducts, product)
				}
			}

			return nil, nil
		})
		if err != nil {
			if respondTypedError(c, route, err) {
				return
			}
			log.Printf("[%s] transaction failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		emitOrderNotifications(notifier, order, lowStockProducts)

		if err := saveCart(ctx, db, order.UserID, []models.CartItem{}); err != nil {
			log.Printf("[%s] cart clear failed for user %s: %v", route, order.UserID, err)
		}

		log.Printf("[%s] order %s created for user %s, total %.2f", route, order.OrderID, order.UserID, order.Total)
		c.JSON(http.StatusCreated, gin.H{
			"orderId":       order.OrderID,
			"total":         order.Total,
			"status":        order.Status,
			"paymentStatus": order.PaymentStatus,
		})
	}
}

// emitOrderNotifications is fire-and-forget: the order is already
// committed, so notification failures are only logged. One low-stock alert
// per product per order, never one per unit.
func emitOrderNotifications(notifier notify.Notifier, order models.Order, lowStock []models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := notifier.OrderConfirmed(ctx, order); err != nil {
			log.Printf("[NOTIFY] [ERROR] order confirmation for %s failed: %v", order.OrderID, err)
		}
		for _, product := range lowStock {
			if err := notifier.LowStock(ctx, product); err != nil {
				log.Printf("[NOTIFY] [ERROR] low stock alert for product %d failed: %v", product.ProductID, err)
			}
		}
	}()
}

/* =========================
   READ ORDERS
========================= */

/*
GET /orders/my-orders
*/
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/my-orders"
		defer handlePanic(c, route)

		email := emailFromContext(c)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"customer.email": email}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

/*
GET /orders/:orderId
- admin her siparişi, müşteri sadece kendi siparişini görür
*/
func GetOrderByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:orderId"
		defer handlePanic(c, route)

		orderID := strings.TrimSpace(c.Param("orderId"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "code": "not_found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if roleFromContext(c) == "admin" {
			c.JSON(http.StatusOK, order)
			return
		}

		email := emailFromContext(c)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "unauthorized"})
			return
		}
		if !strings.EqualFold(email, order.Customer.Email) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "code": "forbidden"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

/* =========================
   BUILD ORDER
========================= */

func buildOrderFromRequest(req createOrderRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, emptyOrderError{}
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return models.Order{}, errors.New("invalid productId: " + item.ProductID)
		}

		if item.Quantity <= 0 {
			return models.Order{}, errors.New("quantity must be greater than zero")
		}

		size := strings.ToUpper(strings.TrimSpace(item.Size))
		if !models.ValidSize(size) {
			return models.Order{}, errors.New("invalid size: " + item.Size)
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			Size:      size,
		})
	}

	order := models.Order{
		Customer: models.OrderCustomer{
			FirstName: strings.TrimSpace(req.Customer.FirstName),
			LastName:  strings.TrimSpace(req.Customer.LastName),
			Email:     strings.ToLower(strings.TrimSpace(req.Customer.Email)),
			Phone:     strings.TrimSpace(req.Customer.Phone),
			Address:   strings.TrimSpace(req.Customer.Address),
			City:      strings.TrimSpace(req.Customer.City),
			Country:   strings.TrimSpace(req.Customer.Country),
			ZipCode:   strings.TrimSpace(req.Customer.ZipCode),
		},
		Items:         items,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: paymentMethod,
	}

	return order, nil
}

// nextOrderSequence increments the order counter atomically; two
// concurrent checkouts can never draw the same number.
func nextOrderSequence(ctx context.Context, db *mongo.Database) (int64, error) {
	after := options.After
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": "orders"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(after),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
