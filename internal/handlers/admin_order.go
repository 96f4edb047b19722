package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

/*
GET /orders (admin)
*/
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, bson.M{}, findOptions)
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
PATCH /orders/:orderId/status (admin)
- geçiş tablosu SERVER tarafında doğrulanır
*/
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /orders/:orderId/status"
		defer handlePanic(c, route)

		orderID := strings.TrimSpace(c.Param("orderId"))

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidOrderStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "unknown status: "+req.Status)
			return
		}

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

		if !canTransitionOrderStatus(order.Status, req.Status) {
			respondTypedError(c, route, invalidTransitionError{From: order.Status, To: req.Status})
			return
		}
		from := order.Status

		// Conditional on the status we just read, so a racing admin write
		// cannot skip a state.
		after := options.After
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"orderId": orderID, "status": order.Status},
			bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(after),
		).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "order status changed concurrently, retry", "code": "conflict"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s: %s -> %s", route, orderID, from, req.Status)
		c.JSON(http.StatusOK, order)
	}
}

/*
PATCH /orders/:orderId/payment (admin)
- payment lifecycle, fulfillment'tan bağımsız
*/
func UpdatePaymentStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /orders/:orderId/payment"
		defer handlePanic(c, route)

		orderID := strings.TrimSpace(c.Param("orderId"))

		var req updatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidPaymentStatus(req.PaymentStatus) {
			respondWithError(c, http.StatusBadRequest, route, "unknown paymentStatus: "+req.PaymentStatus)
			return
		}

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

		if !canTransitionPaymentStatus(order.PaymentStatus, req.PaymentStatus) {
			respondTypedError(c, route, invalidTransitionError{From: order.PaymentStatus, To: req.PaymentStatus})
			return
		}
		from := order.PaymentStatus

		after := options.After
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"orderId": orderID, "paymentStatus": order.PaymentStatus},
			bson.M{"$set": bson.M{"paymentStatus": req.PaymentStatus, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(after),
		).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "payment status changed concurrently, retry", "code": "conflict"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s payment: %s -> %s", route, orderID, from, req.PaymentStatus)
		c.JSON(http.StatusOK, order)
	}
}
