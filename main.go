package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/notify"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}

	notifier := notify.NewFromConfig(config.AppEnv)

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))

	r.POST("/admin/login", handlers.AdminLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/category/:category", handlers.GetProductsByCategory(db))
	r.GET("/products/popular", handlers.GetPopularProducts(db))
	r.GET("/products/new", handlers.GetNewProducts(db))
	r.GET("/products/item/:id", handlers.GetProductByRef(db))
	r.GET("/products/:id", handlers.GetProductByID(db))

	cart := r.Group("/cart")
	cart.Use(middleware.OptionalUserAuth(config.AppEnv.JWTSecret))
	{
		cart.GET("", handlers.GetCart(db))
		cart.POST("/add", handlers.AddToCart(db))
		cart.PATCH("/update", handlers.UpdateCartItem(db))
		cart.DELETE("/remove", handlers.RemoveCartItem(db))
		cart.DELETE("/clear", handlers.ClearCart(db))
	}

	r.POST("/orders", middleware.OptionalUserAuth(config.AppEnv.JWTSecret), handlers.CreateOrder(db, notifier))
	r.GET("/orders", middleware.AdminAuth(config.AppEnv.JWTSecret), handlers.GetOrders(db))
	r.GET("/orders/my-orders", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMyOrders(db))
	r.GET("/orders/:orderId", middleware.OptionalUserAuth(config.AppEnv.JWTSecret), handlers.GetOrderByID(db))
	r.PATCH("/orders/:orderId/status", middleware.AdminAuth(config.AppEnv.JWTSecret), handlers.UpdateOrderStatus(db))
	r.PATCH("/orders/:orderId/payment", middleware.AdminAuth(config.AppEnv.JWTSecret), handlers.UpdatePaymentStatus(db))

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))
		admin.POST("/products/:id/restock", handlers.RestockProduct(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
