package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	_ "supplyflow/api/swagger" // swagger docs
	"supplyflow/internal/database"
	"supplyflow/internal/handler"
	"supplyflow/internal/middleware"
	"supplyflow/internal/repository"
	"supplyflow/internal/service"
	"supplyflow/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRedisClient() (*redis.Client, error) {
	db, _ := strconv.Atoi(env("REDIS_DB", "0"))
	rdb := redis.NewClient(&redis.Options{
		Addr:         env("REDIS_HOST", "localhost") + ":" + env("REDIS_PORT", "6379"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// @title           SupplyFlow API
// @version         1.0
// @description     Order, purchasing and warehouse management backend for a wholesale supply company.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dsn := "postgres://" + env("DB_USER", "postgres") + ":" + env("DB_PASSWORD", "postgres") +
		"@" + env("DB_HOST", "localhost") + ":" + env("DB_PORT", "5432") +
		"/" + env("DB_NAME", "supplyflow") + "?sslmode=" + env("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	rdb, err := newRedisClient()
	if err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	uploadDir := env("UPLOAD_DIR", "uploads")
	photoStorage, err := service.NewDiskPhotoStorage(uploadDir, env("UPLOAD_BASE_URL", "/uploads"))
	if err != nil {
		log.Fatalf("Photo storage init failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cartRepo := repository.NewCartRepository(rdb)

	userService := service.NewUserService(userRepo)
	customerService := service.NewCustomerService(customerRepo, auditRepo, txManager)
	supplierService := service.NewSupplierService(supplierRepo, auditRepo, txManager)
	productService := service.NewProductService(productRepo, auditRepo, txManager)
	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, inventoryRepo, auditRepo, txManager, photoStorage, wsHub)
	receiptService := service.NewReceiptService(receiptRepo, purchaseRepo, inventoryRepo, auditRepo, txManager)
	purchaseService := service.NewPurchaseService(purchaseRepo, supplierRepo, productRepo, auditRepo, txManager, receiptService)
	inventoryService := service.NewInventoryService(inventoryRepo, auditRepo, txManager)
	wishlistService := service.NewWishlistService(wishlistRepo, customerRepo, productRepo, cartRepo, auditRepo, txManager)
	cartService := service.NewCartService(cartRepo, productRepo, purchaseService)
	invoiceService := service.NewInvoiceService(invoiceRepo, orderRepo, auditRepo, txManager)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	customerHandler := handler.NewCustomerHandler(customerService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	wishlistHandler := handler.NewWishlistHandler(wishlistService)
	cartHandler := handler.NewCartHandler(cartService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Delivery photos
	router.Static("/uploads", uploadDir)

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	customerHandler.RegisterRoutes(router.Group(""))
	supplierHandler.RegisterRoutes(router.Group(""))
	productHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	purchaseHandler.RegisterRoutes(router.Group(""))
	receiptHandler.RegisterRoutes(router.Group(""))
	inventoryHandler.RegisterRoutes(router.Group(""))
	wishlistHandler.RegisterRoutes(router.Group(""))
	cartHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	analyticsHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := env("PORT", "8080")
	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
