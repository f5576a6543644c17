package router

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/checkout"
	"github.com/threadline/shopapi/pkg/models"
	"github.com/threadline/shopapi/pkg/mongo"
	"github.com/threadline/shopapi/pkg/payment"
	"github.com/threadline/shopapi/pkg/redis"
)

var Router *gin.Engine

// workflow is the order placement orchestrator shared by the checkout
// handlers, wired against the mongo and redis stores.
var workflow *checkout.Workflow

func InitEngine() {
	Router = gin.Default()
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// mongo-backed adapters for the checkout workflow interfaces.

type mongoProducts struct{}

func (mongoProducts) GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	return mongo.GetProductByID(ctx, id)
}

type mongoOrders struct{}

func (mongoOrders) InsertOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return mongo.InsertOrder(ctx, order)
}

type mongoSettings struct{}

func (mongoSettings) GetSettings(ctx context.Context) (*models.Settings, error) {
	return mongo.GetSettings(ctx)
}

func InitializeRoutes() {
	workflow = &checkout.Workflow{
		Products:  mongoProducts{},
		Orders:    mongoOrders{},
		Carts:     redis.CartStore{},
		Settings:  mongoSettings{},
		Providers: payment.NewRegistryFromEnv(),
	}

	api := Router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", Register)
			authRoutes.POST("/login", Login)
			authRoutes.GET("/profile", AuthMiddleware(), GetProfile)
			authRoutes.PUT("/profile", AuthMiddleware(), UpdateProfile)
		}

		products := api.Group("/products")
		{
			products.GET("/", GetAllProducts)
			products.GET("/:id", GetProductByID)
			products.GET("/slug/:slug", GetProductBySlug)
		}

		api.GET("/categories", GetAllCategories)

		cart := api.Group("/cart")
		{
			cart.GET("/:sessionId", GetCart)
			cart.POST("/:sessionId/items", AddToCart)
			cart.PUT("/:sessionId/items/:lineKey", UpdateCartItem)
			cart.DELETE("/:sessionId/items/:lineKey", RemoveFromCart)
			cart.DELETE("/:sessionId/clear", ClearCart)
		}

		wishlist := api.Group("/wishlist")
		{
			wishlist.GET("/:sessionId", GetWishlist)
			wishlist.POST("/:sessionId/toggle", ToggleWishlist)
		}

		paymentRoutes := api.Group("/payment")
		paymentRoutes.Use(AuthMiddleware())
		{
			paymentRoutes.POST("/:provider/create-order", CreatePaymentOrder)
			paymentRoutes.POST("/:provider/verify", VerifyPayment)
			// cod has no provider round-trip; the single segment places
			// the order directly
			paymentRoutes.POST("/:provider", PlaceCODOrder)
		}

		orders := api.Group("/orders")
		orders.Use(AuthMiddleware())
		{
			orders.GET("/", GetMyOrders)
			orders.GET("/:orderId", GetMyOrderByID)
		}

		admin := api.Group("/admin")
		admin.Use(AuthMiddleware(), AdminMiddleware())
		{
			admin.POST("/products", AdminCreateProduct)
			admin.PUT("/products/:id", AdminUpdateProduct)
			admin.DELETE("/products/:id", AdminDeleteProduct)

			admin.POST("/categories", AdminCreateCategory)
			admin.PUT("/categories/:id", AdminUpdateCategory)
			admin.DELETE("/categories/:id", AdminDeleteCategory)

			admin.GET("/orders", AdminListOrders)
			admin.PUT("/orders/:id/status", AdminUpdateOrderStatus)

			admin.GET("/users", AdminListUsers)
			admin.PUT("/users/:id/role", AdminUpdateUserRole)

			admin.GET("/settings", AdminGetSettings)
			admin.PUT("/settings", AdminUpdateSettings)

			admin.GET("/dashboard", AdminDashboard)
			admin.GET("/dashboard/sales-report", AdminSalesReport)
		}
	}
}
