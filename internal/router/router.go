package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"medmarket/internal/config"
	"medmarket/internal/middleware"
	"medmarket/internal/model"
	"medmarket/internal/service"
)

// Deps is everything the HTTP layer needs. RDB may be nil; rate limiting is
// simply skipped then.
type Deps struct {
	DB       *gorm.DB
	Payments *service.PaymentService
	Orders   *service.OrderService
	RDB      *rd.Client
	Cfg      config.AppConfig
}

// Setup registers all HTTP routes.
func Setup(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/api/products", listProducts(d.DB))

	auth := r.Group("/api", middleware.Identity())

	auth.POST("/products", createProduct(d.DB))

	payment := auth.Group("/payment")
	if d.RDB != nil {
		payment.POST("/create-order",
			middleware.RedisRateLimit(d.RDB, d.Cfg.CheckoutRateLimit, d.Cfg.CheckoutRateWindow),
			createIntent(d.Payments))
	} else {
		payment.POST("/create-order", createIntent(d.Payments))
	}
	payment.POST("/verify-payment", verifyPayment(d.Payments))
	payment.GET("/order/:orderNo", getBuyerOrder(d.Orders))

	orders := auth.Group("/orders")
	orders.GET("/my-orders", myOrders(d.Orders))
	orders.GET("/seller-orders", sellerOrders(d.Orders))
	orders.GET("/:id", getOrder(d.Orders))
	orders.PUT("/:id/status", updateStatus(d.Orders))
	orders.PUT("/:id/address", updateAddress(d.Orders))
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{ID: middleware.UserID(c), Role: middleware.UserRole(c)}
}

func writeError(c *gin.Context, err error) {
	c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrAddressIncomplete),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrPaymentVerificationFailed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrOrderLocked):
		return http.StatusConflict
	case errors.Is(err, service.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Minimal catalog surface: enough to seed products and read price/stock.
// Full catalog management lives in another service.

func listProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var list []model.Product
		if err := db.Find(&list).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func createProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.UserRole(c) != service.RoleSeller {
			c.JSON(http.StatusForbidden, gin.H{"error": "seller role required"})
			return
		}
		var req struct {
			Name  string  `json:"name" binding:"required"`
			Price float64 `json:"price" binding:"required,gt=0"`
			Stock int64   `json:"stock" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p := &model.Product{
			Name:     req.Name,
			Price:    req.Price,
			Stock:    req.Stock,
			SellerID: middleware.UserID(c),
		}
		if err := db.Create(p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}
