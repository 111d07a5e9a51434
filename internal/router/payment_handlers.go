package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medmarket/internal/middleware"
	"medmarket/internal/model"
	"medmarket/internal/service"
)

type createIntentReq struct {
	ProductID     uint   `json:"product_id" binding:"required,min=1"`
	Quantity      int64  `json:"quantity" binding:"required,min=1"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=online cod"`
}

func createIntent(payments *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createIntentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		intent, err := payments.CreateIntent(c.Request.Context(), req.ProductID, req.Quantity, req.PaymentMethod)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, intent)
	}
}

type verifyPaymentReq struct {
	GatewayOrderID   string                `json:"gateway_order_id"`
	GatewayPaymentID string                `json:"gateway_payment_id"`
	GatewaySignature string                `json:"gateway_signature"`
	ProductID        uint                  `json:"product_id" binding:"required,min=1"`
	Quantity         int64                 `json:"quantity" binding:"required,min=1"`
	DeliveryAddress  model.DeliveryAddress `json:"delivery_address"`
	PaymentMethod    string                `json:"payment_method" binding:"omitempty,oneof=online cod demo"`
	IsDemo           bool                  `json:"is_demo"`
}

func verifyPayment(payments *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyPaymentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := payments.VerifyAndFinalize(c.Request.Context(), service.FinalizeInput{
			GatewayOrderID:   req.GatewayOrderID,
			GatewayPaymentID: req.GatewayPaymentID,
			GatewaySignature: req.GatewaySignature,
			BuyerID:          middleware.UserID(c),
			ProductID:        req.ProductID,
			Quantity:         req.Quantity,
			Address:          req.DeliveryAddress,
			PaymentMethod:    req.PaymentMethod,
			IsDemo:           req.IsDemo,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

func getBuyerOrder(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderNo := c.Param("orderNo")
		order, err := orders.GetByOrderNo(c.Request.Context(), orderNo, middleware.UserID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
