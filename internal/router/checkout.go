package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/checkout"
	"github.com/threadline/shopapi/pkg/global"
	"github.com/threadline/shopapi/pkg/models"
	"github.com/threadline/shopapi/pkg/payment"
)

type createPaymentOrderRequest struct {
	Items     []models.CartLineItem `json:"items" binding:"required"`
	PromoCode string                `json:"promo_code"`
}

// CreatePaymentOrder registers the cart's grand total with the selected
// provider and returns the reference the client needs for the hosted
// payment UI. The amount is always recomputed server-side.
func CreatePaymentOrder(c *gin.Context) {
	var req createPaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	intent, err := workflow.CreateIntent(c.Request.Context(), checkout.IntentRequest{
		Items:         req.Items,
		PaymentMethod: c.Param("provider"),
		PromoCode:     req.PromoCode,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"orderId":  intent.ProviderOrderID,
		"key":      intent.Key,
		"amount":   intent.Amount,
		"currency": intent.Currency,
	}))
}

type verifyPaymentRequest struct {
	ProviderOrderID   string                     `json:"providerOrderId" binding:"required"`
	ProviderPaymentID string                     `json:"providerPaymentId" binding:"required"`
	Signature         string                     `json:"signature" binding:"required"`
	OrderData         checkout.PlaceOrderRequest `json:"orderData" binding:"required"`
}

// VerifyPayment checks the provider callback signature and, only on a
// match, runs the placement workflow to persist the order.
func VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	placeReq := req.OrderData
	placeReq.PaymentMethod = c.Param("provider")
	placeReq.Callback = &payment.Callback{
		ProviderOrderID:   req.ProviderOrderID,
		ProviderPaymentID: req.ProviderPaymentID,
		Signature:         req.Signature,
	}

	order, err := workflow.PlaceOrder(c.Request.Context(), userID, placeReq)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"success": true,
		"orderId": order.ID.Hex(),
	}))
}

type codOrderRequest struct {
	OrderData checkout.PlaceOrderRequest `json:"orderData" binding:"required"`
}

// PlaceCODOrder places a cash-on-delivery order with no provider
// round-trip.
func PlaceCODOrder(c *gin.Context) {
	if c.Param("provider") != payment.MethodCOD {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Unknown payment endpoint", nil))
		return
	}

	var req codOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	placeReq := req.OrderData
	placeReq.PaymentMethod = payment.MethodCOD

	order, err := workflow.PlaceOrder(c.Request.Context(), userID, placeReq)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"success": true,
		"orderId": order.ID.Hex(),
	}))
}

func requestUserID(c *gin.Context) (bson.ObjectID, bool) {
	claims := currentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Authorization required", nil))
		return bson.ObjectID{}, false
	}
	userID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Invalid token subject", nil))
		return bson.ObjectID{}, false
	}
	return userID, true
}

// respondCheckoutError maps workflow errors onto HTTP status codes.
// Unexpected errors surface as a generic 500 with no internal detail.
func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, global.ErrorResponse(err.Error(), nil))
	case errors.Is(err, payment.ErrVerificationFailed):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Payment verification failed", nil))
	case errors.Is(err, payment.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, global.ErrorResponse("Payment failed, please try again", nil))
	default:
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to place order", nil))
	}
}
