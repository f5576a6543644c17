package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/global"
	"github.com/threadline/shopapi/pkg/mongo"
)

func GetMyOrders(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	orders, err := mongo.ListOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

// GetMyOrderByID returns an order only to its owner; anyone else sees a
// 404.
func GetMyOrderByID(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	orderID, err := bson.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid order ID format", []global.ValidationError{
			{Field: "orderId", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	order, err := mongo.GetOrderForUser(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch order", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}
