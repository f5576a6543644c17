package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/global"
	"github.com/threadline/shopapi/pkg/models"
	"github.com/threadline/shopapi/pkg/mongo"
	"github.com/threadline/shopapi/pkg/redis"
)

func GetCart(c *gin.Context) {
	cart, err := redis.GetCart(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to load cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

// AddToCart resolves the product server-side so the line item carries
// catalog prices and display fields as of add-time.
func AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	productID, err := bson.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", []global.ValidationError{
			{Field: "product_id", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	product, err := mongo.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}
	if !product.InStock {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Product is out of stock", []global.ValidationError{
			{Field: "product_id", Message: "This product is currently unavailable", Code: "out_of_stock"},
		}))
		return
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	item := &models.CartLineItem{
		ProductID: product.ID.Hex(),
		Slug:      product.Slug,
		Name:      product.Name,
		Brand:     product.Brand,
		Image:     image,
		Price:     product.Price,
		SalePrice: product.SalePrice,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	}

	cart, err := redis.AddToCart(c.Request.Context(), c.Param("sessionId"), item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add item to cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func UpdateCartItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	cart, err := redis.UpdateCartItem(c.Request.Context(), c.Param("sessionId"), c.Param("lineKey"), req.Quantity)
	if err != nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Cart item not found", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func RemoveFromCart(c *gin.Context) {
	cart, err := redis.RemoveFromCart(c.Request.Context(), c.Param("sessionId"), c.Param("lineKey"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to remove item", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func ClearCart(c *gin.Context) {
	if err := redis.ClearCart(c.Request.Context(), c.Param("sessionId")); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to clear cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Cart cleared"}))
}

func GetWishlist(c *gin.Context) {
	items, err := redis.GetWishlist(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to load wishlist", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(items))
}

// ToggleWishlist adds or removes a product; the response reports whether it
// is in the wishlist afterwards.
func ToggleWishlist(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "product_id", Message: "product_id is required", Code: "required"},
		}))
		return
	}

	productID, err := bson.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", nil))
		return
	}

	product, err := mongo.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	inWishlist, err := redis.ToggleWishlist(c.Request.Context(), c.Param("sessionId"), &models.WishlistItem{
		ProductID: product.ID.Hex(),
		Slug:      product.Slug,
		Name:      product.Name,
		Brand:     product.Brand,
		Image:     image,
		Price:     product.Price,
		SalePrice: product.SalePrice,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update wishlist", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"product_id":  product.ID.Hex(),
		"in_wishlist": inWishlist,
	}))
}
