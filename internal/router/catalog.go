package router

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/global"
	"github.com/threadline/shopapi/pkg/models"
	"github.com/threadline/shopapi/pkg/mongo"
	"github.com/threadline/shopapi/pkg/redis"
)

func GetAllProducts(c *gin.Context) {
	filter := models.ProductFilter{
		CategoryID: c.Query("categoryId"),
		Search:     c.Query("search"),
	}
	if raw := c.Query("featured"); raw != "" {
		if featured, err := strconv.ParseBool(raw); err == nil {
			filter.Featured = &featured
		}
	}
	if raw := c.Query("onSale"); raw != "" {
		if onSale, err := strconv.ParseBool(raw); err == nil {
			filter.OnSale = &onSale
		}
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	products, err := mongo.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get products", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func GetProductByID(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", []global.ValidationError{
			{Field: "id", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	product, err := mongo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

// GetProductBySlug retrieves a product by slug with a Redis read-through
// cache.
func GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	product, err := redis.GetProductBySlugFromCache(ctx, slug)
	if err == nil {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, global.SuccessResponse(product))
		return
	}

	product, err = mongo.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
				{Field: "slug", Message: "No product exists with this slug", Code: "not_found"},
			}))
			return
		}
		log.Printf("Error fetching product from MongoDB: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}

	if cacheErr := redis.CacheSingleProduct(ctx, product); cacheErr != nil {
		log.Printf("Warning: Failed to cache product in Redis: %v", cacheErr)
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func GetAllCategories(c *gin.Context) {
	categories, err := mongo.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get categories", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(categories))
}
