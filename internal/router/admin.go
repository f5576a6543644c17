package router

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/ai"
	"github.com/threadline/shopapi/pkg/global"
	"github.com/threadline/shopapi/pkg/models"
	"github.com/threadline/shopapi/pkg/mongo"
	"github.com/threadline/shopapi/pkg/redis"
)

func AdminCreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	product := req.ToProduct()
	if !product.HasValidSalePrice() {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid sale price", []global.ValidationError{
			{Field: "sale_price", Message: "Sale price must be lower than the regular price", Code: "invalid_sale_price"},
		}))
		return
	}

	created, err := mongo.CreateProduct(c.Request.Context(), product)
	if err != nil {
		respondCatalogError(c, "Product", err)
		return
	}

	if cacheErr := redis.CacheSingleProduct(c.Request.Context(), created); cacheErr != nil {
		log.Printf("Warning: Failed to cache product in Redis: %v", cacheErr)
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(created))
}

func AdminUpdateProduct(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", nil))
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid JSON format", []global.ValidationError{
			{Field: "body", Message: err.Error(), Code: "json_parse_error"},
		}))
		return
	}

	// immutable fields are stripped, not rejected
	for _, field := range []string{"_id", "id", "created_at"} {
		delete(updates, field)
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("No updates provided", []global.ValidationError{
			{Field: "body", Message: "Request body must contain at least one field to update", Code: "empty_updates"},
		}))
		return
	}

	// the pre-update document is needed to evict a renamed slug's cache key
	existing, err := mongo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, "Product", err)
		return
	}

	updated, err := mongo.UpdateProduct(c.Request.Context(), id, updates)
	if err != nil {
		respondCatalogError(c, "Product", err)
		return
	}

	if !updated.HasValidSalePrice() {
		// roll the bad sale price back rather than leave the invariant broken
		if _, rbErr := mongo.UpdateProduct(c.Request.Context(), id, map[string]interface{}{"sale_price": 0}); rbErr != nil {
			log.Printf("Error clearing invalid sale price on product %s: %v", id.Hex(), rbErr)
		}
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid sale price", []global.ValidationError{
			{Field: "sale_price", Message: "Sale price must be lower than the regular price", Code: "invalid_sale_price"},
		}))
		return
	}

	if stale, ok := staleProductCacheSlug(existing.Slug, updated.Slug); ok {
		if cacheErr := redis.RemoveProductFromCache(c.Request.Context(), stale); cacheErr != nil {
			log.Printf("Warning: Failed to evict renamed product slug from Redis cache: %v", cacheErr)
		}
	}
	if cacheErr := redis.CacheSingleProduct(c.Request.Context(), updated); cacheErr != nil {
		log.Printf("Warning: Failed to update product cache in Redis: %v", cacheErr)
	}

	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

// staleProductCacheSlug reports the cache key orphaned by a product update.
// A renamed slug leaves the old document readable under product:<oldSlug>
// for the rest of the TTL unless it is evicted.
func staleProductCacheSlug(oldSlug, newSlug string) (string, bool) {
	if oldSlug != "" && oldSlug != newSlug {
		return oldSlug, true
	}
	return "", false
}

func AdminDeleteProduct(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", nil))
		return
	}

	// fetch first so the cache entry can be dropped by slug
	product, err := mongo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete product", nil))
		return
	}

	if err := mongo.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete product", nil))
		return
	}

	if cacheErr := redis.RemoveProductFromCache(c.Request.Context(), product.Slug); cacheErr != nil {
		log.Printf("Warning: Failed to remove product from Redis cache: %v", cacheErr)
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"deleted": true,
	}))
}

func AdminCreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	created, err := mongo.CreateCategory(c.Request.Context(), req.ToCategory())
	if err != nil {
		respondCatalogError(c, "Category", err)
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(created))
}

func AdminUpdateCategory(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid category ID format", nil))
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid JSON format", nil))
		return
	}
	for _, field := range []string{"_id", "id", "created_at"} {
		delete(updates, field)
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("No updates provided", nil))
		return
	}

	updated, err := mongo.UpdateCategory(c.Request.Context(), id, updates)
	if err != nil {
		respondCatalogError(c, "Category", err)
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

func AdminDeleteCategory(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid category ID format", nil))
		return
	}

	if err := mongo.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Category not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete category", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{"deleted": true}))
}

func AdminListOrders(c *gin.Context) {
	orders, err := mongo.ListAllOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

func AdminUpdateOrderStatus(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid order ID format", nil))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "status", Message: "status is required", Code: "required"},
		}))
		return
	}

	updated, err := mongo.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNotFound):
			c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", nil))
		case errors.Is(err, mongo.ErrBadTransition):
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Illegal status transition", []global.ValidationError{
				{Field: "status", Message: "Order status cannot move to " + req.Status, Code: "bad_transition"},
			}))
		default:
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update order", nil))
		}
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

func AdminListUsers(c *gin.Context) {
	users, err := mongo.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch users", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(users))
}

func AdminUpdateUserRole(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid user ID format", nil))
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", nil))
		return
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid role", []global.ValidationError{
			{Field: "role", Message: "Role must be 'user' or 'admin'", Code: "invalid_role"},
		}))
		return
	}

	updated, err := mongo.UpdateUserRole(c.Request.Context(), id, req.Role)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("User not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update user", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

func AdminGetSettings(c *gin.Context) {
	settings, err := mongo.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch settings", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(settings))
}

func AdminUpdateSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}
	if settings.FlatShippingFee < 0 || settings.TaxRate < 0 || settings.CODFee < 0 ||
		settings.FreeShippingThreshold < 0 || settings.PromoDiscount < 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Settings values must be non-negative", nil))
		return
	}

	updated, err := mongo.UpdateSettings(c.Request.Context(), &settings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update settings", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

func AdminDashboard(c *gin.Context) {
	stats, err := mongo.GetDashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch dashboard stats", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(stats))
}

// respondCatalogError maps store errors from admin catalog writes onto HTTP
// status codes. resource is the display name ("Product", "Category").
func respondCatalogError(c *gin.Context, resource string, err error) {
	switch {
	case errors.Is(err, mongo.ErrNotFound):
		c.JSON(http.StatusNotFound, global.ErrorResponse(resource+" not found", nil))
	case errors.Is(err, mongo.ErrDuplicateSlug):
		c.JSON(http.StatusConflict, global.ErrorResponse("Slug already exists", []global.ValidationError{
			{Field: "slug", Message: "This slug is already in use", Code: "duplicate_slug"},
		}))
	case errors.Is(err, mongo.ErrInvalidParent):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid parent category", []global.ValidationError{
			{Field: "parent_id", Message: "Parent must be an existing root category, not the category itself, and the category must have no children of its own", Code: "invalid_parent"},
		}))
	default:
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to save "+resource, nil))
	}
}

func AdminSalesReport(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	summary, err := ai.GenerateSalesSummary(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to generate sales report", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(summary))
}
