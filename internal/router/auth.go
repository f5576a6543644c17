package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/threadline/shopapi/pkg/auth"
	"github.com/threadline/shopapi/pkg/global"
	"github.com/threadline/shopapi/pkg/models"
	"github.com/threadline/shopapi/pkg/mongo"
)

func HealthCheck(c *gin.Context) {
	if err := mongo.GetDatabase().Client().Ping(c, nil); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Database connection failed", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "database": "Connected"}))
}

func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process password", nil))
		return
	}

	user := &models.User{
		ID:        bson.NewObjectID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Phone:     req.Phone,
		Role:      models.RoleUser,
	}
	user.SetTimestamps()

	created, err := mongo.CreateUser(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, mongo.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, global.ErrorResponse("Email already registered", []global.ValidationError{
				{Field: "email", Message: "This email is already in use", Code: "duplicate_email"},
			}))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create account", nil))
		return
	}

	token, err := auth.GenerateToken(global.GetJWTSecret(), created.ID.Hex(), created.Email, created.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to issue token", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(map[string]interface{}{
		"user":  created,
		"token": token,
	}))
}

func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	user, err := mongo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}

	token, err := auth.GenerateToken(global.GetJWTSecret(), user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to issue token", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"user":  user,
		"token": token,
	}))
}

func GetProfile(c *gin.Context) {
	claims := currentClaims(c)
	userID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Invalid token subject", nil))
		return
	}

	user, err := mongo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("User not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch profile", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(user))
}

func UpdateProfile(c *gin.Context) {
	claims := currentClaims(c)
	userID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Invalid token subject", nil))
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	updated, err := mongo.UpdateUserProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("User not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update profile", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}
