package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func GenerateToken(cfg AuthConfig, userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(cfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsTokenBlacklisted reports whether logout has invalidated the token.
func IsTokenBlacklisted(token string) bool {
	var count int64
	DB.Model(&BlacklistedToken{}).Where("token = ?", token).Count(&count)
	return count > 0
}

// ========================
// REGISTER HANDLER
// ========================

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func Register(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "could not hash password")
			return
		}

		user := User{Username: req.Username, Email: req.Email, Password: hash}
		if err := DB.Create(&user).Error; err != nil {
			jsonError(c, http.StatusBadRequest, "username or email already taken")
			return
		}

		token, err := GenerateToken(cfg, user.ID)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "failed to generate token")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"access_token": token, "token_type": "bearer"})
	}
}

// ========================
// LOGIN HANDLER
// ========================

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}

		var user User
		if err := DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
			jsonError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if !VerifyPassword(req.Password, user.Password) {
			jsonError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := GenerateToken(cfg, user.ID)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "failed to generate token")
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
	}
}

// Refresh issues a fresh token for the already-validated caller. The
// middleware has done blacklist and signature checks by the time this
// runs.
func Refresh(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			jsonError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		token, err := GenerateToken(cfg, userID)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "failed to generate token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
	}
}

// Logout blacklists the presented token; it is rejected from then on.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get("token")
		if !exists {
			jsonError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		entry := BlacklistedToken{Token: raw.(string)}
		if err := DB.Create(&entry).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			jsonError(c, http.StatusInternalServerError, "could not blacklist token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
	}
}
