package handlers

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/varsityhub/backend/internal/models"
	"github.com/varsityhub/backend/internal/services"
)

type AuthHandler struct {
	db       *gorm.DB
	verifier *services.VerificationService
}

func NewAuthHandler(db *gorm.DB, verifier *services.VerificationService) *AuthHandler {
	return &AuthHandler{db: db, verifier: verifier}
}

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

func signToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Email         string `json:"email" binding:"required,email"`
		Password      string `json:"password" binding:"required,min=6"`
		FullName      string `json:"full_name" binding:"required"`
		InstitutionID string `json:"institution_id"`
		Phone         string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingUser models.User
	if err := h.db.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	if input.InstitutionID != "" {
		var institution models.Institution
		if err := h.db.First(&institution, "id = ?", input.InstitutionID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown institution"})
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:    input.Email,
		Password: string(hashedPassword),
		FullName: input.FullName,
	}
	if input.InstitutionID != "" {
		user.InstitutionID = &input.InstitutionID
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Every account starts with the base role.
	if err := h.db.Create(&models.UserRole{UserID: user.ID, Role: models.RoleUser}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Best effort: a failed SMS must not block registration.
	if input.Phone != "" && h.verifier.Enabled() {
		if err := h.verifier.StartVerification(input.Phone); err != nil {
			log.Printf("SMS verification for %s failed: %v", user.ID, err)
		}
	}

	tokenString, err := signToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   tokenString,
		"user": gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"full_name":      user.FullName,
			"institution_id": user.InstitutionID,
		},
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := signToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Record the sync bookmark; readers of sync_meta come later.
	now := time.Now().UTC()
	h.db.Save(&models.SyncMeta{UserID: user.ID, LastSyncedAt: &now})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   tokenString,
		"user": gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"full_name":      user.FullName,
			"bio":            user.Bio,
			"avatar_url":     user.AvatarURL,
			"institution_id": user.InstitutionID,
		},
	})
}

// VerifyPhone checks an SMS code sent at registration.
func (h *AuthHandler) VerifyPhone(c *gin.Context) {
	var input struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.verifier.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "SMS verification not configured"})
		return
	}

	approved, err := h.verifier.CheckVerification(input.Phone, input.Code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification check failed"})
		return
	}
	if !approved {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Phone verified"})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.db.Preload("Institution").First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID,
		"email":       user.Email,
		"full_name":   user.FullName,
		"bio":         user.Bio,
		"avatar_url":  user.AvatarURL,
		"institution": user.Institution,
		"created_at":  user.CreatedAt,
	})
}
