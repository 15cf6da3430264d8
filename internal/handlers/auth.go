package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bidnest/internal/auth"
	"bidnest/internal/middleware"
	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,min=10,max=15"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest accepts a username or an email in Login
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", dbconfig.App.CookieSecure, true)
}

// uniqueUserConflict reports which of username, email or phone is taken.
func uniqueUserConflict(db *gorm.DB, username, email, phone string) (string, error) {
	checks := []struct {
		column, value, message string
	}{
		{"username", username, "Username already exists"},
		{"email", email, "Email already exists"},
		{"phone", phone, "Phone number already exists"},
	}
	for _, check := range checks {
		var count int64
		if err := db.Model(&models.User{}).Where(check.column+" = ?", check.value).Count(&count).Error; err != nil {
			return "", err
		}
		if count > 0 {
			return check.message, nil
		}
	}
	return "", nil
}

// createUser validates and stores a new account. It answers the request
// itself on failure and returns nil.
func createUser(c *gin.Context, request RegisterRequest) *models.User {
	if err := auth.ValidatePassword(request.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil
	}
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))

	conflict, err := uniqueUserConflict(dbconfig.DB, request.Username, request.Email, request.Phone)
	if err != nil {
		respondError(c, err)
		return nil
	}
	if conflict != "" {
		c.JSON(http.StatusConflict, gin.H{"error": conflict})
		return nil
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		respondError(c, err)
		return nil
	}

	user := models.User{
		Name:         models.Tracked(strings.TrimSpace(request.Name)),
		Username:     request.Username,
		Email:        request.Email,
		Phone:        request.Phone,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := dbconfig.DB.Create(&user).Error; err != nil {
		respondError(c, err)
		return nil
	}
	return &user
}

func issueSession(c *gin.Context, user *models.User) bool {
	sessions := middleware.Sessions()
	token, err := sessions.Generate(user.ID, user.Username, user.IsActive)
	if err != nil {
		respondError(c, err)
		return false
	}
	setCookie(c, auth.SessionCookie, token, int(sessions.Duration().Seconds()))
	return true
}

// Register creates an account and signs it in
func Register(c *gin.Context) {
	var request RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := createUser(c, request)
	if user == nil {
		return
	}
	if !issueSession(c, user) {
		return
	}

	middleware.SetUserID(c, user.ID)
	recordAudit(c, models.ActionCreate, "users", user.ID, "User registered: "+user.Username, nil, user)

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// Login signs a user in by username or email
func Login(c *gin.Context) {
	var request LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	login := strings.TrimSpace(request.Login)
	var user models.User
	err := dbconfig.DB.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, err)
		return
	}
	if err != nil || auth.CheckPassword(user.PasswordHash, request.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": auth.ErrInactiveAccount.Error()})
		return
	}

	if !issueSession(c, &user) {
		return
	}

	middleware.SetUserID(c, user.ID)
	recordAudit(c, models.ActionLogin, "users", user.ID, "User logged in: "+user.Username, nil, nil)

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"name":     user.Name.Data().Value,
	})
}

// Logout revokes the current session and clears the cookie
func Logout(c *gin.Context) {
	if claims := middleware.GetClaims(c); claims != nil {
		recordAudit(c, models.ActionLogout, "users", claims.UserID, "User logged out: "+claims.Username, nil, nil)

		ttl := time.Until(claims.ExpiresAt.Time)
		if err := auth.Revocations.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
			log.Warnf("Failed to revoke session %s: %v", claims.ID, err)
		}
	}

	setCookie(c, auth.SessionCookie, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ChangePassword replaces the signed-in user's password
func ChangePassword(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request ChangePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := auth.ValidatePassword(request.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	res := dbconfig.DB.Model(&models.User{}).Where("id = ?", *userID).Update("password_hash", hash)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	recordAudit(c, models.ActionUpdate, "users", *userID, "Password changed", nil, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// Me returns the signed-in user
func Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := dbconfig.DB.First(&user, *userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
