package handlers

import (
	"net/http"

	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
)

// CreateUser stores an account without signing it in
func CreateUser(c *gin.Context) {
	var request RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := createUser(c, request)
	if user == nil {
		return
	}

	recordAudit(c, models.ActionCreate, "users", user.ID, "User created: "+user.Username, nil, user)
	c.JSON(http.StatusCreated, user)
}

// ListUsers returns every account, newest first
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := dbconfig.DB.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
