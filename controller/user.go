package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/logic"
	"github.com/ozayys/ChatBotV1/middleware"
)

// UserController handles registration, login and profile requests
type UserController struct {
	userLogic *logic.UserLogic
	log       *logger.Logger
}

func NewUserController(userLogic *logic.UserLogic, log *logger.Logger) *UserController {
	return &UserController{userLogic: userLogic, log: log}
}

// Register handles POST /api/auth/register
func (ctl *UserController) Register(c *gin.Context) {
	type Request struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	user, token, err := ctl.userLogic.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, ctl.log, err, "Server error during registration")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Login handles POST /api/auth/login
func (ctl *UserController) Login(c *gin.Context) {
	type Request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	user, token, err := ctl.userLogic.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, ctl.log, err, "Server error during login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Profile handles GET /api/auth/profile
func (ctl *UserController) Profile(c *gin.Context) {
	user, err := ctl.userLogic.GetUser(middleware.UserID(c))
	if err != nil {
		respondError(c, ctl.log, err, "Server error while retrieving profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}
