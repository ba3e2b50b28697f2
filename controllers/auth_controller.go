package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/services"
)

// AuthController handles login and staff account management.
type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// LoginRequest represents the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := ctl.Auth.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// CreateUserRequest represents the request body for POST /users
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// CreateUser handles POST /api/v1/users - registers staff (admins only)
func (ctl *AuthController) CreateUser(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := ctl.Auth.CreateUser(establishmentID, services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, user)
}
