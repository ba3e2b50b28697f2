package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/services"
)

// EstablishmentController manages tenant records and feature flags.
type EstablishmentController struct {
	Establishments *services.EstablishmentService
}

func NewEstablishmentController(establishments *services.EstablishmentService) *EstablishmentController {
	return &EstablishmentController{Establishments: establishments}
}

// AdminUserRequest is the first admin account created with a new tenant.
type AdminUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// CreateEstablishmentRequest represents the request body for POST /establishments
type CreateEstablishmentRequest struct {
	Name           string           `json:"name" binding:"required"`
	Slug           string           `json:"slug" binding:"required"`
	HasKitchen     bool             `json:"has_kitchen"`
	OnlineOrdering bool             `json:"online_ordering"`
	Admin          AdminUserRequest `json:"admin" binding:"required"`
}

// Create handles POST /api/v1/establishments (onboarding). The tenant is
// created together with its first admin account; every later user is
// registered through POST /users, which requires that admin.
func (ctl *EstablishmentController) Create(c *gin.Context) {
	var req CreateEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	est, admin, err := ctl.Establishments.Onboard(services.CreateEstablishmentInput{
		Name:           req.Name,
		Slug:           req.Slug,
		HasKitchen:     req.HasKitchen,
		OnlineOrdering: req.OnlineOrdering,
	}, services.CreateUserInput{
		Name:     req.Admin.Name,
		Email:    req.Admin.Email,
		Password: req.Admin.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, gin.H{"establishment": est, "admin": admin})
}

// Get handles GET /api/v1/establishment - the caller's own tenant
func (ctl *EstablishmentController) Get(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	est, err := ctl.Establishments.GetByID(establishmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, est)
}

// UpdateSettingsRequest represents the request body for PATCH /establishment
type UpdateSettingsRequest struct {
	Active         *bool `json:"active"`
	HasKitchen     *bool `json:"has_kitchen"`
	OnlineOrdering *bool `json:"online_ordering"`
}

// UpdateSettings handles PATCH /api/v1/establishment (admins only)
func (ctl *EstablishmentController) UpdateSettings(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	est, err := ctl.Establishments.UpdateSettings(establishmentID, req.Active, req.HasKitchen, req.OnlineOrdering)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, est)
}
