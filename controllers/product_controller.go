package controllers

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/models"
	"github.com/tallesnicacio/a-pay-sub001/services"
	"github.com/tallesnicacio/a-pay-sub001/utils"
)

// ProductController manages the tenant product catalog.
type ProductController struct {
	Products *services.ProductService
	Storage  services.S3Interface
}

func NewProductController(products *services.ProductService, storage services.S3Interface) *ProductController {
	return &ProductController{Products: products, Storage: storage}
}

// ProductRequest represents the request body for catalog writes.
type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents" binding:"required,gte=0"`
	Active      *bool  `json:"active"`
}

// Create handles POST /api/v1/products
func (ctl *ProductController) Create(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	product, err := ctl.Products.Create(establishmentID, services.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, product)
}

// List handles GET /api/v1/products
func (ctl *ProductController) List(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	activeOnly := c.Query("active") == "true"
	products, err := ctl.Products.List(establishmentID, c.Query("category"), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	ctl.attachImageURLs(products)
	respondOK(c, products)
}

// Get handles GET /api/v1/products/:id
func (ctl *ProductController) Get(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := ctl.Products.GetByID(establishmentID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	ctl.attachImageURL(product)
	respondOK(c, product)
}

// Update handles PUT /api/v1/products/:id
func (ctl *ProductController) Update(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	product, err := ctl.Products.Update(establishmentID, productID, services.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
	}, req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// UploadImage handles POST /api/v1/products/:id/image
func (ctl *ProductController) UploadImage(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if ctl.Storage == nil {
		respondErrorCode(c, 503, "STORAGE_UNAVAILABLE", "Image storage is not configured")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondErrorCode(c, 400, "MISSING_FILE", "No image file in request")
		return
	}
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		respondError(c, err)
		return
	}

	// Ensure the product exists in-tenant before touching the bucket.
	if _, err := ctl.Products.GetByID(establishmentID, productID); err != nil {
		respondError(c, err)
		return
	}

	s3Key, err := ctl.Storage.UploadProductImage(establishmentID, fileHeader)
	if err != nil {
		respondErrorCode(c, 500, "UPLOAD_FAILED", "Failed to store image")
		return
	}

	product, err := ctl.Products.SetImage(establishmentID, productID, s3Key)
	if err != nil {
		respondError(c, err)
		return
	}
	ctl.attachImageURL(product)
	respondOK(c, product)
}

func (ctl *ProductController) attachImageURL(p *models.Product) {
	if ctl.Storage == nil || p.ImageS3Key == nil {
		return
	}
	url, err := ctl.Storage.GetPresignedURL(*p.ImageS3Key)
	if err != nil {
		log.Printf("failed to presign image URL for product %d: %v", p.ID, err)
		return
	}
	p.ImageURL = &url
}

func (ctl *ProductController) attachImageURLs(products []models.Product) {
	for i := range products {
		ctl.attachImageURL(&products[i])
	}
}

// paramID parses a positive uint path parameter, writing the error response
// itself when the value is malformed.
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondErrorCode(c, 400, "INVALID_ID", "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}
