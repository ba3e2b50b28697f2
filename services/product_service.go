package services

import (
	"errors"
	"strings"

	"github.com/tallesnicacio/a-pay-sub001/models"
	"gorm.io/gorm"
)

// ProductService owns the tenant-scoped product catalog. The order service
// depends on FindActiveByIDs for price and name snapshot resolution.
type ProductService struct {
	DB *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{DB: db}
}

// CreateProductInput carries the fields accepted on catalog writes.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	PriceCents  int64
}

func (s *ProductService) Create(establishmentID uint, in CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &ValidationError{Message: "product name is required"}
	}
	if in.PriceCents < 0 {
		return nil, &ValidationError{Message: "product price cannot be negative"}
	}

	p := models.Product{
		EstablishmentID: establishmentID,
		Name:            name,
		Description:     in.Description,
		Category:        strings.TrimSpace(in.Category),
		PriceCents:      in.PriceCents,
		Active:          true,
	}
	if err := s.DB.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) GetByID(establishmentID, productID uint) (*models.Product, error) {
	var p models.Product
	err := s.DB.Where("id = ? AND establishment_id = ?", productID, establishmentID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "product", ID: productID}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update rewrites mutable catalog fields. Existing order items keep their
// snapshots, so this never alters order history.
func (s *ProductService) Update(establishmentID, productID uint, in CreateProductInput, active *bool) (*models.Product, error) {
	p, err := s.GetByID(establishmentID, productID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	if in.PriceCents < 0 {
		return nil, &ValidationError{Message: "product price cannot be negative"}
	}
	p.Description = in.Description
	p.Category = strings.TrimSpace(in.Category)
	p.PriceCents = in.PriceCents
	if active != nil {
		p.Active = *active
	}
	if err := s.DB.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the establishment's catalog, optionally filtered by category
// or restricted to active products (the public menu view).
func (s *ProductService) List(establishmentID uint, category string, activeOnly bool) ([]models.Product, error) {
	q := s.DB.Where("establishment_id = ?", establishmentID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var products []models.Product
	err := q.Order("category, name").Find(&products).Error
	return products, err
}

// FindActiveByIDs resolves the given product ids to active products of the
// establishment. Callers must compare the result count against the number of
// distinct requested ids; a shortfall means some product is missing,
// inactive, or belongs to another tenant.
func (s *ProductService) FindActiveByIDs(establishmentID uint, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := s.DB.Where("id IN ? AND establishment_id = ? AND active = ?", ids, establishmentID, true).
		Find(&products).Error
	return products, err
}

// SetImage stores the S3 key of the product's uploaded image.
func (s *ProductService) SetImage(establishmentID, productID uint, s3Key string) (*models.Product, error) {
	p, err := s.GetByID(establishmentID, productID)
	if err != nil {
		return nil, err
	}
	p.ImageS3Key = &s3Key
	if err := s.DB.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}
