package services

import (
	"errors"
	"strings"

	"github.com/tallesnicacio/a-pay-sub001/models"
	"gorm.io/gorm"
)

// EstablishmentService owns tenant records. Order creation consults it to
// gate ordering (active), kitchen ticket spawning (has_kitchen) and the
// public flow (online_ordering).
type EstablishmentService struct {
	DB   *gorm.DB
	Auth *AuthService
}

func NewEstablishmentService(db *gorm.DB, auth *AuthService) *EstablishmentService {
	return &EstablishmentService{DB: db, Auth: auth}
}

// CreateEstablishmentInput carries the fields accepted on tenant writes.
type CreateEstablishmentInput struct {
	Name           string
	Slug           string
	HasKitchen     bool
	OnlineOrdering bool
}

func (s *EstablishmentService) Create(in CreateEstablishmentInput) (*models.Establishment, error) {
	return s.create(s.DB, in)
}

func (s *EstablishmentService) create(tx *gorm.DB, in CreateEstablishmentInput) (*models.Establishment, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if name == "" || slug == "" {
		return nil, &ValidationError{Message: "establishment name and slug are required"}
	}

	e := models.Establishment{
		Name:           name,
		Slug:           slug,
		Active:         true,
		HasKitchen:     in.HasKitchen,
		OnlineOrdering: in.OnlineOrdering,
	}
	if err := tx.Create(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "slug already taken: " + slug}
		}
		return nil, err
	}
	return &e, nil
}

// Onboard creates a tenant together with its first admin account in one
// transaction. A failure on either side leaves no row behind, so a rejected
// admin email cannot consume the slug.
func (s *EstablishmentService) Onboard(in CreateEstablishmentInput, admin CreateUserInput) (*models.Establishment, *models.User, error) {
	admin.Role = models.RoleAdmin

	var (
		est  *models.Establishment
		user *models.User
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		est, err = s.create(tx, in)
		if err != nil {
			return err
		}
		user, err = s.Auth.createUser(tx, est.ID, admin)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return est, user, nil
}

func (s *EstablishmentService) GetByID(id uint) (*models.Establishment, error) {
	var e models.Establishment
	err := s.DB.First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "establishment", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetActiveBySlug resolves the public menu identity. Inactive tenants are
// reported as not found.
func (s *EstablishmentService) GetActiveBySlug(slug string) (*models.Establishment, error) {
	var e models.Establishment
	err := s.DB.Where("slug = ? AND active = ?", slug, true).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "establishment"}
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateSettings toggles the feature flags of a tenant.
func (s *EstablishmentService) UpdateSettings(id uint, active, hasKitchen, onlineOrdering *bool) (*models.Establishment, error) {
	e, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if active != nil {
		e.Active = *active
	}
	if hasKitchen != nil {
		e.HasKitchen = *hasKitchen
	}
	if onlineOrdering != nil {
		e.OnlineOrdering = *onlineOrdering
	}
	if err := s.DB.Save(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}
