package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tallesnicacio/a-pay-sub001/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService issues JWTs for staff users. Role and permission checks happen
// in the HTTP middleware; services only receive already-resolved actor and
// tenant ids.
type AuthService struct {
	DB        *gorm.DB
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{DB: db, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

// LoginResult is the issued token plus the authenticated user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies the credentials and returns a signed HS256 token carrying
// the user, establishment and role claims.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.DB.Where("email = ? AND active = ?", email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ValidationError{Message: "invalid email or password"}
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &ValidationError{Message: "invalid email or password"}
	}

	claims := jwt.MapClaims{
		"userId":          user.ID,
		"establishmentId": user.EstablishmentID,
		"role":            user.Role,
		"exp":             time.Now().Add(s.TokenTTL).Unix(),
		"iat":             time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: signed, User: &user}, nil
}

// CreateUserInput carries the fields for staff account creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// CreateUser registers a staff member for an establishment.
func (s *AuthService) CreateUser(establishmentID uint, in CreateUserInput) (*models.User, error) {
	return s.createUser(s.DB, establishmentID, in)
}

// createUser runs against the given handle so tenant onboarding can create
// the establishment and its first admin in one transaction.
func (s *AuthService) createUser(tx *gorm.DB, establishmentID uint, in CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return nil, &ValidationError{Message: "name and email are required"}
	}
	if len(in.Password) < 8 {
		return nil, &ValidationError{Message: "password must have at least 8 characters"}
	}
	role := in.Role
	if role == "" {
		role = models.RoleCashier
	}
	if role != models.RoleAdmin && role != models.RoleCashier && role != models.RoleKitchen {
		return nil, &ValidationError{Message: "invalid role: " + role}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		EstablishmentID: establishmentID,
		Name:            name,
		Email:           email,
		PasswordHash:    string(hash),
		Role:            role,
		Active:          true,
	}
	if err := tx.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "email already registered: " + email}
		}
		return nil, err
	}
	return &user, nil
}
