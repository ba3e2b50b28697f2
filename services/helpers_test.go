package services

import (
	"testing"
	"time"

	"github.com/tallesnicacio/a-pay-sub001/models"
	"github.com/tallesnicacio/a-pay-sub001/realtime"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Establishment{},
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.KitchenTicket{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

type testServices struct {
	db             *gorm.DB
	hub            *realtime.Hub
	orders         *OrderService
	kitchen        *KitchenService
	establishments *EstablishmentService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	db := setupTestDB(t)
	hub := realtime.NewHub(0)
	t.Cleanup(hub.Close)

	audit := NewAuditService(db)
	auth := NewAuthService(db, "test-secret", time.Hour)
	establishments := NewEstablishmentService(db, auth)
	products := NewProductService(db)

	return &testServices{
		db:             db,
		hub:            hub,
		orders:         NewOrderService(db, products, establishments, audit, hub),
		kitchen:        NewKitchenService(db, audit, hub),
		establishments: establishments,
	}
}

func createTestEstablishment(t *testing.T, db *gorm.DB, slug string, hasKitchen, onlineOrdering bool) *models.Establishment {
	t.Helper()

	est := models.Establishment{
		Name:           "Test Restaurant " + slug,
		Slug:           slug,
		Active:         true,
		HasKitchen:     hasKitchen,
		OnlineOrdering: onlineOrdering,
	}
	if err := db.Create(&est).Error; err != nil {
		t.Fatalf("Failed to create test establishment: %v", err)
	}
	return &est
}

func createTestProduct(t *testing.T, db *gorm.DB, establishmentID uint, name string, priceCents int64, active bool) *models.Product {
	t.Helper()

	p := models.Product{
		EstablishmentID: establishmentID,
		Name:            name,
		Category:        "food",
		PriceCents:      priceCents,
		Active:          active,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return &p
}

func createTestUser(t *testing.T, db *gorm.DB, establishmentID uint, email, role string) *models.User {
	t.Helper()

	u := models.User{
		EstablishmentID: establishmentID,
		Name:            "Test User",
		Email:           email,
		PasswordHash:    "x",
		Role:            role,
		Active:          true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &u
}
