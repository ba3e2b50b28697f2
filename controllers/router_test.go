package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tallesnicacio/a-pay-sub001/config"
	"github.com/tallesnicacio/a-pay-sub001/models"
	"github.com/tallesnicacio/a-pay-sub001/realtime"
	"github.com/tallesnicacio/a-pay-sub001/routes"
	"github.com/tallesnicacio/a-pay-sub001/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	hub    *realtime.Hub
	est    *models.Establishment
	tokens map[string]string // role -> bearer token
}

func setupApp(t *testing.T, hasKitchen, onlineOrdering bool) *testApp {
	return setupAppWithStorage(t, hasKitchen, onlineOrdering, nil)
}

func setupAppWithStorage(t *testing.T, hasKitchen, onlineOrdering bool, storage services.S3Interface) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Establishment{},
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.KitchenTicket{},
		&models.AuditLog{},
	))

	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
		GoEnv:     "test",
	}

	hub := realtime.NewHub(0)
	t.Cleanup(hub.Close)

	router := gin.New()
	routes.Register(router, cfg, db, hub, storage)

	est := models.Establishment{
		Name:           "Casa da Esquina",
		Slug:           "casa-da-esquina",
		Active:         true,
		HasKitchen:     hasKitchen,
		OnlineOrdering: onlineOrdering,
	}
	require.NoError(t, db.Create(&est).Error)

	auth := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	tokens := make(map[string]string)
	for _, role := range []string{models.RoleAdmin, models.RoleCashier, models.RoleKitchen} {
		_, err := auth.CreateUser(est.ID, services.CreateUserInput{
			Name:     role + " user",
			Email:    role + "@test.local",
			Password: "password123",
			Role:     role,
		})
		require.NoError(t, err)
		result, err := auth.Login(role+"@test.local", "password123")
		require.NoError(t, err)
		tokens[role] = result.Token
	}

	return &testApp{router: router, db: db, hub: hub, est: &est, tokens: tokens}
}

func (a *testApp) createProduct(t *testing.T, name string, priceCents int64) *models.Product {
	t.Helper()
	p := models.Product{
		EstablishmentID: a.est.ID,
		Name:            name,
		PriceCents:      priceCents,
		Active:          true,
	}
	require.NoError(t, a.db.Create(&p).Error)
	return &p
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}
