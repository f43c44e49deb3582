package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/foodhub-next/internal/config"
	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/provider"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testPassword = "Passw0rd123"

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type routerFixture struct {
	engine    *gin.Engine
	container *provider.Container
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireLower: true, RequireNumber: true},
		},
		Supplier:  config.SupplierConfig{LeaseTTLSeconds: 3600},
		Dashboard: config.DashboardConfig{CacheTTLSeconds: 0},
	}
	container := provider.NewContainer(cfg)
	return &routerFixture{
		engine:    SetupRouter(cfg, container),
		container: container,
	}
}

func (f *routerFixture) createAccount(t *testing.T, username, role string) *service.CreatedAccount {
	t.Helper()
	created, err := f.container.AccountService.CreateAccount(service.CreateAccountInput{
		Username: username,
		Password: testPassword,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create %s account failed: %v", role, err)
	}
	return created
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
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
	f.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(path, "/api/") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s failed: %v body=%s", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func (f *routerFixture) login(t *testing.T, username string) string {
	t.Helper()
	_, env := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": testPassword,
	})
	if env.StatusCode != 0 {
		t.Fatalf("login %s failed: %d %s", username, env.StatusCode, env.Msg)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login token missing: %v", err)
	}
	return data.Token
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(t)
	w, _ := f.do(t, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz want 200, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestLoginAndMe(t *testing.T) {
	f := newRouterFixture(t)
	f.createAccount(t, "chez-fatou", constants.RoleSupplier)
	token := f.login(t, "chez-fatou")

	_, env := f.do(t, http.MethodGet, "/api/v1/me", token, nil)
	if env.StatusCode != 0 {
		t.Fatalf("me failed: %d %s", env.StatusCode, env.Msg)
	}
	var me struct {
		User     *models.User     `json:"user"`
		Supplier *models.Supplier `json:"supplier"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode me failed: %v", err)
	}
	if me.User == nil || me.User.Role != constants.RoleSupplier {
		t.Fatalf("unexpected me user: %+v", me.User)
	}
	if me.Supplier == nil {
		t.Fatalf("supplier profile should be attached")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := newRouterFixture(t)
	f.createAccount(t, "root", constants.RoleAdmin)
	_, env := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "root",
		"password": "wrong-password1",
	})
	if env.StatusCode != 401 {
		t.Fatalf("want 401, got %d", env.StatusCode)
	}
}

func TestProtectedRoutesRequireAuthAndRole(t *testing.T) {
	f := newRouterFixture(t)
	f.createAccount(t, "chez-fatou", constants.RoleSupplier)

	_, env := f.do(t, http.MethodGet, "/api/v1/supplier/queue", "", nil)
	if env.StatusCode != 401 {
		t.Fatalf("anonymous queue want 401, got %d", env.StatusCode)
	}

	token := f.login(t, "chez-fatou")
	_, env = f.do(t, http.MethodGet, "/api/v1/admin/orders", token, nil)
	if env.StatusCode != 403 {
		t.Fatalf("supplier on admin route want 403, got %d", env.StatusCode)
	}

	_, env = f.do(t, http.MethodGet, "/api/v1/supplier/queue", token, nil)
	if env.StatusCode != 0 {
		t.Fatalf("supplier queue failed: %d %s", env.StatusCode, env.Msg)
	}
}

func TestProductValidationAndCheckoutFlow(t *testing.T) {
	f := newRouterFixture(t)
	f.createAccount(t, "root", constants.RoleAdmin)
	f.createAccount(t, "chez-fatou", constants.RoleSupplier)
	adminToken := f.login(t, "root")
	supplierToken := f.login(t, "chez-fatou")

	_, env := f.do(t, http.MethodPost, "/api/v1/supplier/products", supplierToken, map[string]interface{}{
		"name":           "Thieboudienne",
		"buying_cost":    "1500",
		"proposed_price": "3000",
	})
	if env.StatusCode != 0 {
		t.Fatalf("propose product failed: %d %s", env.StatusCode, env.Msg)
	}
	var proposed models.Product
	if err := json.Unmarshal(env.Data, &proposed); err != nil {
		t.Fatalf("decode product failed: %v", err)
	}
	if proposed.Status != constants.ProductStatusPendingValidation {
		t.Fatalf("proposed product status want pending_validation, got %s", proposed.Status)
	}

	// 待审核商品不可见
	_, env = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/public/products/%d", proposed.ID), "", nil)
	if env.StatusCode != 404 {
		t.Fatalf("pending product should be hidden, got %d", env.StatusCode)
	}

	_, env = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/products/%d/validate", proposed.ID), adminToken, map[string]interface{}{})
	if env.StatusCode != 0 {
		t.Fatalf("validate product failed: %d %s", env.StatusCode, env.Msg)
	}

	_, env = f.do(t, http.MethodGet, "/api/v1/public/products", "", nil)
	if env.StatusCode != 0 {
		t.Fatalf("list public products failed: %d %s", env.StatusCode, env.Msg)
	}
	if strings.Contains(string(env.Data), "buying_cost") || strings.Contains(string(env.Data), "platform_margin") {
		t.Fatalf("public catalog leaks cost fields: %s", string(env.Data))
	}
	if !strings.Contains(string(env.Data), "Thieboudienne") {
		t.Fatalf("validated product should be listed: %s", string(env.Data))
	}

	_, env = f.do(t, http.MethodPost, "/api/v1/public/orders", "", map[string]interface{}{
		"customer_name":    "Awa",
		"customer_phone":   "770000000",
		"delivery_address": "Plateau",
		"items": []map[string]interface{}{
			{"product_id": proposed.ID, "quantity": 2},
		},
	})
	if env.StatusCode != 0 {
		t.Fatalf("checkout failed: %d %s", env.StatusCode, env.Msg)
	}
	var order struct {
		Code        string       `json:"code"`
		TotalAmount models.Money `json:"total_amount"`
	}
	if err := json.Unmarshal(env.Data, &order); err != nil || order.Code == "" {
		t.Fatalf("decode order failed: %v", err)
	}
	if !order.TotalAmount.Equal(models.NewMoneyFromInt(6000).Decimal) {
		t.Fatalf("total want 6000, got %s", order.TotalAmount.String())
	}

	_, env = f.do(t, http.MethodGet, "/api/v1/public/orders/"+order.Code+"?phone=770000000", "", nil)
	if env.StatusCode != 0 {
		t.Fatalf("lookup order failed: %d %s", env.StatusCode, env.Msg)
	}
	_, env = f.do(t, http.MethodGet, "/api/v1/public/orders/"+order.Code+"?phone=780000000", "", nil)
	if env.StatusCode != 404 {
		t.Fatalf("lookup with wrong phone want 404, got %d", env.StatusCode)
	}
}

func TestIsProtectedRoute(t *testing.T) {
	cases := map[string]bool{
		"/api/v1/me":                   true,
		"/api/v1/admin/orders":         true,
		"/api/v1/supplier/queue":       true,
		"/api/v1/public/products":      false,
		"/api/v1/auth/login":           false,
		"/healthz":                     false,
		"/api/v1/partner/withdrawals":  true,
		"/api/v1/administrator/orders": false,
	}
	for path, want := range cases {
		if got := isProtectedRoute(path); got != want {
			t.Fatalf("isProtectedRoute(%s) want %v, got %v", path, want, got)
		}
	}
}
