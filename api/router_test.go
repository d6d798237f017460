package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusfood/api/admin"
	"campusfood/api/auth"
	"campusfood/api/health"
	"campusfood/api/menu"
	"campusfood/api/order"
	adminapp "campusfood/application/admin"
	authapp "campusfood/application/auth"
	menuapp "campusfood/application/menu"
	orderapp "campusfood/application/order"
	"campusfood/application/reporting"
	"campusfood/config"
	domainorder "campusfood/domain/order"
	"campusfood/infrastructure/persistence/memory"
	"campusfood/infrastructure/persistence/monitor"
	"campusfood/infrastructure/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	auth    *authapp.ApplicationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:  config.AppConfig{Name: "campusfood", Version: "test", Env: "test"},
		CORS: config.CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{"GET", "POST"}},
	}

	store := memory.NewStore()
	hold := monitor.NewHoldMonitor(0)
	uow := memory.NewUnitOfWorkFactory(store, hold)
	menus := memory.NewMenuRepository(store)
	users := memory.NewUserRepository(store)
	orders := memory.NewOrderRepository(store)
	reports := reporting.NewService(memory.NewReportingStore(store), menus)

	tokens, err := security.NewTokenService("router-test-secret", time.Hour, "campusfood")
	require.NoError(t, err)
	issue := func(userID int64, email string) (string, error) {
		return tokens.Issue(security.Identity{UserID: userID, Email: email})
	}

	authService := authapp.NewApplicationService(uow, users, security.NewBcryptHasher(bcrypt.MinCost), issue)
	router := NewRouter(cfg, Controllers{
		Health: health.NewController(cfg, nil, hold),
		Auth:   auth.NewController(authService),
		Menu:   menu.NewController(menuapp.NewApplicationService(menus, reports)),
		Order: order.NewController(orderapp.NewApplicationService(orderapp.Dependencies{
			UnitOfWork: uow, Orders: orders, Menus: menus, Users: users, Reports: reports,
			PricePolicy: domainorder.PriceCatalog,
		})),
		Admin: admin.NewController(adminapp.NewApplicationService(adminapp.Dependencies{
			UnitOfWork: uow, Orders: orders, Menus: menus, Users: users, Reports: reports,
		})),
	}, tokens, authService)
	router.SetupRoutes()

	return &testServer{t: t, handler: router.Engine(), auth: authService}
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (s *testServer) register(email string) (string, int64) {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Student", "email": email, "password": "secret1", "room_number": "A-12",
	})
	require.Equal(s.t, http.StatusCreated, code, env.Message)
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return data.Token, data.User.ID
}

func (s *testServer) admin(email string) string {
	s.t.Helper()
	token, _ := s.register(email)
	_, err := s.auth.GrantAdmin(context.Background(), email)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) createItem(adminToken, name, price, category string) int64 {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/admin/menu", adminToken, map[string]any{
		"name": name, "price": price, "category": category,
	})
	require.Equal(s.t, http.StatusCreated, code, env.Message)
	var item struct {
		ID int64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &item))
	return item.ID
}

func TestOrderFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.admin("chef@campus.edu")
	burger := s.createItem(adminToken, "Burger", "5.00", "Meals")
	juice := s.createItem(adminToken, "Juice", "3.50", "Drinks")
	token, _ := s.register("eve@campus.edu")

	code, env := s.do(http.MethodPost, "/api/orders", token, map[string]any{
		"items": []map[string]any{
			{"menu_item_id": burger, "quantity": 2, "price": 5.00},
			{"menu_item_id": juice, "quantity": 1, "price": "3.50"},
		},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	var placed struct {
		OrderID     int64  `json:"order_id"`
		TotalAmount string `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))
	assert.Equal(t, "13.50", placed.TotalAmount)

	orderPath := fmt.Sprintf("/api/orders/%d", placed.OrderID)
	code, env = s.do(http.MethodGet, orderPath, token, nil)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		Status string `json:"status"`
		Items  []struct {
			Name     string `json:"name"`
			Subtotal string `json:"subtotal"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Pending", detail.Status)
	require.Len(t, detail.Items, 2)

	otherToken, _ := s.register("mallory@campus.edu")
	code, env = s.do(http.MethodGet, orderPath, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error)

	code, env = s.do(http.MethodGet, "/api/orders/meta/stats", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total_spent":"13.50"`)

	code, _ = s.do(http.MethodDelete, orderPath, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, env = s.do(http.MethodDelete, orderPath, token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CANCELLATION_NOT_ALLOWED", env.Error)
}

func TestPlaceOrderRejections(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("frank@campus.edu")

	tests := []struct {
		name string
		body any
		code string
	}{
		{"empty body", nil, "INVALID_ORDER"},
		{"empty items", map[string]any{"items": []any{}}, "INVALID_ORDER"},
		{"items not a list", map[string]any{"items": "burger"}, "INVALID_ORDER"},
		{"missing item", map[string]any{"items": []map[string]any{{"menu_item_id": 99, "quantity": 1, "price": 1}}}, "ITEM_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.do(http.MethodPost, "/api/orders", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.code, env.Error)
			assert.False(t, env.Success)
		})
	}

	code, env := s.do(http.MethodPost, "/api/orders", token, "{not json")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", env.Error)
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHENTICATED", env.Error)

	code, env = s.do(http.MethodGet, "/api/orders", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "invalid token", env.Message)

	token, _ := s.register("grace@campus.edu")
	code, env = s.do(http.MethodGet, "/api/admin/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error)

	code, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "grace@campus.edu", "password": "nope!!"})
	assert.Equal(t, http.StatusUnauthorized, code)
	wrongPassword := env.Message
	_, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@campus.edu", "password": "nope!!"})
	assert.Equal(t, wrongPassword, env.Message)

	code, env = s.do(http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"email":"grace@campus.edu"`)
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.admin("boss@campus.edu")
	item := s.createItem(adminToken, "Soup", "4.00", "Meals")
	token, _ := s.register("hank@campus.edu")

	code, env := s.do(http.MethodPost, "/api/orders", token, map[string]any{
		"order_type": "Takeaway",
		"items":      []map[string]any{{"menu_item_id": item, "quantity": 3, "price": "4.00"}},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var placed struct {
		OrderID int64 `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))
	statusPath := fmt.Sprintf("/api/admin/orders/%d/status", placed.OrderID)

	code, env = s.do(http.MethodPut, statusPath, adminToken, map[string]string{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_STATUS", env.Error)

	code, env = s.do(http.MethodPut, statusPath, adminToken, map[string]string{"status": "Ready"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), `"status":"Ready"`)

	code, env = s.do(http.MethodGet, "/api/admin/orders?status=Ready", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"email":"hank@campus.edu"`)

	code, env = s.do(http.MethodDelete, fmt.Sprintf("/api/admin/menu/%d", item), adminToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error)

	code, env = s.do(http.MethodPut, fmt.Sprintf("/api/admin/menu/%d", item), adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)

	code, env = s.do(http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total_revenue":"12.00"`)

	code, env = s.do(http.MethodGet, "/api/admin/stats/top-items?limit=abc", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", env.Error)
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.admin("cook@campus.edu")
	s.createItem(adminToken, "Tea", "1.50", "Drinks")
	s.createItem(adminToken, "Pie", "2.75", "Bakery")

	code, env := s.do(http.MethodGet, "/api/menu/meta/categories", "", nil)
	require.Equal(t, http.StatusOK, code)
	var categories []string
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.ElementsMatch(t, []string{"Drinks", "Bakery"}, categories)

	code, env = s.do(http.MethodGet, "/api/menu?search=PIE", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"name":"Pie"`)
	assert.NotContains(t, string(env.Data), `"name":"Tea"`)

	code, _ = s.do(http.MethodGet, "/api/menu/meta/popular", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodGet, "/api/menu/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", env.Error)

	code, env = s.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"long_holds":0`)
}
