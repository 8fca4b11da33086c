package main

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/infrastructure/cache"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/phonestore/backend/internal/infrastructure/telemetry"
	"github.com/phonestore/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminUser     = "root"
	adminPassword = "s3cret-pass"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		App:      config.AppConfig{Name: "phonestore", Env: "test"},
		Database: testutil.SQLiteConfig(t),
		JWT:      config.JWTConfig{Secret: "test-secret-with-enough-length", Issuer: "phonestore", Expiration: time.Hour},
		Cookie:   config.CookieConfig{SessionName: "ps_session", AdminName: "ps_admin", SameSite: "lax"},
		Session:  config.SessionConfig{TTL: time.Hour, IdempotencyTTL: time.Hour},
		HTTP:     config.HTTPConfig{MaxBodySize: 1 << 20},
		Storage:  config.StorageConfig{Driver: "memory"},
		Seed:     config.SeedConfig{Enabled: true, AdminUsername: adminUser, AdminPassword: adminPassword},
	}

	db := testutil.NewSQLiteDatabase(t)
	stores := cache.NewStoreFactory(cfg.Redis, cfg.Session).CreateInMemory()
	t.Cleanup(func() { _ = stores.Close() })
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, zap.NewNop())
	require.NoError(t, err)

	app, err := newApplication(ctx, cfg, zap.NewNop(), db, stores, tel)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close(context.Background()) })
	return app.Engine()
}

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

func signInAdmin(t *testing.T, engine *gin.Engine) *testutil.Client {
	t.Helper()
	admin := testutil.NewClient(t, engine)
	resp := admin.Do(http.MethodPost, "/api/v1/admin/auth/login", map[string]string{
		"username": adminUser,
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	login := testutil.DecodeData[struct {
		Token string `json:"token"`
	}](t, resp)
	require.NotEmpty(t, login.Token)
	admin.SetHeader("Authorization", "Bearer "+login.Token)
	return admin
}

func createProduct(t *testing.T, admin *testutil.Client, stock int) uuid.UUID {
	t.Helper()
	resp := admin.Do(http.MethodPost, "/api/v1/admin/categories", map[string]string{"name": "Smartphones"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	category := testutil.DecodeData[idResponse](t, resp)

	resp = admin.Do(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name":                   "Galaxy S24",
		"short_description":      "Flagship phone",
		"price":                  "21990000",
		"stock":                  stock,
		"category_id":            category.ID,
		"warranty_period_months": 12,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return testutil.DecodeData[idResponse](t, resp).ID
}

func productStock(t *testing.T, admin *testutil.Client, id uuid.UUID) int {
	t.Helper()
	resp := admin.Get("/api/v1/admin/products/" + id.String())
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return testutil.DecodeData[struct {
		Stock int `json:"stock"`
	}](t, resp).Stock
}

func signUpCustomer(t *testing.T, engine *gin.Engine) (*testutil.Client, uuid.UUID) {
	t.Helper()
	customer := testutil.NewClient(t, engine)
	resp := customer.Do(http.MethodPost, "/api/v1/store/customers/register", map[string]any{
		"name":     "Lan Nguyen",
		"email":    "lan@example.com",
		"phone":    "0901234567",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = customer.Do(http.MethodPost, "/api/v1/store/customers/me/addresses", map[string]any{
		"recipient_name": "Lan Nguyen",
		"phone":          "0901234567",
		"address_line":   "12 Le Loi",
		"ward":           "Ben Nghe",
		"district":       "District 1",
		"province":       "Ho Chi Minh City",
		"is_default":     true,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return customer, testutil.DecodeData[idResponse](t, resp).ID
}

func TestApplication_CheckoutToCancellation(t *testing.T) {
	engine := newTestEngine(t)
	admin := signInAdmin(t, engine)
	productID := createProduct(t, admin, 2)
	customer, addressID := signUpCustomer(t, engine)

	resp := customer.Do(http.MethodPost, "/api/v1/store/cart/items", map[string]any{
		"product_id": productID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	cart := testutil.DecodeData[struct {
		Total     decimal.Decimal `json:"total"`
		ItemCount int             `json:"item_count"`
	}](t, resp)
	assert.Equal(t, 1, cart.ItemCount)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(21990000)))

	order := map[string]any{
		"shipping_address_id": addressID,
		"payment_method":      "cash_on_delivery",
	}
	resp = customer.Do(http.MethodPost, "/api/v1/store/checkout/orders", order, "Idempotency-Key", "order-1")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	placed := testutil.DecodeData[struct {
		OrderID            uuid.UUID `json:"order_id"`
		RedirectToWarranty bool      `json:"redirect_to_warranty"`
	}](t, resp)
	require.NotEqual(t, uuid.Nil, placed.OrderID)
	assert.True(t, placed.RedirectToWarranty)

	t.Run("replayed key is rejected", func(t *testing.T) {
		resp := customer.Do(http.MethodPost, "/api/v1/store/checkout/orders", order, "Idempotency-Key", "order-1")
		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Equal(t, "ERR_DUPLICATE_REQUEST", resp.Envelope().ErrorCode())
	})

	t.Run("cart is emptied", func(t *testing.T) {
		count := testutil.DecodeData[struct {
			Count int `json:"count"`
		}](t, customer.Get("/api/v1/store/cart/count"))
		assert.Zero(t, count.Count)
	})

	assert.Equal(t, 1, productStock(t, admin, productID))

	resp = customer.Get("/api/v1/store/warranties")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	mine := testutil.DecodeData[struct {
		Items []struct {
			WarrantyCode string    `json:"warranty_code"`
			OrderID      uuid.UUID `json:"order_id"`
		} `json:"items"`
		Total int64 `json:"total"`
	}](t, resp)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, placed.OrderID, mine.Items[0].OrderID)
	code := mine.Items[0].WarrantyCode
	assert.True(t, strings.HasPrefix(code, "WR"), code)

	type checkResult struct {
		WarrantyCode string `json:"warranty_code"`
		Status       string `json:"status"`
		IsActive     bool   `json:"is_active"`
	}
	anonymous := testutil.NewClient(t, engine)
	check := testutil.DecodeData[checkResult](t, anonymous.Get("/api/v1/store/warranties/check?code="+code))
	assert.Equal(t, code, check.WarrantyCode)
	assert.Equal(t, "Active", check.Status)
	assert.True(t, check.IsActive)

	resp = admin.Do(http.MethodPut, "/api/v1/admin/orders/"+placed.OrderID.String()+"/status", map[string]string{"status": "Cancelled"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Equal(t, 2, productStock(t, admin, productID))
	check = testutil.DecodeData[checkResult](t, anonymous.Get("/api/v1/store/warranties/check?code="+code))
	assert.Equal(t, "Void", check.Status)
	assert.False(t, check.IsActive)

	t.Run("cancelled is terminal", func(t *testing.T) {
		resp := admin.Do(http.MethodPut, "/api/v1/admin/orders/"+placed.OrderID.String()+"/status", map[string]string{"status": "Processing"})
		assert.Equal(t, "ERR_INVALID_STATE", resp.Envelope().ErrorCode())
		assert.Equal(t, 2, productStock(t, admin, productID))
	})
}

func TestApplication_CustomerSelfService(t *testing.T) {
	engine := newTestEngine(t)
	admin := signInAdmin(t, engine)
	productID := createProduct(t, admin, 2)
	customer, addressID := signUpCustomer(t, engine)

	resp := customer.Do(http.MethodPut, "/api/v1/store/customers/me", map[string]any{
		"name":  "Lan Tran",
		"email": "lan.tran@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = customer.Do(http.MethodPut, "/api/v1/store/customers/me/password", map[string]any{
		"current_password": "wrong-one",
		"new_password":     "secret456",
		"confirm_password": "secret456",
	})
	assert.Equal(t, "ERR_INVALID_INPUT", resp.Envelope().ErrorCode())
	resp = customer.Do(http.MethodPut, "/api/v1/store/customers/me/password", map[string]any{
		"current_password": "secret123",
		"new_password":     "secret456",
		"confirm_password": "secret456",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	fresh := testutil.NewClient(t, engine)
	resp = fresh.Do(http.MethodPost, "/api/v1/store/customers/login", map[string]any{
		"email":    "lan.tran@example.com",
		"password": "secret456",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = customer.Do(http.MethodPost, "/api/v1/store/cart/items", map[string]any{"product_id": productID, "quantity": 1})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	resp = customer.Do(http.MethodPost, "/api/v1/store/checkout/orders", map[string]any{
		"shipping_address_id": addressID,
		"payment_method":      "cash_on_delivery",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	orderID := testutil.DecodeData[struct {
		OrderID uuid.UUID `json:"order_id"`
	}](t, resp).OrderID
	assert.Equal(t, 1, productStock(t, admin, productID))

	orderPath := "/api/v1/store/customers/me/orders/" + orderID.String()
	resp = customer.Get(orderPath)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	t.Run("other customers cannot see or cancel it", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, fresh.Get("/api/v1/store/customers/me/orders/"+uuid.NewString()).Code)
		resp := fresh.Do(http.MethodPost, "/api/v1/store/customers/me/orders/"+uuid.NewString()+"/cancel", nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	resp = customer.Do(http.MethodPost, orderPath+"/cancel", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 2, productStock(t, admin, productID))

	resp = customer.Do(http.MethodPost, orderPath+"/cancel", nil)
	assert.Equal(t, "ERR_INVALID_STATE", resp.Envelope().ErrorCode())
	assert.Equal(t, 2, productStock(t, admin, productID))
}

func TestApplication_CheckoutRefusesOversell(t *testing.T) {
	engine := newTestEngine(t)
	admin := signInAdmin(t, engine)
	productID := createProduct(t, admin, 1)
	customer, addressID := signUpCustomer(t, engine)

	resp := customer.Do(http.MethodPost, "/api/v1/store/cart/items", map[string]any{"product_id": productID, "quantity": 1})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// stock runs out between adding to the cart and placing the order
	resp = admin.Do(http.MethodPut, "/api/v1/admin/products/"+productID.String(), map[string]any{
		"name":        "Galaxy S24",
		"price":       "21990000",
		"stock":       0,
		"category_id": createdCategory(t, admin, productID),
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = customer.Do(http.MethodPost, "/api/v1/store/checkout/orders", map[string]any{
		"shipping_address_id": addressID,
		"payment_method":      "cash_on_delivery",
	})
	assert.Equal(t, "ERR_INSUFFICIENT_STOCK", resp.Envelope().ErrorCode(), resp.Body.String())
	assert.Equal(t, 0, productStock(t, admin, productID))

	orders := testutil.DecodeData[[]idResponse](t, customer.Get("/api/v1/store/customers/me/orders"))
	assert.Empty(t, orders)
}

func createdCategory(t *testing.T, admin *testutil.Client, productID uuid.UUID) uuid.UUID {
	t.Helper()
	return testutil.DecodeData[struct {
		CategoryID uuid.UUID `json:"category_id"`
	}](t, admin.Get("/api/v1/admin/products/"+productID.String())).CategoryID
}

func TestApplication_AdminAreaRequiresCredential(t *testing.T) {
	engine := newTestEngine(t)
	client := testutil.NewClient(t, engine)

	resp := client.Get("/api/v1/admin/products")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = client.Do(http.MethodPost, "/api/v1/admin/auth/login", map[string]string{
		"username": adminUser,
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestApplication_Health(t *testing.T) {
	engine := newTestEngine(t)
	resp := testutil.NewClient(t, engine).Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	health := testutil.DecodeData[struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "up", health.Components["database"])
}

func TestApplication_SchedulesWarrantyExpiry(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		App:       config.AppConfig{Name: "phonestore", Env: "test"},
		Database:  testutil.SQLiteConfig(t),
		JWT:       config.JWTConfig{Secret: "test-secret-with-enough-length", Issuer: "phonestore", Expiration: time.Hour},
		Cookie:    config.CookieConfig{SessionName: "ps_session", AdminName: "ps_admin", SameSite: "lax"},
		Session:   config.SessionConfig{TTL: time.Hour, IdempotencyTTL: time.Hour},
		Storage:   config.StorageConfig{Driver: "memory"},
		Scheduler: config.SchedulerConfig{Enabled: true, Workers: 1, DailyHour: 2},
	}

	db := testutil.NewSQLiteDatabase(t)
	stores := cache.NewStoreFactory(cfg.Redis, cfg.Session).CreateInMemory()
	t.Cleanup(func() { _ = stores.Close() })
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, zap.NewNop())
	require.NoError(t, err)

	app, err := newApplication(ctx, cfg, zap.NewNop(), db, stores, tel)
	require.NoError(t, err)
	defer app.Close(context.Background())

	require.NotNil(t, app.jobs)
	assert.True(t, app.jobs.IsRunning())
	assert.Equal(t, []string{"warranty.expire"}, app.daily.Tasks())

	job, err := app.daily.RunNow("warranty.expire")
	require.NoError(t, err)
	assert.Equal(t, "warranty.expire", job.Name)

	app.Close(context.Background())
	assert.False(t, app.jobs.IsRunning())
}
