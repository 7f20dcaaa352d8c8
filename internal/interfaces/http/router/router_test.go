package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appidentity "github.com/facturator/backend/internal/application/identity"
	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/infrastructure/config"
	"github.com/facturator/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.middleware)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterMiddlewareAppliesToVersionedRoutesOnly(t *testing.T) {
	engine := gin.New()
	engine.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })

	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusForbidden)
	})
	r.Register(NewDomainGroup("test", "/test").GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	}))
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDomainGroup(t *testing.T) {
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	group := NewDomainGroup("items", "/items").
		GET("", ok).
		POST("", ok).
		PUT("/:id", ok).
		PATCH("/:id", ok).
		DELETE("/:id", ok)

	assert.Equal(t, "items", group.Name())
	assert.Equal(t, "/items", group.Prefix())
	assert.Len(t, group.routes, 5)

	engine := gin.New()
	group.RegisterRoutes(engine.Group("/api"))

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/items"},
		{http.MethodPost, "/api/items"},
		{http.MethodPut, "/api/items/1"},
		{http.MethodPatch, "/api/items/1"},
		{http.MethodDelete, "/api/items/1"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, tc.method)
		assert.Equal(t, tc.method, w.Body.String())
	}
}

func TestDomainGroupUse(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("items", "/items").
		Use(func(c *gin.Context) {
			c.Header("X-Group", "items")
			c.Next()
		}).
		GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	group.RegisterRoutes(engine.Group(""))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "items", w.Header().Get("X-Group"))
}

type stubBus struct{}

func (stubBus) Handle(_ context.Context, _ any) ([]any, error) {
	return []any{""}, nil
}

type stubQueries struct{}

func (stubQueries) GetPayer(_ context.Context, _ uuid.UUID) (*invoicing.PayerView, error) {
	return nil, nil
}

func (stubQueries) ListPayers(_ context.Context, _ string) (*appinvoicing.PayerList, error) {
	return &appinvoicing.PayerList{Payers: []invoicing.PayerView{}}, nil
}

func (stubQueries) GetOrder(_ context.Context, _ uuid.UUID) (*invoicing.OrderView, error) {
	return nil, nil
}

func (stubQueries) ListOrders(_ context.Context, _ string) (*appinvoicing.OrderList, error) {
	return &appinvoicing.OrderList{Orders: []invoicing.OrderView{}}, nil
}

type stubInvoices struct{}

func (stubInvoices) GetInvoiceContext(_ context.Context, _ string) (*appinvoicing.InvoiceContext, error) {
	return nil, shared.NewDomainError(shared.CodeNotFound, "invoice not found")
}

func (stubInvoices) RenderInvoice(_ context.Context, _ string) (*appinvoicing.InvoiceContext, []byte, error) {
	return nil, nil, shared.NewDomainError(shared.CodeNotFound, "invoice not found")
}

type stubAccounts struct{}

func (stubAccounts) Signup(_ context.Context, _ appidentity.SignupInput) (*appidentity.UserInfo, error) {
	return nil, shared.ErrUnauthorized
}

func (stubAccounts) Login(_ context.Context, _ appidentity.LoginInput) (*appidentity.LoginResult, error) {
	return nil, shared.ErrUnauthorized
}

func (stubAccounts) Logout(_ context.Context, _ string) error {
	return nil
}

func (stubAccounts) Authenticate(_ context.Context, token string) (*appidentity.UserInfo, error) {
	if token == "valid" {
		return &appidentity.UserInfo{PublicID: uuid.New(), Username: "alice"}, nil
	}
	return nil, shared.ErrUnauthorized
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "facturator", Env: "test"},
		Cookie: config.CookieConfig{Name: "token", Path: "/", SameSite: "strict"},
		HTTP:   config.HTTPConfig{MaxBodySize: 1 << 20},
	}
}

func newTestEngine(t *testing.T, cfg *config.Config, opts ...func(*EngineOptions)) *gin.Engine {
	t.Helper()
	handlers := Handlers{
		Health:   handler.NewHealthHandler(map[string]handler.HealthCheck{}),
		Auth:     handler.NewAuthHandler(stubAccounts{}, cfg.Cookie),
		Payers:   handler.NewPayerHandler(stubBus{}, stubQueries{}),
		Orders:   handler.NewOrderHandler(stubBus{}, stubQueries{}, handler.UploadSettings{CodePrefix: "F", StartingNumber: 1}),
		Invoices: handler.NewInvoiceHandler(stubInvoices{}),
	}
	engineOpts := EngineOptions{
		Config:        cfg,
		Logger:        zap.NewNop(),
		Authenticator: stubAccounts{},
	}
	for _, opt := range opts {
		opt(&engineOpts)
	}
	engine, err := NewEngine(engineOpts, handlers)
	require.NoError(t, err)
	return engine
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewEngineRoutes(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/payers", http.StatusOK},
		{http.MethodGet, "/api/v1/payers/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodDelete, "/api/v1/payers/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodGet, "/api/v1/orders", http.StatusOK},
		{http.MethodGet, "/api/v1/orders/not-a-uuid", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/invoices?number=F1", http.StatusNotFound},
		{http.MethodGet, "/api/v1/pdfs?number=F1", http.StatusNotFound},
		{http.MethodGet, "/auth/protected", http.StatusUnauthorized},
		{http.MethodGet, "/swagger/index.html", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewEngineProtectedWithCookie(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "valid"})
	w := serve(engine, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Hello alice", body.Data.Message)
}

func TestNewEngineRequireAuth(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RequireAuth = true
	engine := newTestEngine(t, cfg)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/payers", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payers", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "valid"})
	w = serve(engine, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewEngineWithMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	engine := newTestEngine(t, testConfig(), func(o *EngineOptions) {
		o.Meter = provider.Meter("test")
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/payers", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewEngineInvalidTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.TrustedProxies = []string{"not-an-ip"}

	_, err := NewEngine(EngineOptions{Config: cfg, Logger: zap.NewNop(), Authenticator: stubAccounts{}}, Handlers{})
	assert.Error(t, err)
}
