package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/aishop/storefront/internal/application/catalog"
	galleryapp "github.com/aishop/storefront/internal/application/gallery"
	"github.com/aishop/storefront/internal/infrastructure/cache"
	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/aishop/storefront/internal/infrastructure/persistence"
	"github.com/aishop/storefront/internal/interfaces/http/dto"
	"github.com/aishop/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db       *persistence.Database
	products *catalogapp.ProductService
	bills    *galleryapp.BillService
	router   *gin.Engine
}

// newTestEnv wires real services over an in-memory SQLite database
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	middleware.SetupValidator()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zaptest.NewLogger(t)
	listing := cache.NewInMemoryListingCache(time.Minute)
	t.Cleanup(func() { _ = listing.Close() })

	env := &testEnv{
		db:       db,
		products: catalogapp.NewProductService(persistence.NewGormProductRepository(db.DB), listing, log),
		bills:    galleryapp.NewBillService(persistence.NewGormBillRepository(db.DB), listing, log),
		router:   gin.New(),
	}
	env.router.Use(middleware.RequestID())
	return env
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	resp := decode[dto.ErrorResponse](t, w)
	require.False(t, resp.Success)
	return resp.Error
}

func validProduct(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "Shared account",
		"pricingTiers": []map[string]any{
			{"duration": "1 tháng", "requestLimit": "Unlimited", "price": 150000},
			{"duration": "3 tháng", "requestLimit": "Unlimited", "price": 300000},
		},
		"icon":        "Bot",
		"features":    []string{"GPT-4", "Fast"},
		"tag":         "Hot",
		"contactLink": "https://zalo.me/0900000000",
	}
}

func (e *testEnv) seedProduct(t *testing.T, name string) catalogapp.ProductResponse {
	t.Helper()
	var req catalogapp.CreateProductRequest
	raw, err := json.Marshal(validProduct(name))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &req))

	p, err := e.products.Create(t.Context(), req)
	require.NoError(t, err)
	return *p
}
