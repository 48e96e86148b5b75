package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bridgeapp "github.com/partnerbridge/backend/internal/application/bridge"
	syncapp "github.com/partnerbridge/backend/internal/application/sync"
	"github.com/partnerbridge/backend/internal/infrastructure/erp"
	"github.com/partnerbridge/backend/internal/infrastructure/httpclient"
	"github.com/partnerbridge/backend/internal/infrastructure/persistence"
	"github.com/partnerbridge/backend/internal/interfaces/http/handler"
	"github.com/partnerbridge/backend/internal/interfaces/http/middleware"
	"github.com/partnerbridge/backend/internal/interfaces/http/router"
)

const testAPIToken = "integration-test-token"

// fakeERPServer answers the JSON-RPC calls the bulk bridge makes: login,
// reference lookups (empty) and partner create.
func fakeERPServer(t *testing.T, created *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Params struct {
				Service string `json:"service"`
				Method  string `json:"method"`
				Args    []any  `json:"args"`
			} `json:"params"`
			ID any `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result any
		switch req.Params.Service {
		case "common":
			result = 7
		case "object":
			// args: [db, uid, password, model, method, args, kwargs?]
			model := req.Params.Args[3].(string)
			method := req.Params.Args[4].(string)
			if model == "res.partner" && method == "create" {
				*created++
				result = 100 + *created
			} else {
				result = []any{}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"result":  result,
			"id":      req.ID,
		})
	}))
}

// newTestServer wires the full HTTP stack against a containerized database
func newTestServer(t *testing.T, tdb *TestDB, erpURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	erpHTTP := httpclient.New(httpclient.Options{MaxRetries: 1, BackoffBase: time.Millisecond, BackoffCap: time.Millisecond, Timeout: 5 * time.Second})
	erpClient := erp.NewClient(erpURL, "testdb", "svc", "secret", erpHTTP, nil)
	erpBridge := erp.NewBridge(erpClient, nil)

	partnerRepo := persistence.NewGormPartnerRepository(tdb.DB)
	partnerService := syncapp.NewPartnerService(partnerRepo, nil)
	bridgeService := bridgeapp.NewService(partnerRepo, erpBridge, nil)

	partnerHandler := handler.NewPartnerHandler(partnerService)
	rpcHandler := handler.NewRPCHandler(partnerService)
	bridgeHandler := handler.NewBridgeHandler(bridgeService)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	auth := middleware.BearerAuth(middleware.BearerAuthConfig{Token: testAPIToken})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	partnerRoutes := router.NewDomainGroup("partners", "/partners")
	partnerRoutes.Use(auth)
	partnerRoutes.POST("", partnerHandler.Upsert)
	partnerRoutes.GET("/:external_id", partnerHandler.Get)
	partnerRoutes.PUT("/:external_id", partnerHandler.Update)
	partnerRoutes.DELETE("/:external_id", partnerHandler.Delete)
	r.Register(partnerRoutes)

	rpcRoutes := router.NewDomainGroup("rpc", "/rpc")
	rpcRoutes.Use(auth)
	rpcRoutes.POST("", rpcHandler.Handle)
	r.Register(rpcRoutes)

	syncRoutes := router.NewDomainGroup("sync", "/sync")
	syncRoutes.Use(auth)
	syncRoutes.POST("/erp", bridgeHandler.SyncAll)
	r.Register(syncRoutes)

	r.Setup()
	return engine
}

func request(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestPartnerAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	createdInERP := 0
	erpSrv := fakeERPServer(t, &createdInERP)
	defer erpSrv.Close()

	engine := newTestServer(t, tdb, erpSrv.URL+"/jsonrpc")

	t.Run("requests without a token are rejected", func(t *testing.T) {
		w := request(t, engine, http.MethodPost, "/api/v1/partners", "", map[string]any{"external_id": "ext-2001"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("requests with a wrong token are forbidden", func(t *testing.T) {
		w := request(t, engine, http.MethodPost, "/api/v1/partners", "wrong", map[string]any{"external_id": "ext-2001"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("upsert is idempotent per external id", func(t *testing.T) {
		payload := map[string]any{
			"external_id": "ext-2001",
			"name":        "Comercial Andina",
			"email":       "ventas@andina.pe",
		}

		w := request(t, engine, http.MethodPost, "/api/v1/partners", testAPIToken, payload)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = request(t, engine, http.MethodPost, "/api/v1/partners", testAPIToken, payload)
		assert.Equal(t, http.StatusOK, w.Code)

		w = request(t, engine, http.MethodGet, "/api/v1/partners/ext-2001", testAPIToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Comercial Andina", resp.Data["name"])
	})

	t.Run("stale stamped upsert is rejected", func(t *testing.T) {
		w := request(t, engine, http.MethodPost, "/api/v1/partners", testAPIToken, map[string]any{
			"external_id": "ext-2002",
			"name":        "Current",
			"updated_at":  "2026-05-10T12:00:00Z",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		w = request(t, engine, http.MethodPost, "/api/v1/partners", testAPIToken, map[string]any{
			"external_id": "ext-2002",
			"name":        "Stale",
			"updated_at":  "2026-05-01T12:00:00Z",
		})
		assert.Equal(t, http.StatusConflict, w.Code)

		// Stored record is untouched
		w = request(t, engine, http.MethodGet, "/api/v1/partners/ext-2002", testAPIToken, nil)
		var resp struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Current", resp.Data["name"])
	})

	t.Run("rpc endpoint syncs partners", func(t *testing.T) {
		w := request(t, engine, http.MethodPost, "/api/v1/rpc", testAPIToken, map[string]any{
			"jsonrpc": "2.0",
			"method":  "partner.sync",
			"params":  map[string]any{"external_id": "ext-2003", "name": "RPC Partner"},
			"id":      11,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Result map[string]any `json:"result"`
			ID     any            `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(11), resp.ID)
		assert.Equal(t, true, resp.Result["created"])
	})

	t.Run("bulk sync pushes every stored partner to the ERP", func(t *testing.T) {
		w := request(t, engine, http.MethodPost, "/api/v1/sync/erp", testAPIToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Data["status"])
		assert.Equal(t, float64(3), resp.Data["total"])
		assert.Equal(t, 3, createdInERP)
	})

	t.Run("delete removes the partner", func(t *testing.T) {
		w := request(t, engine, http.MethodDelete, "/api/v1/partners/ext-2003", testAPIToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = request(t, engine, http.MethodGet, "/api/v1/partners/ext-2003", testAPIToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
