package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appregistry "github.com/partnerbridge/backend/internal/application/registry"
	"github.com/partnerbridge/backend/internal/domain/registry"
	"github.com/partnerbridge/backend/internal/infrastructure/erp"
	"github.com/partnerbridge/backend/internal/infrastructure/httpclient"
	"github.com/partnerbridge/backend/internal/interfaces/http/dto"
)

type stubRegistryClient struct {
	ruc    *registry.SunatDTO
	dni    *registry.ReniecDTO
	rucErr error
	dniErr error
}

func (s *stubRegistryClient) FetchRUC(_ context.Context, _ string) (*registry.SunatDTO, error) {
	if s.rucErr != nil {
		return nil, s.rucErr
	}
	return s.ruc, nil
}

func (s *stubRegistryClient) FetchDNI(_ context.Context, _ string) (*registry.ReniecDTO, error) {
	if s.dniErr != nil {
		return nil, s.dniErr
	}
	return s.dni, nil
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, _, _, _ *string) (*erp.Location, error) {
	return &erp.Location{}, nil
}

type stubWriter struct {
	writes int
}

func (w *stubWriter) WritePartnerValues(_ context.Context, _ int, _ map[string]any) error {
	w.writes++
	return nil
}

func setupRegistryRouter(client registry.Client) (*gin.Engine, *stubWriter) {
	gin.SetMode(gin.TestMode)
	writer := &stubWriter{}
	h := NewRegistryHandler(appregistry.NewAutocompleteService(client, stubResolver{}, writer, nil))

	router := gin.New()
	router.GET("/registry/ruc/:number", h.LookupRUC)
	router.GET("/registry/dni/:number", h.LookupDNI)
	router.POST("/registry/apply", h.Apply)
	return router, writer
}

func registryStrPtr(s string) *string { return &s }

func TestRegistryHandler_Lookup(t *testing.T) {
	t.Run("ruc lookup returns the sunat record", func(t *testing.T) {
		router, _ := setupRegistryRouter(&stubRegistryClient{ruc: &registry.SunatDTO{
			RazonSocial:     registryStrPtr("COMERCIAL ANDINA S.A.C."),
			NumeroDocumento: registryStrPtr("20123456789"),
		}})

		w := doJSON(t, router, http.MethodGet, "/registry/ruc/20123456789", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, "COMERCIAL ANDINA S.A.C.", data["razon_social"])
	})

	t.Run("invalid number format is 400", func(t *testing.T) {
		router, _ := setupRegistryRouter(&stubRegistryClient{})

		w := doJSON(t, router, http.MethodGet, "/registry/ruc/123", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	})

	t.Run("no registry data is 404", func(t *testing.T) {
		router, _ := setupRegistryRouter(&stubRegistryClient{dniErr: registry.ErrNoRegistryData})

		w := doJSON(t, router, http.MethodGet, "/registry/dni/45678912", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("upstream failure is 502", func(t *testing.T) {
		router, _ := setupRegistryRouter(&stubRegistryClient{
			rucErr: &httpclient.UpstreamError{StatusCode: http.StatusInternalServerError},
		})

		w := doJSON(t, router, http.MethodGet, "/registry/ruc/20123456789", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeUpstreamFailed, resp.Error.Code)
	})
}

func TestRegistryHandler_Apply(t *testing.T) {
	t.Run("applies dni values to a contact", func(t *testing.T) {
		router, writer := setupRegistryRouter(&stubRegistryClient{dni: &registry.ReniecDTO{
			FullName:       registryStrPtr("MARIA QUISPE HUAMAN"),
			DocumentNumber: registryStrPtr("45678912"),
		}})

		w := doJSON(t, router, http.MethodPost, "/registry/apply", map[string]any{
			"number":     "45678912",
			"erp_partner_id": 42,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, writer.writes)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, "dni", data["kind"])
		assert.Equal(t, true, data["applied"])
	})

	t.Run("lookup without partner id does not write", func(t *testing.T) {
		router, writer := setupRegistryRouter(&stubRegistryClient{dni: &registry.ReniecDTO{
			DocumentNumber: registryStrPtr("45678912"),
		}})

		w := doJSON(t, router, http.MethodPost, "/registry/apply", map[string]any{
			"number": "45678912",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, writer.writes)
	})

	t.Run("missing number fails validation", func(t *testing.T) {
		router, _ := setupRegistryRouter(&stubRegistryClient{})

		w := doJSON(t, router, http.MethodPost, "/registry/apply", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
