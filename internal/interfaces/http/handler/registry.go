package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appregistry "github.com/partnerbridge/backend/internal/application/registry"
	"github.com/partnerbridge/backend/internal/domain/shared"
	"github.com/partnerbridge/backend/internal/infrastructure/httpclient"
	"github.com/partnerbridge/backend/internal/interfaces/http/dto"
)

// RegistryHandler exposes national-registry lookups and the autocomplete
// apply operation
type RegistryHandler struct {
	BaseHandler
	service *appregistry.AutocompleteService
}

// NewRegistryHandler creates a new RegistryHandler
func NewRegistryHandler(service *appregistry.AutocompleteService) *RegistryHandler {
	return &RegistryHandler{service: service}
}

// LookupRUC handles GET /registry/ruc/:number
func (h *RegistryHandler) LookupRUC(c *gin.Context) {
	record, err := h.service.LookupRUC(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.handleRegistryError(c, err)
		return
	}
	h.Success(c, record)
}

// LookupDNI handles GET /registry/dni/:number
func (h *RegistryHandler) LookupDNI(c *gin.Context) {
	record, err := h.service.LookupDNI(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.handleRegistryError(c, err)
		return
	}
	h.Success(c, record)
}

// Apply handles POST /registry/apply
func (h *RegistryHandler) Apply(c *gin.Context) {
	var req appregistry.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := validationDetails(err); details != nil {
			h.ValidationError(c, details)
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	result, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		h.handleRegistryError(c, err)
		return
	}
	h.Success(c, result)
}

// handleRegistryError maps registry failures: domain errors keep their
// status, raw upstream failures become 502.
func (h *RegistryHandler) handleRegistryError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.HandleDomainError(c, err)
		return
	}

	var upstreamErr *httpclient.UpstreamError
	if errors.As(err, &upstreamErr) {
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstreamFailed, "registry lookup failed upstream")
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
