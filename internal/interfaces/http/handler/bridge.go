package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partnerbridge/backend/internal/application/bridge"
	"github.com/partnerbridge/backend/internal/domain/shared"
	"github.com/partnerbridge/backend/internal/interfaces/http/dto"
)

// BridgeHandler triggers the bulk push of stored partners into the ERP
type BridgeHandler struct {
	BaseHandler
	service *bridge.Service
}

// NewBridgeHandler creates a new BridgeHandler
func NewBridgeHandler(service *bridge.Service) *BridgeHandler {
	return &BridgeHandler{service: service}
}

// SyncResponse reports the outcome of a bulk push
type SyncResponse struct {
	Status  string `json:"status"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Total   int    `json:"total"`
}

// SyncAll handles POST /sync. Any failure while talking to the ERP,
// including authentication, surfaces as 502 so callers can distinguish
// bridge errors from their own bad requests.
func (h *BridgeHandler) SyncAll(c *gin.Context) {
	result, err := h.service.SyncAll(c.Request.Context())
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOT_CONFIGURED" {
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeNotConfigured, domainErr.Message)
			return
		}
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstreamFailed, "bulk push to ERP failed: "+err.Error())
		return
	}

	h.Success(c, SyncResponse{
		Status:  "ok",
		Created: result.Created,
		Updated: result.Updated,
		Total:   result.Total,
	})
}
