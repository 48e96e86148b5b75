package handler

import (
	"github.com/gin-gonic/gin"

	appsync "github.com/partnerbridge/backend/internal/application/sync"
	"github.com/partnerbridge/backend/internal/domain/shared"
	"github.com/partnerbridge/backend/internal/interfaces/http/dto"
)

// PartnerHandler handles partner synchronization API endpoints
type PartnerHandler struct {
	BaseHandler
	service *appsync.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(service *appsync.PartnerService) *PartnerHandler {
	return &PartnerHandler{service: service}
}

// Upsert handles POST /partners. The full payload either creates the record
// or replaces it wholesale; 201 signals a create, 200 a replace.
func (h *PartnerHandler) Upsert(c *gin.Context) {
	var req appsync.UpsertPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := validationDetails(err); details != nil {
			h.ValidationError(c, details)
			return
		}
		h.Error(c, 400, dto.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	resp, created, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if created {
		h.Created(c, resp)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /partners/:external_id
func (h *PartnerHandler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), c.Param("external_id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /partners/:external_id with a sparse payload
func (h *PartnerHandler) Update(c *gin.Context) {
	var req appsync.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := validationDetails(err); details != nil {
			h.ValidationError(c, details)
			return
		}
		h.Error(c, 400, dto.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("external_id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /partners/:external_id
func (h *PartnerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("external_id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /partners with pagination, ordering and search
func (h *PartnerHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		if details := validationDetails(err); details != nil {
			h.ValidationError(c, details)
			return
		}
		h.BadRequest(c, "invalid query parameters")
		return
	}

	page, err := h.service.List(c.Request.Context(), shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
