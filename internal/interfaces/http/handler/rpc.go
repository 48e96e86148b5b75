package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appsync "github.com/partnerbridge/backend/internal/application/sync"
	"github.com/partnerbridge/backend/internal/domain/shared"
	domainsync "github.com/partnerbridge/backend/internal/domain/sync"
)

// JSON-RPC error codes
const (
	rpcParseError     = -32700
	rpcInvalidRequest = -32600
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcInternalError  = -32603
	rpcServerError    = -32000
)

// rpcEnvelope is the incoming JSON-RPC 2.0 request
type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

// rpcErrorBody is the JSON-RPC error object
type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcResult is the outgoing JSON-RPC 2.0 response
type rpcResult struct {
	JSONRPC string        `json:"jsonrpc"`
	Result  any           `json:"result,omitempty"`
	Error   *rpcErrorBody `json:"error,omitempty"`
	ID      any           `json:"id"`
}

// RPCHandler exposes partner synchronization over a JSON-RPC 2.0 endpoint
// for callers that speak the ERP's RPC dialect instead of REST.
type RPCHandler struct {
	BaseHandler
	service *appsync.PartnerService
}

// NewRPCHandler creates a new RPCHandler
func NewRPCHandler(service *appsync.PartnerService) *RPCHandler {
	return &RPCHandler{service: service}
}

// SyncResult is the partner.sync method result
type SyncResult struct {
	Partner *appsync.PartnerResponse `json:"partner"`
	Created bool                     `json:"created"`
}

// Handle processes POST /rpc. Only the partner.sync method is supported;
// its params are the full partner payload. The response echoes the request
// ID per JSON-RPC 2.0.
func (h *RPCHandler) Handle(c *gin.Context) {
	var env rpcEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.rpcError(c, http.StatusBadRequest, rpcParseError, "invalid JSON-RPC request", nil)
		return
	}

	if env.JSONRPC != "2.0" {
		h.rpcError(c, http.StatusBadRequest, rpcInvalidRequest, "jsonrpc must be \"2.0\"", env.ID)
		return
	}

	switch env.Method {
	case "partner.sync":
		h.partnerSync(c, env)
	default:
		h.rpcError(c, http.StatusBadRequest, rpcMethodNotFound, "unknown method: "+env.Method, env.ID)
	}
}

func (h *RPCHandler) partnerSync(c *gin.Context, env rpcEnvelope) {
	var req appsync.UpsertPartnerRequest
	if err := json.Unmarshal(env.Params, &req); err != nil {
		h.rpcError(c, http.StatusBadRequest, rpcInvalidParams, "invalid partner payload", env.ID)
		return
	}
	if req.ExternalID == "" {
		h.rpcError(c, http.StatusBadRequest, rpcInvalidParams, "external_id is required", env.ID)
		return
	}

	resp, created, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domainsync.ErrStaleUpdate) {
			h.rpcError(c, http.StatusConflict, rpcServerError, err.Error(), env.ID)
			return
		}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.rpcError(c, http.StatusBadRequest, rpcServerError, domainErr.Message, env.ID)
			return
		}
		h.rpcError(c, http.StatusInternalServerError, rpcInternalError, "internal error", env.ID)
		return
	}

	c.JSON(http.StatusOK, rpcResult{
		JSONRPC: "2.0",
		Result:  SyncResult{Partner: resp, Created: created},
		ID:      env.ID,
	})
}

func (h *RPCHandler) rpcError(c *gin.Context, status, code int, message string, id any) {
	c.JSON(status, rpcResult{
		JSONRPC: "2.0",
		Error:   &rpcErrorBody{Code: code, Message: message},
		ID:      id,
	})
}
