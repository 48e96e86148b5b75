// Package erp talks to an Odoo-compatible ERP over its JSON-RPC endpoint.
// It carries partner records outward in bulk and resolves reference data
// (countries, identification types, geography) the ERP owns.
package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/partnerbridge/backend/internal/domain/shared"
	"github.com/partnerbridge/backend/internal/infrastructure/httpclient"
)

// rpcRequest is the JSON-RPC 2.0 envelope the ERP expects. The method is
// always "call"; the actual operation lives in params.
type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      string    `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client is a thin JSON-RPC client bound to one ERP database. Login is
// lazy: the first operation authenticates and caches the uid for the
// lifetime of the client. Safe for concurrent use.
type Client struct {
	endpoint string
	db       string
	username string
	password string
	http     *httpclient.Client
	logger   *zap.Logger

	mu  sync.Mutex
	uid int
}

// NewClient creates an ERP client. endpoint is the full /jsonrpc URL.
func NewClient(endpoint, db, username, password string, httpClient *httpclient.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		db:       db,
		username: username,
		password: password,
		http:     httpClient,
		logger:   logger,
	}
}

// Call performs one JSON-RPC call and returns the raw result.
func (c *Client) Call(ctx context.Context, service, method string, args []any, requestID string) (json.RawMessage, error) {
	if c.endpoint == "" {
		return nil, shared.ErrNotConfigured
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON-RPC request: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.endpoint,
		Header: header,
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("JSON-RPC transport failed: %w", err)
	}

	var decoded rpcResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, fmt.Errorf("JSON-RPC response is malformed: %w", err)
	}
	if decoded.Error != nil {
		c.logger.Warn("JSON-RPC call rejected",
			zap.String("service", service),
			zap.String("method", method),
			zap.String("message", decoded.Error.Message),
		)
		return nil, fmt.Errorf("JSON-RPC error: %s", decoded.Error.Message)
	}
	return decoded.Result, nil
}

// Login authenticates against the common service and caches the uid. A
// falsy uid (0, false, null) means the credentials were rejected.
func (c *Client) Login(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.uid != 0 {
		return c.uid, nil
	}

	result, err := c.Call(ctx, "common", "login", []any{c.db, c.username, c.password}, "auth")
	if err != nil {
		return 0, err
	}

	var uid int
	if err := json.Unmarshal(result, &uid); err != nil || uid == 0 {
		return 0, shared.NewDomainError("UNAUTHORIZED", "ERP authentication failed")
	}

	c.uid = uid
	return uid, nil
}

// ExecuteKw invokes a model method through the object service, logging in
// first if needed.
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any, requestID string) (json.RawMessage, error) {
	uid, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}

	callArgs := []any{c.db, uid, c.password, model, method, args}
	if kwargs != nil {
		callArgs = append(callArgs, kwargs)
	}
	return c.Call(ctx, "object", "execute_kw", callArgs, requestID)
}

// SearchRead is a convenience wrapper around the search_read model method.
// domain is a list of triplets, fields the columns to return.
func (c *Client) SearchRead(ctx context.Context, model string, domain []any, fields []string, requestID string) ([]map[string]any, error) {
	kwargs := map[string]any{"fields": fields}
	result, err := c.ExecuteKw(ctx, model, "search_read", []any{domain}, kwargs, requestID)
	if err != nil {
		return nil, err
	}
	return decodeRecords(result)
}

// WritePartnerValues writes raw field values onto an ERP partner record.
func (c *Client) WritePartnerValues(ctx context.Context, partnerID int, values map[string]any) error {
	_, err := c.ExecuteKw(ctx, "res.partner", "write",
		[]any{[]any{partnerID}, values}, nil, fmt.Sprintf("apply-%d", partnerID))
	return err
}

// decodeRecords unmarshals a search_read result into generic records.
func decodeRecords(raw json.RawMessage) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("search_read returned malformed records: %w", err)
	}
	return records, nil
}
