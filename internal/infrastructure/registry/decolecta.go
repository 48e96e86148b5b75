// Package registry provides the Decolecta-backed implementation of the
// national registry lookup client, plus a caching decorator.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/partnerbridge/backend/internal/domain/registry"
	"github.com/partnerbridge/backend/internal/domain/shared"
	"github.com/partnerbridge/backend/internal/infrastructure/httpclient"
)

// DecolectaClient queries the Decolecta API for SUNAT (RUC) and RENIEC (DNI)
// records. All calls go through the shared rate-limited retry client, which
// is safe for concurrent use; concurrent lookups share its rate budget.
type DecolectaClient struct {
	baseURL string
	token   string
	http    *httpclient.Client
	logger  *zap.Logger
}

// NewDecolectaClient creates a Decolecta client. The token may be empty, in
// which case every lookup fails with a NOT_CONFIGURED domain error.
func NewDecolectaClient(baseURL, token string, http *httpclient.Client, logger *zap.Logger) *DecolectaClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DecolectaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    http,
		logger:  logger,
	}
}

// FetchRUC looks up a tax ID in the SUNAT registry.
func (c *DecolectaClient) FetchRUC(ctx context.Context, number string) (*registry.SunatDTO, error) {
	payload, err := c.get(ctx, "/sunat/ruc/full", number)
	if err != nil {
		return nil, err
	}
	dto := registry.SunatDTOFromPayload(payload)
	if dto.NumeroDocumento == nil {
		return nil, registry.ErrNoRegistryData
	}
	return dto, nil
}

// FetchDNI looks up a citizen ID in the RENIEC registry.
func (c *DecolectaClient) FetchDNI(ctx context.Context, number string) (*registry.ReniecDTO, error) {
	payload, err := c.get(ctx, "/reniec/dni", number)
	if err != nil {
		return nil, err
	}
	dto := registry.ReniecDTOFromPayload(payload)
	if dto.DocumentNumber == nil {
		return nil, registry.ErrNoRegistryData
	}
	return dto, nil
}

// get performs an authenticated GET against the given endpoint and decodes
// the JSON object it returns.
func (c *DecolectaClient) get(ctx context.Context, path, number string) (map[string]any, error) {
	if c.token == "" {
		return nil, shared.ErrNotConfigured
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)
	header.Set("Accept", "application/json")

	query := url.Values{}
	query.Set("numero", number)

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + path,
		Header: header,
		Query:  query,
	})
	if err != nil {
		var upstreamErr *httpclient.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.StatusCode == http.StatusNotFound {
			return nil, registry.ErrNoRegistryData
		}
		c.logger.Warn("registry lookup failed",
			zap.String("endpoint", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("registry lookup failed: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("registry returned malformed JSON: %w", err)
	}
	return payload, nil
}

var _ registry.Client = (*DecolectaClient)(nil)
