// Package registry exposes the national-registry autocomplete operations:
// raw lookups plus completing an ERP contact from registry data.
package registry

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/partnerbridge/backend/internal/domain/registry"
	"github.com/partnerbridge/backend/internal/infrastructure/erp"
	"github.com/partnerbridge/backend/internal/infrastructure/telemetry"
)

// LocationResolver maps registry place names to ERP geography record IDs.
type LocationResolver interface {
	Resolve(ctx context.Context, department, province, district *string) (*erp.Location, error)
}

// PartnerWriter writes raw field values onto an ERP partner record.
type PartnerWriter interface {
	WritePartnerValues(ctx context.Context, partnerID int, values map[string]any) error
}

// Completer turns a document number into the ERP field values derived from
// its registry record. One completer exists per document kind; selection is
// by the explicit kind tag, never by payload inspection.
type Completer interface {
	Complete(ctx context.Context, number string) (map[string]any, error)
}

// AutocompleteService looks up documents in the national registries and
// applies the result to ERP contacts.
type AutocompleteService struct {
	client     registry.Client
	completers map[registry.DocumentKind]Completer
	writer     PartnerWriter
	logger     *zap.Logger
}

// NewAutocompleteService wires the default RUC and DNI completers.
func NewAutocompleteService(client registry.Client, resolver LocationResolver, writer PartnerWriter, logger *zap.Logger) *AutocompleteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutocompleteService{
		client: client,
		completers: map[registry.DocumentKind]Completer{
			registry.DocumentKindRUC: &rucCompleter{client: client, resolver: resolver, logger: logger},
			registry.DocumentKindDNI: &dniCompleter{client: client},
		},
		writer: writer,
		logger: logger,
	}
}

// LookupRUC fetches the SUNAT record for an 11-digit tax ID.
func (s *AutocompleteService) LookupRUC(ctx context.Context, number string) (*registry.SunatDTO, error) {
	number = strings.TrimSpace(number)
	if kind, err := registry.DetectDocumentKind(number); err != nil || kind != registry.DocumentKindRUC {
		return nil, registry.ErrUnknownDocumentKind
	}
	return s.client.FetchRUC(ctx, number)
}

// LookupDNI fetches the RENIEC record for an 8-digit citizen ID.
func (s *AutocompleteService) LookupDNI(ctx context.Context, number string) (*registry.ReniecDTO, error) {
	number = strings.TrimSpace(number)
	if kind, err := registry.DetectDocumentKind(number); err != nil || kind != registry.DocumentKindDNI {
		return nil, registry.ErrUnknownDocumentKind
	}
	return s.client.FetchDNI(ctx, number)
}

// ApplyRequest asks for a document to be completed. Kind is optional; when
// empty it is inferred from the number format. When ERPPartnerID is set the
// computed values are also written to that ERP contact.
type ApplyRequest struct {
	Number       string  `json:"number" binding:"required,min=8,max=11"`
	Kind         *string `json:"kind" binding:"omitempty,oneof=ruc dni"`
	ERPPartnerID *int    `json:"erp_partner_id" binding:"omitempty,gt=0"`
}

// ApplyResult carries the computed ERP field values and whether they were
// written to a contact.
type ApplyResult struct {
	Kind    registry.DocumentKind `json:"kind"`
	Values  map[string]any        `json:"values"`
	Applied bool                  `json:"applied"`
}

// Apply completes a document and optionally writes the result to an ERP
// contact.
func (s *AutocompleteService) Apply(ctx context.Context, req ApplyRequest) (*ApplyResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "registry.apply")
	defer span.End()

	number := strings.TrimSpace(req.Number)

	var kind registry.DocumentKind
	if req.Kind != nil {
		kind = registry.DocumentKind(*req.Kind)
	} else {
		detected, err := registry.DetectDocumentKind(number)
		if err != nil {
			return nil, err
		}
		kind = detected
	}

	completer, ok := s.completers[kind]
	if !ok {
		return nil, registry.ErrUnknownDocumentKind
	}

	values, err := completer.Complete(ctx, number)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &ApplyResult{Kind: kind, Values: values}
	if req.ERPPartnerID != nil {
		if err := s.writer.WritePartnerValues(ctx, *req.ERPPartnerID, values); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		result.Applied = true
		s.logger.Info("registry data applied to contact",
			zap.Int("erp_partner_id", *req.ERPPartnerID),
			zap.String("kind", string(kind)),
		)
	}
	return result, nil
}
