package registry

import (
	"context"
	"strings"

	"github.com/partnerbridge/backend/internal/domain/shared"
)

// DocumentKind tags the registry a document number belongs to. Lookups are
// selected by this explicit tag, never by inspecting payload shapes at
// runtime.
type DocumentKind string

const (
	DocumentKindRUC DocumentKind = "ruc" // SUNAT tax ID, 11 digits
	DocumentKindDNI DocumentKind = "dni" // RENIEC citizen ID, 8 digits
)

// ErrNoRegistryData is returned when a lookup succeeded transport-wise but
// the registry has no usable record for the requested document. It is a
// domain-level "no data" condition, distinct from a transport failure.
var ErrNoRegistryData = shared.NewDomainError("NOT_FOUND", "No registry data found for the requested document")

// ErrUnknownDocumentKind is returned when a document number matches neither
// registry format and no explicit kind was supplied.
var ErrUnknownDocumentKind = shared.NewDomainError("INVALID_INPUT", "Document number matches neither RUC nor DNI format")

// Client fetches parsed registry responses for the two supported document
// kinds. Implementations fail with ErrNoRegistryData when the payload lacks
// the canonical document-number field.
type Client interface {
	FetchRUC(ctx context.Context, number string) (*SunatDTO, error)
	FetchDNI(ctx context.Context, number string) (*ReniecDTO, error)
}

// DetectDocumentKind infers the registry from the document number format:
// 11 digits is a RUC, 8 digits a DNI. Returns ErrUnknownDocumentKind for
// anything else.
func DetectDocumentKind(number string) (DocumentKind, error) {
	trimmed := strings.TrimSpace(number)
	if !isDigits(trimmed) {
		return "", ErrUnknownDocumentKind
	}
	switch len(trimmed) {
	case 11:
		return DocumentKindRUC, nil
	case 8:
		return DocumentKindDNI, nil
	}
	return "", ErrUnknownDocumentKind
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
