package registry

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/partnerbridge/backend/internal/domain/registry"
)

// rucCompleter builds company contact values from a SUNAT record and the
// ERP geography chain.
type rucCompleter struct {
	client   registry.Client
	resolver LocationResolver
	logger   *zap.Logger
}

// Complete writes every field, present or not. Absent registry values and
// unresolved geography levels are written as false, which clears the stale
// value on the contact instead of leaving it behind.
func (c *rucCompleter) Complete(ctx context.Context, number string) (map[string]any, error) {
	dto, err := c.client.FetchRUC(ctx, number)
	if err != nil {
		return nil, err
	}

	values := map[string]any{
		"company_type":               "company",
		"type":                       "contact",
		"name":                       charValue(dto.RazonSocial),
		"vat":                        charValue(dto.NumeroDocumento),
		"street":                     charValue(dto.Direccion),
		"sunat_state":                charValue(dto.Estado),
		"sunat_condition":            charValue(dto.Condicion),
		"sunat_ubigeo":               charValue(dto.Ubigeo),
		"sunat_company_type":         charValue(dto.Tipo),
		"sunat_economy_activity":     charValue(dto.ActividadEconomica),
		"sunat_invoicing":            charValue(dto.TipoFacturacion),
		"sunat_accountant":           charValue(dto.TipoContabilidad),
		"sunat_foreign_trade":        charValue(dto.ComercioExterior),
		"sunat_is_withholding_agent": boolValue(dto.EsAgenteRetencion),
		"sunat_is_good_taxpayer":     boolValue(dto.EsBuenContribuyente),
		"sunat_workers":              workersValue(dto.NumeroTrabajadores),
	}

	location, err := c.resolver.Resolve(ctx, dto.Departamento, dto.Provincia, dto.Distrito)
	if err != nil {
		return nil, err
	}
	values["state_id"] = idValue(location.StateID)
	values["city_id"] = idValue(location.CityID)
	values["l10n_pe_district"] = idValue(location.DistrictID)

	return values, nil
}

// dniCompleter builds person contact values from a RENIEC record.
type dniCompleter struct {
	client registry.Client
}

func (c *dniCompleter) Complete(ctx context.Context, number string) (map[string]any, error) {
	dto, err := c.client.FetchDNI(ctx, number)
	if err != nil {
		return nil, err
	}

	values := map[string]any{
		"company_type": "person",
		"type":         "contact",
	}
	putValue(values, "vat", dto.DocumentNumber)

	if name := personName(dto); name != "" {
		values["name"] = name
	}
	return values, nil
}

// personName prefers the registry's own full name and falls back to
// joining the name parts.
func personName(dto *registry.ReniecDTO) string {
	if dto.FullName != nil && strings.TrimSpace(*dto.FullName) != "" {
		return strings.TrimSpace(*dto.FullName)
	}
	parts := make([]string, 0, 3)
	for _, part := range []*string{dto.FirstName, dto.FirstLastName, dto.SecondLastName} {
		if part != nil && strings.TrimSpace(*part) != "" {
			parts = append(parts, strings.TrimSpace(*part))
		}
	}
	return strings.Join(parts, " ")
}

func putValue(values map[string]any, key string, value *string) {
	if value != nil {
		values[key] = *value
	}
}

// charValue maps an absent string to false, the ERP's clear marker for
// char fields.
func charValue(value *string) any {
	if value != nil {
		return *value
	}
	return false
}

func boolValue(value *bool) any {
	if value != nil {
		return *value
	}
	return false
}

// idValue maps an unresolved record ID to false so the relational field is
// cleared rather than kept.
func idValue(value *int) any {
	if value != nil {
		return *value
	}
	return false
}

// workersValue parses the worker count, clearing the field when the
// registry omits it or sends something non-numeric.
func workersValue(value *string) any {
	if value != nil {
		if workers, err := strconv.Atoi(strings.TrimSpace(*value)); err == nil {
			return workers
		}
	}
	return false
}
