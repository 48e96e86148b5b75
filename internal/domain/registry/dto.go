package registry

// SunatDTO is the immutable parsed form of a tax-ID (RUC) lookup response.
// Every field is optional because the upstream registry may omit any of
// them. A DTO is built once from the raw payload, applied to an ERP contact
// and discarded; it is never persisted.
type SunatDTO struct {
	RazonSocial          *string `json:"razon_social,omitempty"`
	NumeroDocumento      *string `json:"numero_documento,omitempty"`
	Estado               *string `json:"estado,omitempty"`
	Condicion            *string `json:"condicion,omitempty"`
	Direccion            *string `json:"direccion,omitempty"`
	Ubigeo               *string `json:"ubigeo,omitempty"`
	Distrito             *string `json:"distrito,omitempty"`
	Provincia            *string `json:"provincia,omitempty"`
	Departamento         *string `json:"departamento,omitempty"`
	EsAgenteRetencion    *bool   `json:"es_agente_retencion,omitempty"`
	EsBuenContribuyente  *bool   `json:"es_buen_contribuyente,omitempty"`
	Tipo                 *string `json:"tipo,omitempty"`
	ActividadEconomica   *string `json:"actividad_economica,omitempty"`
	NumeroTrabajadores   *string `json:"numero_trabajadores,omitempty"`
	TipoFacturacion      *string `json:"tipo_facturacion,omitempty"`
	TipoContabilidad     *string `json:"tipo_contabilidad,omitempty"`
	ComercioExterior     *string `json:"comercio_exterior,omitempty"`
}

// ReniecDTO is the immutable parsed form of a citizen-ID (DNI) lookup
// response.
type ReniecDTO struct {
	FirstName      *string `json:"first_name,omitempty"`
	FirstLastName  *string `json:"first_last_name,omitempty"`
	SecondLastName *string `json:"second_last_name,omitempty"`
	FullName       *string `json:"full_name,omitempty"`
	DocumentNumber *string `json:"document_number,omitempty"`
}

// SunatDTOFromPayload builds a SunatDTO from a decoded JSON payload.
func SunatDTOFromPayload(payload map[string]any) *SunatDTO {
	return &SunatDTO{
		RazonSocial:         optString(payload, "razon_social"),
		NumeroDocumento:     optString(payload, "numero_documento"),
		Estado:              optString(payload, "estado"),
		Condicion:           optString(payload, "condicion"),
		Direccion:           optString(payload, "direccion"),
		Ubigeo:              optString(payload, "ubigeo"),
		Distrito:            optString(payload, "distrito"),
		Provincia:           optString(payload, "provincia"),
		Departamento:        optString(payload, "departamento"),
		EsAgenteRetencion:   optBool(payload, "es_agente_retencion"),
		EsBuenContribuyente: optBool(payload, "es_buen_contribuyente"),
		Tipo:                optString(payload, "tipo"),
		ActividadEconomica:  optString(payload, "actividad_economica"),
		NumeroTrabajadores:  optString(payload, "numero_trabajadores"),
		TipoFacturacion:     optString(payload, "tipo_facturacion"),
		TipoContabilidad:    optString(payload, "tipo_contabilidad"),
		ComercioExterior:    optString(payload, "comercio_exterior"),
	}
}

// ReniecDTOFromPayload builds a ReniecDTO from a decoded JSON payload.
func ReniecDTOFromPayload(payload map[string]any) *ReniecDTO {
	return &ReniecDTO{
		FirstName:      optString(payload, "first_name"),
		FirstLastName:  optString(payload, "first_last_name"),
		SecondLastName: optString(payload, "second_last_name"),
		FullName:       optString(payload, "full_name"),
		DocumentNumber: optString(payload, "document_number"),
	}
}

func optString(payload map[string]any, key string) *string {
	v, ok := payload[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func optBool(payload map[string]any, key string) *bool {
	v, ok := payload[key]
	if !ok || v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}
