package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSunatDTOFromPayload(t *testing.T) {
	t.Run("maps all consumed fields", func(t *testing.T) {
		raw := `{
			"razon_social": "COMERCIAL ANDINA S.A.C.",
			"numero_documento": "20123456789",
			"estado": "HABIDO",
			"condicion": "HABIDO",
			"direccion": "AV. LOS OLIVOS 123",
			"ubigeo": "150101",
			"distrito": "LIMA",
			"provincia": "LIMA",
			"departamento": "LIMA",
			"es_agente_retencion": true,
			"es_buen_contribuyente": false,
			"tipo": "SOCIEDAD ANONIMA CERRADA",
			"actividad_economica": "VENTA AL POR MAYOR",
			"numero_trabajadores": "25",
			"tipo_facturacion": "ELECTRONICA",
			"tipo_contabilidad": "COMPUTARIZADA",
			"comercio_exterior": "SIN ACTIVIDAD"
		}`
		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &payload))

		dto := SunatDTOFromPayload(payload)

		require.NotNil(t, dto.RazonSocial)
		assert.Equal(t, "COMERCIAL ANDINA S.A.C.", *dto.RazonSocial)
		require.NotNil(t, dto.NumeroDocumento)
		assert.Equal(t, "20123456789", *dto.NumeroDocumento)
		require.NotNil(t, dto.EsAgenteRetencion)
		assert.True(t, *dto.EsAgenteRetencion)
		require.NotNil(t, dto.EsBuenContribuyente)
		assert.False(t, *dto.EsBuenContribuyente)
		require.NotNil(t, dto.NumeroTrabajadores)
		assert.Equal(t, "25", *dto.NumeroTrabajadores)
	})

	t.Run("omitted fields stay absent", func(t *testing.T) {
		dto := SunatDTOFromPayload(map[string]any{"numero_documento": "20123456789"})

		assert.Nil(t, dto.RazonSocial)
		assert.Nil(t, dto.Departamento)
		assert.Nil(t, dto.EsAgenteRetencion)
	})

	t.Run("wrongly typed fields stay absent", func(t *testing.T) {
		dto := SunatDTOFromPayload(map[string]any{
			"numero_documento": 20123456789.0,
			"es_agente_retencion": "yes",
		})

		assert.Nil(t, dto.NumeroDocumento)
		assert.Nil(t, dto.EsAgenteRetencion)
	})
}

func TestReniecDTOFromPayload(t *testing.T) {
	dto := ReniecDTOFromPayload(map[string]any{
		"first_name":       "MARIA",
		"first_last_name":  "QUISPE",
		"second_last_name": "HUAMAN",
		"full_name":        "MARIA QUISPE HUAMAN",
		"document_number":  "45678912",
	})

	require.NotNil(t, dto.FullName)
	assert.Equal(t, "MARIA QUISPE HUAMAN", *dto.FullName)
	require.NotNil(t, dto.DocumentNumber)
	assert.Equal(t, "45678912", *dto.DocumentNumber)
}

func TestDetectDocumentKind(t *testing.T) {
	t.Run("eleven digits is a RUC", func(t *testing.T) {
		kind, err := DetectDocumentKind("20123456789")
		require.NoError(t, err)
		assert.Equal(t, DocumentKindRUC, kind)
	})

	t.Run("eight digits is a DNI", func(t *testing.T) {
		kind, err := DetectDocumentKind(" 45678912 ")
		require.NoError(t, err)
		assert.Equal(t, DocumentKindDNI, kind)
	})

	t.Run("anything else is unknown", func(t *testing.T) {
		for _, input := range []string{"", "abc", "123", "2012345678X", "123456789012"} {
			_, err := DetectDocumentKind(input)
			assert.ErrorIs(t, err, ErrUnknownDocumentKind, "input %q", input)
		}
	})
}
