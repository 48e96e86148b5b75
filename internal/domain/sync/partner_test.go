package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartner(t *testing.T) {
	t.Run("creates partner with normalized fields", func(t *testing.T) {
		p, err := NewPartner("ext-1001", Fields{
			Name:  strPtr("  Comercial   Andina "),
			Email: strPtr(" VENTAS@ANDINA.PE"),
			Score: 0.8,
		})

		require.NoError(t, err)
		assert.Equal(t, "ext-1001", p.ExternalID)
		require.NotNil(t, p.Name)
		assert.Equal(t, "Comercial Andina", *p.Name)
		require.NotNil(t, p.Email)
		assert.Equal(t, "ventas@andina.pe", *p.Email)
		assert.Equal(t, 0.8, p.Score)
		assert.False(t, p.CreatedAt.IsZero())
		assert.False(t, p.UpdatedAt.IsZero())
	})

	t.Run("keeps incoming timestamp when provided", func(t *testing.T) {
		ts := time.Date(2025, 3, 15, 8, 30, 0, 0, time.UTC)
		p, err := NewPartner("ext-1002", Fields{UpdatedAt: &ts})

		require.NoError(t, err)
		assert.Equal(t, ts, p.UpdatedAt)
	})

	t.Run("defaults timestamp to write time when absent", func(t *testing.T) {
		before := time.Now().UTC()
		p, err := NewPartner("ext-1003", Fields{})

		require.NoError(t, err)
		assert.False(t, p.UpdatedAt.Before(before))
	})

	t.Run("fails with empty external ID", func(t *testing.T) {
		p, err := NewPartner("", Fields{})

		assert.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestPartnerOverwrite(t *testing.T) {
	t.Run("absent fields clear stored values", func(t *testing.T) {
		p, err := NewPartner("ext-2001", Fields{
			Name:  strPtr("Cliente Uno"),
			Phone: strPtr("555-0101"),
			Score: 0.5,
		})
		require.NoError(t, err)

		p.Overwrite(Fields{Name: strPtr("Cliente Uno SAC")}.Normalize())

		require.NotNil(t, p.Name)
		assert.Equal(t, "Cliente Uno SAC", *p.Name)
		assert.Nil(t, p.Phone)
		assert.Equal(t, 0.0, p.Score)
	})
}

func TestPartnerPatch(t *testing.T) {
	t.Run("absent fields keep stored values", func(t *testing.T) {
		p, err := NewPartner("ext-2002", Fields{
			Name:  strPtr("Cliente Dos"),
			Phone: strPtr("555-0102"),
			Score: 0.7,
		})
		require.NoError(t, err)

		p.Patch(PartialFields{Email: strPtr(" NUEVO@MAIL.COM ")})

		require.NotNil(t, p.Name)
		assert.Equal(t, "Cliente Dos", *p.Name)
		require.NotNil(t, p.Phone)
		assert.Equal(t, "555-0102", *p.Phone)
		require.NotNil(t, p.Email)
		assert.Equal(t, "nuevo@mail.com", *p.Email)
		assert.Equal(t, 0.7, p.Score)
	})

	t.Run("patch normalizes provided fields", func(t *testing.T) {
		p, err := NewPartner("ext-2003", Fields{})
		require.NoError(t, err)

		p.Patch(PartialFields{City: strPtr("  Lima   Norte ")})

		require.NotNil(t, p.City)
		assert.Equal(t, "Lima Norte", *p.City)
	})

	t.Run("patch with whitespace-only value clears the field", func(t *testing.T) {
		p, err := NewPartner("ext-2004", Fields{Street: strPtr("Av. Grau 789")})
		require.NoError(t, err)

		p.Patch(PartialFields{Street: strPtr("   ")})

		assert.Nil(t, p.Street)
	})
}

func TestSynthesizeExternalID(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		a := SynthesizeExternalID("odoo", "42")
		b := SynthesizeExternalID("odoo", "42")
		assert.Equal(t, a, b)
	})

	t.Run("is prefixed with the source", func(t *testing.T) {
		got := SynthesizeExternalID("odoo", "42")
		assert.Regexp(t, `^odoo-[0-9a-f-]{36}$`, got)
	})

	t.Run("differs across sources and refs", func(t *testing.T) {
		assert.NotEqual(t, SynthesizeExternalID("odoo", "42"), SynthesizeExternalID("odoo", "43"))
		assert.NotEqual(t, SynthesizeExternalID("odoo", "42"), SynthesizeExternalID("sap", "42"))
	})
}
