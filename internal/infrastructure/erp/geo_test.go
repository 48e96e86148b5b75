package erp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// geoDispatch answers the geography chain with the given IDs; a zero ID
// means "no match" for that level.
func geoDispatch(stateID, cityID, districtID int) func(call modelCall) (any, string) {
	return func(call modelCall) (any, string) {
		record := func(id int) any {
			if id == 0 {
				return []any{}
			}
			return []any{map[string]any{"id": id}}
		}
		switch call.Model {
		case "res.country":
			return []any{map[string]any{"id": 173}}, ""
		case "res.country.state":
			return record(stateID), ""
		case "res.city":
			return record(cityID), ""
		case "l10n_pe.res.city.district":
			return record(districtID), ""
		}
		return []any{}, ""
	}
}

func TestGeoResolverResolve(t *testing.T) {
	department := strPtr("LIMA")
	province := strPtr("LIMA")
	district := strPtr("MIRAFLORES")

	t.Run("resolves the full chain", func(t *testing.T) {
		fake := newFakeERP(t)
		fake.dispatch = geoDispatch(15, 128, 1291)

		resolver := NewGeoResolver(fake.client(), nil)
		location, err := resolver.Resolve(context.Background(), department, province, district)

		require.NoError(t, err)
		require.NotNil(t, location.StateID)
		assert.Equal(t, 15, *location.StateID)
		require.NotNil(t, location.CityID)
		assert.Equal(t, 128, *location.CityID)
		require.NotNil(t, location.DistrictID)
		assert.Equal(t, 1291, *location.DistrictID)
	})

	t.Run("missing department stops before any name search", func(t *testing.T) {
		fake := newFakeERP(t)
		fake.dispatch = geoDispatch(15, 128, 1291)

		resolver := NewGeoResolver(fake.client(), nil)
		location, err := resolver.Resolve(context.Background(), nil, province, district)

		require.NoError(t, err)
		assert.Nil(t, location.StateID)
		assert.Nil(t, location.CityID)
		assert.Nil(t, location.DistrictID)
	})

	t.Run("unmatched city keeps only the department", func(t *testing.T) {
		fake := newFakeERP(t)
		fake.dispatch = geoDispatch(15, 0, 1291)

		resolver := NewGeoResolver(fake.client(), nil)
		location, err := resolver.Resolve(context.Background(), department, province, district)

		require.NoError(t, err)
		require.NotNil(t, location.StateID)
		assert.Equal(t, 15, *location.StateID)
		assert.Nil(t, location.CityID)
		assert.Nil(t, location.DistrictID)
	})

	t.Run("district search is scoped to the resolved city", func(t *testing.T) {
		fake := newFakeERP(t)
		fake.dispatch = geoDispatch(15, 128, 1291)

		resolver := NewGeoResolver(fake.client(), nil)
		_, err := resolver.Resolve(context.Background(), department, province, district)
		require.NoError(t, err)

		var districtCall *modelCall
		for i := range fake.calls {
			if fake.calls[i].Model == "l10n_pe.res.city.district" {
				districtCall = &fake.calls[i]
			}
		}
		require.NotNil(t, districtCall)
		domain := districtCall.Args[0].([]any)
		cityClause := domain[0].([]any)
		assert.Equal(t, "city_id", cityClause[0])
		assert.Equal(t, float64(128), cityClause[2])
	})
}
