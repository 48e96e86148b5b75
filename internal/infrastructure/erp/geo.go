package erp

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Location holds the resolved geography record IDs for a Peruvian address.
// A nil ID means the chain stopped before that level.
type Location struct {
	StateID    *int `json:"state_id,omitempty"`
	CityID     *int `json:"city_id,omitempty"`
	DistrictID *int `json:"district_id,omitempty"`
}

// GeoResolver maps registry place names onto the ERP's Peruvian geography
// records. Resolution is a strict chain: the city search is scoped to the
// resolved department and the district search to the resolved city, so a
// miss at any level silently stops the chain instead of failing the caller.
type GeoResolver struct {
	client *Client
	logger *zap.Logger
}

// NewGeoResolver creates a resolver around the ERP client.
func NewGeoResolver(client *Client, logger *zap.Logger) *GeoResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeoResolver{client: client, logger: logger}
}

// Resolve walks department, then province (city), then district. Name
// matching is case-insensitive exact ("=ilike"). Lookup transport errors
// still propagate; only empty results short-circuit.
func (r *GeoResolver) Resolve(ctx context.Context, department, province, district *string) (*Location, error) {
	location := &Location{}

	countryID, err := r.countryID(ctx, "PE")
	if err != nil {
		return nil, err
	}
	if countryID == 0 {
		r.logger.Warn("country PE not present in ERP, skipping geography")
		return location, nil
	}

	stateID, err := r.findOne(ctx, "res.country.state", []any{
		[]any{"country_id", "=", countryID},
		[]any{"name", "=ilike", deref(department)},
	}, "geo-state", department)
	if err != nil || stateID == 0 {
		return location, err
	}
	location.StateID = &stateID

	cityID, err := r.findOne(ctx, "res.city", []any{
		[]any{"country_id", "=", countryID},
		[]any{"state_id", "=", stateID},
		[]any{"name", "=ilike", deref(province)},
	}, "geo-city", province)
	if err != nil || cityID == 0 {
		return location, err
	}
	location.CityID = &cityID

	districtID, err := r.findOne(ctx, "l10n_pe.res.city.district", []any{
		[]any{"city_id", "=", cityID},
		[]any{"name", "=ilike", deref(district)},
	}, "geo-district", district)
	if err != nil || districtID == 0 {
		return location, err
	}
	location.DistrictID = &districtID

	return location, nil
}

// countryID resolves an ISO country code to its ERP record ID, 0 when absent.
func (r *GeoResolver) countryID(ctx context.Context, code string) (int, error) {
	records, err := r.client.SearchRead(ctx, "res.country",
		[]any{[]any{"code", "=", code}}, []string{"id"}, "geo-country")
	if err != nil {
		return 0, fmt.Errorf("failed to resolve country %s: %w", code, err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	id, _ := intField(records[0], "id")
	return id, nil
}

// findOne returns the first record matching the domain, 0 when the name is
// absent or nothing matches.
func (r *GeoResolver) findOne(ctx context.Context, model string, domain []any, requestID string, name *string) (int, error) {
	if name == nil || *name == "" {
		r.logger.Warn("geography name missing, stopping chain", zap.String("model", model))
		return 0, nil
	}

	result, err := r.client.ExecuteKw(ctx, model, "search_read",
		[]any{domain}, map[string]any{"fields": []string{"id"}, "limit": 1}, requestID)
	if err != nil {
		return 0, fmt.Errorf("failed to search %s: %w", model, err)
	}

	records, err := decodeRecords(result)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		r.logger.Warn("geography name not found, stopping chain",
			zap.String("model", model),
			zap.String("name", *name),
		)
		return 0, nil
	}
	id, _ := intField(records[0], "id")
	return id, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
