package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/partnerbridge/backend/internal/domain/sync"
)

// PushResult reports the outcome of one bulk push.
type PushResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// Bridge pushes partner records into the ERP in bulk. One push resolves the
// reference data once (countries, identification types, already-known
// external IDs) and then writes or creates each record sequentially,
// aborting on the first failure.
type Bridge struct {
	client *Client
	logger *zap.Logger
	now    func() time.Time
}

// NewBridge creates a bridge around an authenticated-on-demand ERP client.
func NewBridge(client *Client, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		client: client,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// PushPartners sends the given records to the ERP. Records whose external ID
// already exists there are written in place; the rest are created.
func (b *Bridge) PushPartners(ctx context.Context, partners []*sync.Partner) (*PushResult, error) {
	if len(partners) == 0 {
		return &PushResult{}, nil
	}

	if _, err := b.client.Login(ctx); err != nil {
		return nil, err
	}

	countryMap, err := b.resolveCountryIDs(ctx, collectCountryCodes(partners))
	if err != nil {
		return nil, err
	}
	identificationMap, err := b.resolveIdentificationTypeIDs(ctx, collectIdentificationCodes(partners))
	if err != nil {
		return nil, err
	}
	existing, err := b.resolveExistingIDs(ctx, partners)
	if err != nil {
		return nil, err
	}

	result := &PushResult{Total: len(partners)}
	for _, partner := range partners {
		payload := b.buildPartnerPayload(partner, countryMap, identificationMap)

		if erpID, ok := existing[partner.ExternalID]; ok {
			_, err := b.client.ExecuteKw(ctx, "res.partner", "write",
				[]any{[]any{erpID}, payload}, nil, "write-"+partner.ExternalID)
			if err != nil {
				return nil, fmt.Errorf("failed to update partner %s: %w", partner.ExternalID, err)
			}
			result.Updated++
			continue
		}

		_, err := b.client.ExecuteKw(ctx, "res.partner", "create",
			[]any{payload}, nil, "create-"+partner.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("failed to create partner %s: %w", partner.ExternalID, err)
		}
		result.Created++
	}

	b.logger.Info("bulk push completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("total", result.Total),
	)
	return result, nil
}

// resolveCountryIDs maps ISO country codes to ERP record IDs.
func (b *Bridge) resolveCountryIDs(ctx context.Context, codes []string) (map[string]int, error) {
	if len(codes) == 0 {
		return map[string]int{}, nil
	}

	records, err := b.client.SearchRead(ctx, "res.country",
		[]any{[]any{"code", "in", codes}}, []string{"code", "id"}, "countries")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve country codes: %w", err)
	}

	resolved := make(map[string]int, len(records))
	for _, record := range records {
		code, okCode := record["code"].(string)
		id, okID := intField(record, "id")
		if okCode && okID {
			resolved[code] = id
		}
	}
	return resolved, nil
}

// resolveIdentificationTypeIDs maps identification type codes (upper-cased)
// to ERP record IDs.
func (b *Bridge) resolveIdentificationTypeIDs(ctx context.Context, codes []string) (map[string]int, error) {
	if len(codes) == 0 {
		return map[string]int{}, nil
	}

	records, err := b.client.SearchRead(ctx, "l10n_latam.identification.type",
		[]any{[]any{"code", "in", codes}}, []string{"code", "id"}, "identification-types")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identification types: %w", err)
	}

	resolved := make(map[string]int, len(records))
	for _, record := range records {
		code, okCode := record["code"].(string)
		id, okID := intField(record, "id")
		if okCode && okID {
			resolved[strings.ToUpper(code)] = id
		}
	}
	return resolved, nil
}

// resolveExistingIDs finds which external IDs already have an ERP partner.
func (b *Bridge) resolveExistingIDs(ctx context.Context, partners []*sync.Partner) (map[string]int, error) {
	externalIDs := make([]string, 0, len(partners))
	for _, partner := range partners {
		externalIDs = append(externalIDs, partner.ExternalID)
	}

	records, err := b.client.SearchRead(ctx, "res.partner",
		[]any{[]any{"external_id", "in", externalIDs}}, []string{"id", "external_id"}, "existing")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve existing partners: %w", err)
	}

	existing := make(map[string]int, len(records))
	for _, record := range records {
		externalID, okExt := record["external_id"].(string)
		id, okID := intField(record, "id")
		if okExt && okID {
			existing[externalID] = id
		}
	}
	return existing, nil
}

// buildPartnerPayload translates a partner into the ERP's field names,
// dropping absent attributes so the write stays sparse.
func (b *Bridge) buildPartnerPayload(partner *sync.Partner, countryMap, identificationMap map[string]int) map[string]any {
	payload := map[string]any{
		"external_id":           partner.ExternalID,
		"external_score":        partner.Score,
		"external_updated_at":   partner.UpdatedAt.UTC().Format(time.RFC3339),
		"external_last_sync_at": b.now().Format(time.RFC3339),
	}

	putString(payload, "name", partner.Name)
	putString(payload, "vat", partner.Vat)
	putString(payload, "email", partner.Email)
	putString(payload, "phone", partner.Phone)
	putString(payload, "street", partner.Street)
	putString(payload, "city", partner.City)
	putString(payload, "company_type", partner.CompanyType)
	putString(payload, "type", partner.ContactType)

	if partner.CountryCode != nil {
		if id, ok := countryMap[*partner.CountryCode]; ok {
			payload["country_id"] = id
		}
	}
	if partner.IdentificationTypeCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*partner.IdentificationTypeCode))
		if id, ok := identificationMap[code]; ok {
			payload["l10n_latam_identification_type_id"] = id
		}
	}
	return payload
}

func collectCountryCodes(partners []*sync.Partner) []string {
	seen := map[string]bool{}
	for _, partner := range partners {
		if partner.CountryCode != nil && *partner.CountryCode != "" {
			seen[*partner.CountryCode] = true
		}
	}
	return sortedKeys(seen)
}

func collectIdentificationCodes(partners []*sync.Partner) []string {
	seen := map[string]bool{}
	for _, partner := range partners {
		if partner.IdentificationTypeCode == nil {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(*partner.IdentificationTypeCode))
		if code != "" {
			seen[code] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func putString(payload map[string]any, key string, value *string) {
	if value != nil {
		payload[key] = *value
	}
}

// intField reads a numeric field from a decoded JSON record. JSON numbers
// decode as float64, so the value is truncated back to an int.
func intField(record map[string]any, key string) (int, bool) {
	switch v := record[key].(type) {
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
