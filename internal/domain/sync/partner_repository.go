package sync

import (
	"context"

	"github.com/partnerbridge/backend/internal/domain/shared"
)

// PartnerRepository defines the interface for partner persistence
type PartnerRepository interface {
	// FindByExternalID finds a partner by its external identifier
	FindByExternalID(ctx context.Context, externalID string) (*Partner, error)

	// FindAll finds all partners matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Partner, error)

	// Save creates or updates a partner
	Save(ctx context.Context, partner *Partner) error

	// DeleteByExternalID deletes a partner by its external identifier
	DeleteByExternalID(ctx context.Context, externalID string) error

	// Count counts partners matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByExternalID checks if a partner with the given external ID exists
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
}
