package sync

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/partnerbridge/backend/internal/domain/shared"
	"github.com/partnerbridge/backend/internal/domain/sync"
	"github.com/partnerbridge/backend/internal/infrastructure/telemetry"
)

// PartnerService handles partner synchronization operations against the
// local store. Reconciliation follows last-write-wins on the record's
// updated_at: an unstamped incoming payload always wins, a stamped one wins
// only when it is not older than the stored record.
type PartnerService struct {
	partnerRepo sync.PartnerRepository
	logger      *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(partnerRepo sync.PartnerRepository, logger *zap.Logger) *PartnerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartnerService{
		partnerRepo: partnerRepo,
		logger:      logger,
	}
}

// Upsert creates the partner when its external ID is unknown, otherwise
// replaces the whole record. The returned flag is true when a new record
// was created. A stale stamped payload is rejected with a CONFLICT error.
func (s *PartnerService) Upsert(ctx context.Context, req UpsertPartnerRequest) (*PartnerResponse, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "partner.upsert")
	defer span.End()

	existing, err := s.partnerRepo.FindByExternalID(ctx, req.ExternalID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, err)
			return nil, false, err
		}

		partner, err := sync.NewPartner(req.ExternalID, req.Fields())
		if err != nil {
			return nil, false, err
		}
		if err := s.partnerRepo.Save(ctx, partner); err != nil {
			telemetry.RecordError(span, err)
			return nil, false, err
		}
		s.logger.Info("partner created", zap.String("external_id", partner.ExternalID))
		return NewPartnerResponse(partner), true, nil
	}

	if !sync.ShouldAccept(existing.UpdatedAt, req.UpdatedAt) {
		return nil, false, sync.ErrStaleUpdate
	}

	existing.Overwrite(req.Fields().Normalize())
	if err := s.partnerRepo.Save(ctx, existing); err != nil {
		telemetry.RecordError(span, err)
		return nil, false, err
	}
	s.logger.Info("partner updated", zap.String("external_id", existing.ExternalID))
	return NewPartnerResponse(existing), false, nil
}

// Get returns the partner with the given external ID.
func (s *PartnerService) Get(ctx context.Context, externalID string) (*PartnerResponse, error) {
	partner, err := s.partnerRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return NewPartnerResponse(partner), nil
}

// Update applies a partial update. The conflict check only runs when the
// payload carries a timestamp; an unstamped partial update always applies.
func (s *PartnerService) Update(ctx context.Context, externalID string, req UpdatePartnerRequest) (*PartnerResponse, error) {
	partner, err := s.partnerRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if req.UpdatedAt != nil && !sync.ShouldAccept(partner.UpdatedAt, req.UpdatedAt) {
		return nil, sync.ErrStaleUpdate
	}

	partner.Patch(req.PartialFields())
	if err := s.partnerRepo.Save(ctx, partner); err != nil {
		return nil, err
	}
	s.logger.Info("partner updated", zap.String("external_id", partner.ExternalID))
	return NewPartnerResponse(partner), nil
}

// Delete removes the partner with the given external ID.
func (s *PartnerService) Delete(ctx context.Context, externalID string) error {
	if err := s.partnerRepo.DeleteByExternalID(ctx, externalID); err != nil {
		return err
	}
	s.logger.Info("partner deleted", zap.String("external_id", externalID))
	return nil
}

// List returns a page of partners matching the filter.
func (s *PartnerService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PartnerResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	partners, err := s.partnerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.partnerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PartnerResponse, len(partners))
	for i := range partners {
		responses[i] = *NewPartnerResponse(&partners[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}
