// Package bridge orchestrates the bulk push of locally stored partners into
// the ERP.
package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/partnerbridge/backend/internal/domain/shared"
	"github.com/partnerbridge/backend/internal/domain/sync"
	"github.com/partnerbridge/backend/internal/infrastructure/erp"
	"github.com/partnerbridge/backend/internal/infrastructure/telemetry"
)

// Pusher sends a batch of partners to the ERP.
type Pusher interface {
	PushPartners(ctx context.Context, partners []*sync.Partner) (*erp.PushResult, error)
}

// Service loads the whole partner store and hands it to the pusher. The
// push is all-or-nothing per run: the first ERP failure aborts the batch
// and surfaces to the caller.
type Service struct {
	partnerRepo sync.PartnerRepository
	pusher      Pusher
	logger      *zap.Logger
}

// NewService creates a bridge service.
func NewService(partnerRepo sync.PartnerRepository, pusher Pusher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		partnerRepo: partnerRepo,
		pusher:      pusher,
		logger:      logger,
	}
}

// SyncAll pushes every stored partner to the ERP and reports the counts.
func (s *Service) SyncAll(ctx context.Context) (*erp.PushResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "bridge.sync_all")
	defer span.End()

	// PageSize 0 disables pagination and returns the full store.
	partners, err := s.partnerRepo.FindAll(ctx, shared.Filter{OrderBy: "external_id", OrderDir: "asc"})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	batch := make([]*sync.Partner, len(partners))
	for i := range partners {
		batch[i] = &partners[i]
	}

	result, err := s.pusher.PushPartners(ctx, batch)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("bulk push failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("bulk push finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("total", result.Total),
	)
	return result, nil
}
