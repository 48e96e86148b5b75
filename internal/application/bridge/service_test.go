package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/partnerbridge/backend/internal/domain/shared"
	"github.com/partnerbridge/backend/internal/domain/sync"
	"github.com/partnerbridge/backend/internal/infrastructure/erp"
)

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByExternalID(ctx context.Context, externalID string) (*sync.Partner, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sync.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sync.Partner, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sync.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, partner *sync.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}

func (m *MockPartnerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartnerRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	args := m.Called(ctx, externalID)
	return args.Bool(0), args.Error(1)
}

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) PushPartners(ctx context.Context, partners []*sync.Partner) (*erp.PushResult, error) {
	args := m.Called(ctx, partners)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*erp.PushResult), args.Error(1)
}

func TestServiceSyncAll(t *testing.T) {
	ctx := context.Background()

	newPartner := func(externalID string) sync.Partner {
		p, err := sync.NewPartner(externalID, sync.Fields{})
		require.NoError(t, err)
		return *p
	}

	t.Run("pushes the whole store", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
			Return([]sync.Partner{newPartner("ext-1"), newPartner("ext-2")}, nil)

		pusher := new(MockPusher)
		pusher.On("PushPartners", mock.Anything, mock.MatchedBy(func(batch []*sync.Partner) bool {
			return len(batch) == 2 && batch[0].ExternalID == "ext-1"
		})).Return(&erp.PushResult{Created: 1, Updated: 1, Total: 2}, nil)

		service := NewService(repo, pusher, nil)
		result, err := service.SyncAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
		pusher.AssertExpectations(t)
	})

	t.Run("empty store reports zero counts", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return([]sync.Partner{}, nil)

		pusher := new(MockPusher)
		pusher.On("PushPartners", mock.Anything, mock.AnythingOfType("[]*sync.Partner")).
			Return(&erp.PushResult{}, nil)

		service := NewService(repo, pusher, nil)
		result, err := service.SyncAll(ctx)

		require.NoError(t, err)
		assert.Zero(t, result.Total)
	})

	t.Run("push failure surfaces", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
			Return([]sync.Partner{newPartner("ext-1")}, nil)

		pusher := new(MockPusher)
		pusher.On("PushPartners", mock.Anything, mock.AnythingOfType("[]*sync.Partner")).
			Return(nil, errors.New("erp unreachable"))

		service := NewService(repo, pusher, nil)
		_, err := service.SyncAll(ctx)

		assert.ErrorContains(t, err, "erp unreachable")
	})
}
