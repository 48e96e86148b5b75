package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/partnerbridge/backend/internal/domain/shared"
	"github.com/partnerbridge/backend/internal/domain/sync"
)

// MockPartnerRepository is a mock implementation of PartnerRepository
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

func strPtr(s string) *string       { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func existingPartner(t *testing.T, externalID string, updatedAt time.Time) *sync.Partner {
	t.Helper()
	partner, err := sync.NewPartner(externalID, sync.Fields{
		Name:      strPtr("Before"),
		Email:     strPtr("before@mail.pe"),
		Score:     0.4,
		UpdatedAt: &updatedAt,
	})
	require.NoError(t, err)
	return partner
}

func TestPartnerServiceUpsert(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("creates when external id is unknown", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindByExternalID", mock.Anything, "ext-2001").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*sync.Partner")).Return(nil)

		service := NewPartnerService(repo, nil)
		resp, created, err := service.Upsert(ctx, UpsertPartnerRequest{
			ExternalID: "ext-2001",
			Name:       strPtr("  Comercial   Andina  "),
			Email:      strPtr(" VENTAS@ANDINA.PE "),
			Score:      0.9,
		})

		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, resp.Name)
		assert.Equal(t, "Comercial Andina", *resp.Name)
		require.NotNil(t, resp.Email)
		assert.Equal(t, "ventas@andina.pe", *resp.Email)
		repo.AssertExpectations(t)
	})

	t.Run("overwrites when incoming is newer", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindByExternalID", mock.Anything, "ext-2001").Return(existingPartner(t, "ext-2001", base), nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*sync.Partner")).Return(nil)

		service := NewPartnerService(repo, nil)
		resp, created, err := service.Upsert(ctx, UpsertPartnerRequest{
			ExternalID: "ext-2001",
			Name:       strPtr("After"),
			Score:      0.7,
			UpdatedAt:  timePtr(base.Add(time.Hour)),
		})

		require.NoError(t, err)
		assert.False(t, created)
		require.NotNil(t, resp.Name)
		assert.Equal(t, "After", *resp.Name)
		// the full payload replaces the record, clearing absent fields
		assert.Nil(t, resp.Email)
		assert.Equal(t, 0.7, resp.Score)
	})

	t.Run("equal timestamps are accepted", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindByExternalID", mock.Anything, "ext-2001").Return(existingPartner(t, "ext-2001", base), nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*sync.Partner")).Return(nil)

		service := NewPartnerService(repo, nil)
		_, _, err := service.Upsert(ctx, UpsertPartnerRequest{
			ExternalID: "ext-2001",
			UpdatedAt:  timePtr(base),
		})

		require.NoError(t, err)
	})

	t.Run("stale payload is rejected with a conflict", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindByExternalID", mock.Anything, "ext-2001").Return(existingPartner(t, "ext-2001", base), nil)

		service := NewPartnerService(repo, nil)
		_, _, err := service.Upsert(ctx, UpsertPartnerRequest{
			ExternalID: "ext-2001",
			UpdatedAt:  timePtr(base.Add(-time.Second)),
		})

		assert.ErrorIs(t, err, sync.ErrStaleUpdate)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unstamped payload always wins", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindByExternalID", mock.Anything, "ext-2001").Return(existingPartner(t, "ext-2001", base), nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*sync.Partner")).Return(nil)

		service := NewPartnerService(repo, nil)
		_, created, err := service.Upsert(ctx, UpsertPartnerRequest{ExternalID: "ext-2001"})

		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestPartnerServiceUpdate(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("patch keeps absent fields", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindByExternalID", mock.Anything, "ext-2001").Return(existingPartner(t, "ext-2001", base), nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*sync.Partner")).Return(nil)

		service := NewPartnerService(repo, nil)
		resp, err := service.Update(ctx, "ext-2001", UpdatePartnerRequest{
			Phone: strPtr(" 999 888 777 "),
		})

		require.NoError(t, err)
		require.NotNil(t, resp.Phone)
		assert.Equal(t, "999 888 777", *resp.Phone)
		require.NotNil(t, resp.Name)
		assert.Equal(t, "Before", *resp.Name)
		assert.Equal(t, 0.4, resp.Score)
	})

	t.Run("stamped stale patch is rejected", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindByExternalID", mock.Anything, "ext-2001").Return(existingPartner(t, "ext-2001", base), nil)

		service := NewPartnerService(repo, nil)
		_, err := service.Update(ctx, "ext-2001", UpdatePartnerRequest{
			Name:      strPtr("After"),
			UpdatedAt: timePtr(base.Add(-time.Minute)),
		})

		assert.ErrorIs(t, err, sync.ErrStaleUpdate)
	})

	t.Run("missing partner propagates not found", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindByExternalID", mock.Anything, "ext-missing").Return(nil, shared.ErrNotFound)

		service := NewPartnerService(repo, nil)
		_, err := service.Update(ctx, "ext-missing", UpdatePartnerRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPartnerServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a paginated result", func(t *testing.T) {
		partner := existingPartner(t, "ext-1", time.Now().UTC())
		repo := new(MockPartnerRepository)
		repo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return([]sync.Partner{*partner}, nil)
		repo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(41), nil)

		service := NewPartnerService(repo, nil)
		page, err := service.List(ctx, shared.Filter{Page: 2, PageSize: 20})

		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, int64(41), page.Total)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("defaults page and size when unset", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20
		})).Return([]sync.Partner{}, nil)
		repo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

		service := NewPartnerService(repo, nil)
		page, err := service.List(ctx, shared.Filter{})

		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestPartnerServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		repo.On("DeleteByExternalID", mock.Anything, "ext-missing").Return(shared.ErrNotFound)

		service := NewPartnerService(repo, nil)
		assert.ErrorIs(t, service.Delete(ctx, "ext-missing"), shared.ErrNotFound)
	})
}
