package organization

import (
	"context"
	"testing"

	"github.com/cashdesk/backend/internal/domain/organization"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *organization.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListByID(ctx context.Context, id uuid.UUID) ([]*organization.Organization, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*organization.Organization), args.Error(1)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		input    CreateOrganizationInput
		wantSlug string
	}{
		{"slug from name", CreateOrganizationInput{Name: "My Org!!"}, "my-org"},
		{"explicit slug normalized", CreateOrganizationInput{Name: "Whatever", Slug: "  a--b  "}, "a-b"},
		{"explicit slug kept", CreateOrganizationInput{Name: "Acme Corp", Slug: "acme"}, "acme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrganizationRepository)
			repo.On("Create", ctx, mock.Anything).Return(nil)

			resp, err := NewService(repo, zap.NewNop()).Create(ctx, tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, resp.Slug)
		})
	}

	t.Run("duplicate slug is a conflict", func(t *testing.T) {
		repo := new(MockOrganizationRepository)
		repo.On("Create", ctx, mock.Anything).Return(shared.ErrOrganizationSlugExists)

		_, err := NewService(repo, zap.NewNop()).Create(ctx, CreateOrganizationInput{Name: "Acme"})

		assert.ErrorIs(t, err, shared.ErrOrganizationSlugExists)
	})

	t.Run("name without slug characters is rejected", func(t *testing.T) {
		repo := new(MockOrganizationRepository)

		_, err := NewService(repo, zap.NewNop()).Create(ctx, CreateOrganizationInput{Name: "!!!"})

		assert.True(t, shared.HasCode(err, shared.CodeValidation))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_ListForOrganization(t *testing.T) {
	ctx := context.Background()
	org, err := organization.NewOrganization("Acme", "")
	require.NoError(t, err)

	repo := new(MockOrganizationRepository)
	repo.On("ListByID", ctx, org.ID).Return([]*organization.Organization{org}, nil)

	list, err := NewService(repo, zap.NewNop()).ListForOrganization(ctx, org.ID)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "acme", list[0].Slug)
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	org, err := organization.NewOrganization("Acme Exchange", "")
	require.NoError(t, err)

	t.Run("own organization", func(t *testing.T) {
		repo := new(MockOrganizationRepository)
		repo.On("FindByID", ctx, org.ID).Return(org, nil)

		resp, err := NewService(repo, zap.NewNop()).Get(ctx, org.ID, org.ID)

		require.NoError(t, err)
		assert.Equal(t, "acme-exchange", resp.Slug)
	})

	t.Run("other organization is denied", func(t *testing.T) {
		repo := new(MockOrganizationRepository)
		repo.On("FindByID", ctx, org.ID).Return(org, nil)

		resp, err := NewService(repo, zap.NewNop()).Get(ctx, uuid.New(), org.ID)

		assert.Nil(t, resp)
		assert.True(t, shared.HasCode(err, shared.CodeAccessDenied))
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockOrganizationRepository)
		repo.On("FindByID", ctx, mock.Anything).Return(nil, shared.ErrOrganizationNotFound)

		_, err := NewService(repo, zap.NewNop()).Get(ctx, org.ID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrOrganizationNotFound)
	})
}
