package tenant_test

import (
	"errors"
	"testing"

	"tenantdash/pkg/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(t *tenant.Tenant) error {
	return m.Called(t).Error(0)
}

func (m *mockRepo) GetByID(id string) (*tenant.Tenant, error) {
	args := m.Called(id)
	if t := args.Get(0); t != nil {
		return t.(*tenant.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Exists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) List() ([]*tenant.Tenant, error) {
	args := m.Called()
	return args.Get(0).([]*tenant.Tenant), args.Error(1)
}

func TestService_Create(t *testing.T) {
	repo := new(mockRepo)
	svc := tenant.NewService(repo)

	t.Run("success", func(t *testing.T) {
		repo.On("Create", mock.AnythingOfType("*tenant.Tenant")).Return(nil).Once()

		got, err := svc.Create("  Acme Corp ", "Acme-Corp")

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", got.Name)
		assert.Equal(t, "acme-corp", got.Slug)
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Create(" ", "acme")
		assert.ErrorIs(t, err, tenant.ErrInvalidName)

		for _, slug := range []string{"", "ab", "-acme", "acme-", "ac me", "acme_corp"} {
			_, err := svc.Create("Acme", slug)
			assert.ErrorIs(t, err, tenant.ErrInvalidSlug, slug)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		repo.On("Create", mock.AnythingOfType("*tenant.Tenant")).Return(tenant.ErrTenantExists).Once()

		got, err := svc.Create("Acme", "acme")

		assert.ErrorIs(t, err, tenant.ErrTenantExists)
		assert.Nil(t, got)
	})

	repo.AssertExpectations(t)
}

func TestService_Lookups(t *testing.T) {
	repo := new(mockRepo)
	svc := tenant.NewService(repo)

	repo.On("GetByID", "t1").Return(&tenant.Tenant{ID: "t1"}, nil)
	repo.On("GetByID", "t2").Return(nil, tenant.ErrTenantNotFound)
	repo.On("Exists", "t1").Return(true, nil)
	repo.On("Exists", "t3").Return(false, errors.New("down"))
	repo.On("List").Return([]*tenant.Tenant{{ID: "t1"}}, nil)

	got, err := svc.Get("t1")
	assert.NoError(t, err)
	assert.Equal(t, "t1", got.ID)

	_, err = svc.Get("t2")
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

	ok, err := svc.Exists("t1")
	assert.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Exists("t3")
	assert.Error(t, err)

	list, err := svc.List()
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	repo.AssertExpectations(t)
}
