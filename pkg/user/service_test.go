package user_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"tenantdash/pkg/user"
)

type mockRepo struct {
	mock.Mock
}

type mockTenants struct {
	mock.Mock
}

func (m *mockRepo) FindByUsername(username string) (*user.User, error) {
	args := m.Called(username)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) FindByID(id string) (*user.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Create(u *user.User) error {
	return m.Called(u).Error(0)
}

func (m *mockRepo) SetTenant(userID string, tenantID *string) error {
	return m.Called(userID, tenantID).Error(0)
}

func (m *mockTenants) Exists(tenantID string) (bool, error) {
	args := m.Called(tenantID)
	return args.Bool(0), args.Error(1)
}

func TestService_Register(t *testing.T) {
	repo := new(mockRepo)
	tenants := new(mockTenants)
	svc := user.NewService(repo, tenants)

	t.Run("success", func(t *testing.T) {
		repo.On("FindByUsername", "newuser").Return(nil, nil)
		repo.On("Create", mock.AnythingOfType("*user.User")).Return(nil)

		u, err := svc.Register(user.Registration{Username: "newuser", Password: "securepass", Email: "n@x.io"})

		assert.NoError(t, err)
		assert.NotNil(t, u)
		assert.Equal(t, "newuser", u.Username)
		assert.Equal(t, "n@x.io", u.Email)
		assert.Nil(t, u.TenantID)
		assert.NotEqual(t, "securepass", u.Password)
		assert.Len(t, u.ID, 24)
	})

	t.Run("success with tenant", func(t *testing.T) {
		tid := "tenant-1"
		repo.On("FindByUsername", "member").Return(nil, nil)
		tenants.On("Exists", tid).Return(true, nil)

		u, err := svc.Register(user.Registration{Username: "member", Password: "pass", TenantID: &tid})

		assert.NoError(t, err)
		assert.Equal(t, &tid, u.TenantID)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		tid := "nope"
		repo.On("FindByUsername", "lost").Return(nil, nil)
		tenants.On("Exists", tid).Return(false, nil)

		u, err := svc.Register(user.Registration{Username: "lost", Password: "pass", TenantID: &tid})

		assert.ErrorIs(t, err, user.ErrUnknownTenant)
		assert.Nil(t, u)
	})

	t.Run("empty tenant", func(t *testing.T) {
		tid := ""
		repo.On("FindByUsername", "blank").Return(nil, nil)

		_, err := svc.Register(user.Registration{Username: "blank", Password: "pass", TenantID: &tid})

		assert.ErrorIs(t, err, user.ErrUnknownTenant)
	})

	t.Run("user already exists", func(t *testing.T) {
		repo.On("FindByUsername", "existing").Return(&user.User{Username: "existing"}, nil)

		u, err := svc.Register(user.Registration{Username: "existing", Password: "pass"})

		assert.Error(t, err)
		assert.Nil(t, u)
		assert.Equal(t, "user already exists", err.Error())
	})
}

func TestService_Login(t *testing.T) {
	repo := new(mockRepo)
	svc := user.NewService(repo, new(mockTenants))

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		repo.On("FindByUsername", "valid").Return(&user.User{
			ID:       "uid",
			Username: "valid",
			Password: string(hashed),
		}, nil)

		u, err := svc.Login("valid", "correct")

		assert.NoError(t, err)
		assert.Equal(t, "valid", u.Username)
	})

	t.Run("not found", func(t *testing.T) {
		repo.On("FindByUsername", "ghost").Return(nil, errors.New("not found"))

		u, err := svc.Login("ghost", "any")

		assert.Error(t, err)
		assert.Nil(t, u)
		assert.Equal(t, "user not found", err.Error())
	})

	t.Run("wrong password", func(t *testing.T) {
		u, err := svc.Login("valid", "wrong")

		assert.Error(t, err)
		assert.Nil(t, u)
		assert.Equal(t, "invalid credentials", err.Error())
	})
}

func TestService_AssignTenant(t *testing.T) {
	repo := new(mockRepo)
	tenants := new(mockTenants)
	svc := user.NewService(repo, tenants)

	tid := "t1"

	t.Run("success", func(t *testing.T) {
		tenants.On("Exists", tid).Return(true, nil).Once()
		repo.On("SetTenant", "uid", &tid).Return(nil).Once()
		repo.On("FindByID", "uid").Return(&user.User{ID: "uid", TenantID: &tid}, nil).Once()

		u, err := svc.AssignTenant("uid", &tid)

		assert.NoError(t, err)
		assert.Equal(t, &tid, u.TenantID)
	})

	t.Run("clear tenant", func(t *testing.T) {
		repo.On("SetTenant", "uid", (*string)(nil)).Return(nil).Once()
		repo.On("FindByID", "uid").Return(&user.User{ID: "uid"}, nil).Once()

		u, err := svc.AssignTenant("uid", nil)

		assert.NoError(t, err)
		assert.Nil(t, u.TenantID)
	})

	t.Run("tenant lookup fails", func(t *testing.T) {
		tenants.On("Exists", "broken").Return(false, errors.New("mongo down")).Once()
		broken := "broken"

		_, err := svc.AssignTenant("uid", &broken)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, user.ErrUnknownTenant)
	})

	t.Run("unknown user", func(t *testing.T) {
		tenants.On("Exists", tid).Return(true, nil).Once()
		repo.On("SetTenant", "ghost", &tid).Return(user.ErrUserNotFound).Once()

		_, err := svc.AssignTenant("ghost", &tid)

		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	repo.AssertExpectations(t)
	tenants.AssertExpectations(t)
}
