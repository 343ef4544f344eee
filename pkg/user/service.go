package user

import (
	"errors"
	"fmt"

	"tenantdash/pkg/generator"

	"golang.org/x/crypto/bcrypt"
)

var ErrUnknownTenant = errors.New("unknown tenant")

type ServiceInterface interface {
	Register(form Registration) (*User, error)
	Login(username, password string) (*User, error)
	AssignTenant(userID string, tenantID *string) (*User, error)
	Get(userID string) (*User, error)
}

// TenantChecker tells whether a tenant reference points at an existing tenant.
type TenantChecker interface {
	Exists(tenantID string) (bool, error)
}

type Registration struct {
	Username string
	Password string
	Name     string
	Email    string
	TenantID *string
}

type Service struct {
	Repo    Repository
	Tenants TenantChecker
}

func NewService(repo Repository, tenants TenantChecker) *Service {
	return &Service{Repo: repo, Tenants: tenants}
}

func (s *Service) checkTenant(tenantID *string) error {
	if tenantID == nil {
		return nil
	}
	if *tenantID == "" {
		return ErrUnknownTenant
	}
	ok, err := s.Tenants.Exists(*tenantID)
	if err != nil {
		return fmt.Errorf("tenant lookup: %w", err)
	}
	if !ok {
		return ErrUnknownTenant
	}
	return nil
}

func (s *Service) Register(form Registration) (*User, error) {
	exist, err := s.Repo.FindByUsername(form.Username)
	if exist != nil && err == nil {
		return nil, ErrUserExists
	}

	if err := s.checkTenant(form.TenantID); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password error: %w", err)
	}

	userID, err := generator.UserID()
	if err != nil {
		return nil, fmt.Errorf("UserID gen error: %w", err)
	}

	user := &User{
		ID:       userID,
		Username: form.Username,
		Password: string(hashedPassword),
		Name:     form.Name,
		Email:    form.Email,
		TenantID: form.TenantID,
	}

	if err := s.Repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Login(username, password string) (*User, error) {
	user, err := s.Repo.FindByUsername(username)
	if err != nil {
		return nil, ErrUserNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// AssignTenant moves the user into tenantID, or out of any tenant when
// tenantID is nil.
func (s *Service) AssignTenant(userID string, tenantID *string) (*User, error) {
	if err := s.checkTenant(tenantID); err != nil {
		return nil, err
	}

	if err := s.Repo.SetTenant(userID, tenantID); err != nil {
		return nil, err
	}

	return s.Repo.FindByID(userID)
}

func (s *Service) Get(userID string) (*User, error) {
	return s.Repo.FindByID(userID)
}
