package tenant

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"tenantdash/pkg/generator"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,38}[a-z0-9]$`)

type ServiceTenant interface {
	Create(name, slug string) (*Tenant, error)
	Get(id string) (*Tenant, error)
	List() ([]*Tenant, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

func (s *Service) Create(name, slug string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	id, err := generator.TenantID()
	if err != nil {
		return nil, fmt.Errorf("TenantID gen error: %w", err)
	}

	t := &Tenant{
		ID:        id,
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.Repo.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(id string) (*Tenant, error) {
	return s.Repo.GetByID(id)
}

func (s *Service) List() ([]*Tenant, error) {
	return s.Repo.List()
}

// Exists lets the service stand in wherever only a reference check is needed.
func (s *Service) Exists(id string) (bool, error) {
	return s.Repo.Exists(id)
}
