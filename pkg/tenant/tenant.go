package tenant

import (
	"errors"
	"time"
)

var (
	ErrTenantExists   = errors.New("tenant already exists")
	ErrTenantNotFound = errors.New("tenant not found")
	ErrInvalidName    = errors.New("tenant name is required")
	ErrInvalidSlug    = errors.New("tenant slug must be 3-40 lowercase letters, digits or dashes")
)

type Tenant struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Slug      string    `json:"slug" bson:"slug"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

type Repository interface {
	Create(t *Tenant) error
	GetByID(id string) (*Tenant, error)
	Exists(id string) (bool, error)
	List() ([]*Tenant, error)
}
