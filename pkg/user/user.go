package user

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Password string  `json:"-" bson:"-"`
	Name     string  `json:"name,omitempty"`
	Email    string  `json:"email,omitempty"`
	Image    string  `json:"image,omitempty"`
	TenantID *string `json:"tenantId"`
}

type Repository interface {
	Create(user *User) error
	FindByUsername(username string) (*User, error)
	FindByID(id string) (*User, error)
	SetTenant(userID string, tenantID *string) error
}
