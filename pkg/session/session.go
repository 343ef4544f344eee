package session

import (
	"context"
	"errors"
	"time"

	"tenantdash/pkg/claims"

	jwt "github.com/dgrijalva/jwt-go"
)

var (
	ErrMissingUserID = errors.New("session user id is missing")
	ErrEmptyTenantID = errors.New("session tenant id is empty")
	ErrTenantUnset   = errors.New("session tenant id is not set")
	ErrNotFound      = errors.New("session not found")
)

// User is the authenticated principal. TenantID is nil for users that are not
// assigned to a tenant yet.
type User struct {
	ID       string  `json:"id"`
	TenantID *string `json:"tenantId"`
	Name     string  `json:"name,omitempty"`
	Email    string  `json:"email,omitempty"`
	Image    string  `json:"image,omitempty"`
}

// HasTenant reports whether the principal belongs to a tenant.
func (u User) HasTenant() bool {
	return u.TenantID != nil
}

type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Repository interface {
	Create(s *Session) error
	IsValid(sessionID string) (bool, error)
	Invalidate(sessionID string) error
	InvalidateUser(userID string) error
}

func (s *Session) Validate() error {
	if s.User.ID == "" {
		return ErrMissingUserID
	}
	if s.User.TenantID != nil && *s.User.TenantID == "" {
		return ErrEmptyTenantID
	}
	return nil
}

// FromClaims converts a verified token payload into a session. A payload
// without a tenantId key is rejected: null means "no tenant", a missing key
// means the token was not issued by us.
func FromClaims(c *claims.Claims) (*Session, error) {
	if !c.User.TenantSet() {
		return nil, ErrTenantUnset
	}

	s := &Session{
		ID: c.Id,
		User: User{
			ID:       c.User.ID,
			TenantID: c.User.TenantID,
			Name:     c.User.Name,
			Email:    c.User.Email,
			Image:    c.User.Image,
		},
		CreatedAt: time.Unix(c.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(c.ExpiresAt, 0).UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Claims builds the token payload mirroring the session identity.
func (s *Session) Claims() *claims.Claims {
	return &claims.Claims{
		User: claims.User{
			ID:       s.User.ID,
			TenantID: s.User.TenantID,
			Name:     s.User.Name,
			Email:    s.User.Email,
			Image:    s.User.Image,
		},
		StandardClaims: jwt.StandardClaims{
			Id:        s.ID,
			IssuedAt:  s.CreatedAt.Unix(),
			ExpiresAt: s.ExpiresAt.Unix(),
		},
	}
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
