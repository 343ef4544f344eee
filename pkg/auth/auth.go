package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tenantdash/pkg/claims"
	"tenantdash/pkg/generator"
	"tenantdash/pkg/session"

	jwt "github.com/dgrijalva/jwt-go"
)

const (
	DefaultCookieName = "tenantdash_session"
	DefaultTTL        = time.Hour
)

var (
	ErrNoToken        = errors.New("no session token")
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionRevoked = errors.New("session revoked or expired")
	ErrUnsafeRedirect = errors.New("redirect target must be a local path")
)

type Config struct {
	Secret       []byte
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// Authenticator issues, verifies and terminates sessions. Tokens are HS256
// JWTs whose claims mirror the session; the session repository is the
// source of truth for whether a token is still live.
type Authenticator struct {
	Sessions session.Repository
	cfg      Config
	now      func() time.Time
}

func New(sessions session.Repository, cfg Config) *Authenticator {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Authenticator{Sessions: sessions, cfg: cfg, now: time.Now}
}

// Issue opens a new session for u and returns its signed token.
func (a *Authenticator) Issue(u session.User) (string, *session.Session, error) {
	id, err := generator.SessionID()
	if err != nil {
		return "", nil, fmt.Errorf("SessionID gen error: %w", err)
	}

	now := a.now().UTC().Truncate(time.Second)
	s := &session.Session{
		ID:        id,
		User:      u,
		CreatedAt: now,
		ExpiresAt: now.Add(a.cfg.TTL),
	}
	if err := s.Validate(); err != nil {
		return "", nil, err
	}

	if err := a.Sessions.Create(s); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := a.Sign(s)
	if err != nil {
		return "", nil, err
	}
	return token, s, nil
}

func (a *Authenticator) Sign(s *session.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, s.Claims())
	signed, err := token.SignedString(a.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("token signing: %w", err)
	}
	return signed, nil
}

func (a *Authenticator) keyFunc(token *jwt.Token) (interface{}, error) {
	method, ok := token.Method.(*jwt.SigningMethodHMAC)
	if !ok || method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return a.cfg.Secret, nil
}

func (a *Authenticator) parse(tokenString string, parser *jwt.Parser) (*claims.Claims, error) {
	c := &claims.Claims{}
	token, err := parser.ParseWithClaims(tokenString, c, a.keyFunc)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// Verify checks signature and expiry and converts the payload to a session.
// It does not consult the session repository.
func (a *Authenticator) Verify(tokenString string) (*session.Session, error) {
	c, err := a.parse(tokenString, &jwt.Parser{})
	if err != nil {
		return nil, err
	}
	s, err := session.FromClaims(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return s, nil
}

// TokenFromRequest prefers the Authorization header over the cookie.
func (a *Authenticator) TokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || token == "" {
			return "", ErrInvalidToken
		}
		return token, nil
	}
	cookie, err := r.Cookie(a.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoToken
	}
	return cookie.Value, nil
}

func (a *Authenticator) Authenticate(r *http.Request) (*session.Session, error) {
	token, err := a.TokenFromRequest(r)
	if err != nil {
		return nil, err
	}

	s, err := a.Verify(token)
	if err != nil {
		return nil, err
	}

	ok, err := a.Sessions.IsValid(s.ID)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if !ok {
		return nil, ErrSessionRevoked
	}
	return s, nil
}

func (a *Authenticator) SetCookie(w http.ResponseWriter, token string, s *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   a.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Authenticator) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RevokeUser ends every session of userID.
func (a *Authenticator) RevokeUser(userID string) error {
	if err := a.Sessions.InvalidateUser(userID); err != nil {
		return fmt.Errorf("invalidate sessions of %s: %w", userID, err)
	}
	return nil
}
