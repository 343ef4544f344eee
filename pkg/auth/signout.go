package auth

import (
	"fmt"
	"net/http"
	"strings"

	"tenantdash/pkg/session"

	jwt "github.com/dgrijalva/jwt-go"
)

type SignOutOptions struct {
	// RedirectTo is where the client lands afterwards. Local paths only.
	RedirectTo string
}

// SignOuter is the session-termination routine the logout action calls.
type SignOuter interface {
	SignOut(w http.ResponseWriter, r *http.Request, opts SignOutOptions) error
}

func safeRedirect(target string) (string, error) {
	if target == "" {
		return "/", nil
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "", ErrUnsafeRedirect
	}
	return target, nil
}

// requestTokens returns every token the request carries: a Bearer token from
// the Authorization header and the session cookie. A malformed header does not
// hide the cookie.
func (a *Authenticator) requestTokens(r *http.Request) []string {
	var tokens []string
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
		tokens = append(tokens, token)
	}
	if cookie, err := r.Cookie(a.cfg.CookieName); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}
	return tokens
}

// currentSessionIDs finds the sessions being signed out. Expired tokens still
// name their session, so claim validation is skipped; the signature is not.
func (a *Authenticator) currentSessionIDs(r *http.Request) []string {
	var ids []string
	seen := map[string]bool{}
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if s, ok := session.FromContext(r.Context()); ok {
		add(s.ID)
	}
	for _, token := range a.requestTokens(r) {
		c, err := a.parse(token, &jwt.Parser{SkipClaimsValidation: true})
		if err != nil {
			continue
		}
		add(c.Id)
	}
	return ids
}

// SignOut invalidates the caller's session, clears the session cookie and
// redirects with 303 See Other. A request without any session still gets the
// cookie cleared and the redirect. Repository failures are returned as-is
// and nothing is written to w.
func (a *Authenticator) SignOut(w http.ResponseWriter, r *http.Request, opts SignOutOptions) error {
	target, err := safeRedirect(opts.RedirectTo)
	if err != nil {
		return err
	}

	for _, id := range a.currentSessionIDs(r) {
		if err := a.Sessions.Invalidate(id); err != nil {
			return fmt.Errorf("invalidate session %s: %w", id, err)
		}
	}

	a.clearCookie(w)
	http.Redirect(w, r, target, http.StatusSeeOther)
	return nil
}
