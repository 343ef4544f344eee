package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"tenantdash/pkg/auth"
	"tenantdash/pkg/handlers"
	"tenantdash/pkg/session"
)

type mockSignOuter struct {
	mock.Mock
}

func (m *mockSignOuter) SignOut(w http.ResponseWriter, r *http.Request, opts auth.SignOutOptions) error {
	err := m.Called(opts).Error(0)
	if err == nil {
		http.Redirect(w, r, opts.RedirectTo, http.StatusSeeOther)
	}
	return err
}

func TestLogout(t *testing.T) {
	t.Run("signs out once and redirects to login", func(t *testing.T) {
		m := new(mockSignOuter)
		m.On("SignOut", auth.SignOutOptions{RedirectTo: "/login"}).Return(nil)
		handler := handlers.NewLogoutHandler(m, newLogger())

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/logout", nil), session.User{ID: "u1"})
		rr := httptest.NewRecorder()

		handler.Logout(rr, req)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
		m.AssertNumberOfCalls(t, "SignOut", 1)
		m.AssertExpectations(t)
	})

	t.Run("no session", func(t *testing.T) {
		m := new(mockSignOuter)
		m.On("SignOut", auth.SignOutOptions{RedirectTo: handlers.LoginPath}).Return(nil)
		handler := handlers.NewLogoutHandler(m, newLogger())
		rr := httptest.NewRecorder()

		handler.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		m.AssertNumberOfCalls(t, "SignOut", 1)
	})

	t.Run("termination failure", func(t *testing.T) {
		m := new(mockSignOuter)
		m.On("SignOut", auth.SignOutOptions{RedirectTo: "/login"}).Return(errors.New("store down"))
		handler := handlers.NewLogoutHandler(m, newLogger())
		rr := httptest.NewRecorder()

		handler.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "sign out failed")
		m.AssertNumberOfCalls(t, "SignOut", 1)
	})
}
