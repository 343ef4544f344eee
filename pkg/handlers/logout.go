package handlers

import (
	"log/slog"
	"net/http"

	"tenantdash/pkg/auth"
	"tenantdash/pkg/session"
)

const LoginPath = "/login"

type LogoutHandler struct {
	Auth   auth.SignOuter
	Logger *slog.Logger
}

func NewLogoutHandler(signOuter auth.SignOuter, logger *slog.Logger) *LogoutHandler {
	return &LogoutHandler{Auth: signOuter, Logger: logger}
}

// Logout ends the caller's session and sends them to the login page. It
// takes no input. Failures are not retried.
func (h *LogoutHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if s, ok := session.FromContext(r.Context()); ok {
		userID = s.User.ID
	}

	if err := h.Auth.SignOut(w, r, auth.SignOutOptions{RedirectTo: LoginPath}); err != nil {
		h.Logger.Error("logout", "error", err, "user", userID)
		writeError(w, http.StatusInternalServerError, typeError, "sign out failed")
		return
	}

	h.Logger.Info("logout", "user", userID)
}
