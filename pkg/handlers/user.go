package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"tenantdash/pkg/session"
	"tenantdash/pkg/user"
)

type LoginForm struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Name     string  `json:"name,omitempty"`
	Email    string  `json:"email,omitempty"`
	TenantID *string `json:"tenantId,omitempty"`
}

type TenantForm struct {
	TenantID *string `json:"tenantId"`
}

// Issuer opens sessions and hands their tokens to the client.
type Issuer interface {
	Issue(u session.User) (string, *session.Session, error)
	SetCookie(w http.ResponseWriter, token string, s *session.Session)
	RevokeUser(userID string) error
}

type Handler struct {
	Service user.ServiceInterface
	Auth    Issuer
	Logger  *slog.Logger
}

type FieldError struct {
	Location string `json:"location"`
	Param    string `json:"param"`
	Value    string `json:"value"`
	Msg      string `json:"msg"`
}

func NewUserHandler(service user.ServiceInterface, issuer Issuer, logger *slog.Logger) *Handler {
	return &Handler{
		Service: service,
		Auth:    issuer,
		Logger:  logger,
	}
}

func principal(u *user.User) session.User {
	return session.User{
		ID:       u.ID,
		TenantID: u.TenantID,
		Name:     u.Name,
		Email:    u.Email,
		Image:    u.Image,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req LoginForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "username and password are required")
		return
	}

	u, err := h.Service.Register(user.Registration{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		TenantID: req.TenantID,
	})
	switch {
	case err == nil:
		h.issueToken(w, u, "register")
	case errors.Is(err, user.ErrUserExists):
		if ok := WriteResp(w, h.Logger, map[string]any{
			"errors": []FieldError{
				{
					Location: "body",
					Param:    "username",
					Value:    req.Username,
					Msg:      "already exists",
				},
			},
		}, http.StatusUnprocessableEntity); ok {
			h.Logger.Error("register", "error", err.Error(), "username", req.Username)
		}
	case errors.Is(err, user.ErrUnknownTenant):
		tenantID := ""
		if req.TenantID != nil {
			tenantID = *req.TenantID
		}
		WriteResp(w, h.Logger, map[string]any{
			"errors": []FieldError{
				{
					Location: "body",
					Param:    "tenantId",
					Value:    tenantID,
					Msg:      "unknown tenant",
				},
			},
		}, http.StatusUnprocessableEntity)
	default:
		h.Logger.Error("register", "error", err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	u, err := h.Service.Login(req.Username, req.Password)
	if err != nil {
		msg := "invalid password"
		if errors.Is(err, user.ErrUserNotFound) {
			msg = "user not found"
		}
		if ok := WriteResp(w, h.Logger, map[string]any{"message": msg}, http.StatusUnauthorized); ok {
			h.Logger.Error("login", "error", "unauthorized", "username", req.Username)
		}
		return
	}

	h.issueToken(w, u, "login")
}

// Me returns the principal of the current session.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := getSessionFromContext(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.Logger, s.User)
}

// AssignTenant moves the caller into another tenant (or out of any with
// null). Existing sessions carry the old tenant, so they are all revoked and
// a fresh token is issued.
func (h *Handler) AssignTenant(w http.ResponseWriter, r *http.Request) {
	s, ok := getSessionFromContext(w, r)
	if !ok {
		return
	}

	var req TenantForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	u, err := h.Service.AssignTenant(s.User.ID, req.TenantID)
	switch {
	case errors.Is(err, user.ErrUnknownTenant):
		writeError(w, http.StatusUnprocessableEntity, typeMessage, "unknown tenant")
		return
	case errors.Is(err, user.ErrUserNotFound):
		writeError(w, http.StatusNotFound, typeMessage, "user not found")
		return
	case err != nil:
		h.Logger.Error("assign tenant", "error", err, "user", s.User.ID)
		writeError(w, http.StatusInternalServerError, typeError, "failed to assign tenant")
		return
	}

	if err := h.Auth.RevokeUser(u.ID); err != nil {
		h.Logger.Error("assign tenant", "error", err, "user", u.ID)
		writeError(w, http.StatusInternalServerError, typeError, "failed to rotate session")
		return
	}

	h.issueToken(w, u, "assign tenant")
}

func (h *Handler) issueToken(w http.ResponseWriter, u *user.User, action string) {
	token, s, err := h.Auth.Issue(principal(u))
	if err != nil {
		h.Logger.Error("token signing", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.Auth.SetCookie(w, token, s)
	if ok := WriteResp(w, h.Logger, map[string]any{"token": token}, http.StatusOK); ok {
		h.Logger.Info(action, "user", u.ID, "session", s.ID)
	}
}
