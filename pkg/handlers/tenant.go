package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"tenantdash/pkg/session"
	"tenantdash/pkg/tenant"
)

type TenantHandler struct {
	Service tenant.ServiceTenant
	Logger  *slog.Logger
}

type CreateTenantForm struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type dashboardResp struct {
	User   session.User   `json:"user"`
	Tenant *tenant.Tenant `json:"tenant"`
}

func NewTenantHandler(service tenant.ServiceTenant, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{
		Service: service,
		Logger:  logger,
	}
}

func (h *TenantHandler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	s, ok := getSessionFromContext(w, r)
	if !ok {
		return
	}

	var req CreateTenantForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	t, err := h.Service.Create(req.Name, req.Slug)
	switch {
	case errors.Is(err, tenant.ErrInvalidName), errors.Is(err, tenant.ErrInvalidSlug):
		writeError(w, http.StatusBadRequest, typeError, err.Error())
		return
	case errors.Is(err, tenant.ErrTenantExists):
		writeError(w, http.StatusConflict, typeError, err.Error())
		return
	case err != nil:
		h.Logger.Error("create tenant", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "failed to create tenant")
		return
	}

	if ok := writeJSONStatus(w, h.Logger, t, http.StatusCreated); ok {
		h.Logger.Info("tenant created", "tenant", t.ID, "user", s.User.ID)
	}
}

func (h *TenantHandler) GetTenant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)[muxVarTenantID]
	if id == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid tenant id")
		return
	}

	t, err := h.Service.Get(id)
	if errors.Is(err, tenant.ErrTenantNotFound) {
		writeError(w, http.StatusNotFound, typeMessage, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("get tenant", "error", err, "tenant", id)
		writeError(w, http.StatusInternalServerError, typeError, "failed to fetch tenant")
		return
	}

	writeJSON(w, h.Logger, t)
}

func (h *TenantHandler) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.Service.List()
	if err != nil {
		h.Logger.Error("list tenants", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "failed to list tenants")
		return
	}
	writeJSON(w, h.Logger, tenants)
}

// Dashboard returns the caller and the tenant they belong to. A tenant
// reference that no longer resolves is reported as null.
func (h *TenantHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	s, ok := getSessionFromContext(w, r)
	if !ok {
		return
	}

	resp := dashboardResp{User: s.User}
	if s.User.TenantID != nil {
		t, err := h.Service.Get(*s.User.TenantID)
		switch {
		case errors.Is(err, tenant.ErrTenantNotFound):
			h.Logger.Warn("dashboard: dangling tenant", "user", s.User.ID, "tenant", *s.User.TenantID)
		case err != nil:
			h.Logger.Error("dashboard", "error", err, "user", s.User.ID)
			writeError(w, http.StatusInternalServerError, typeError, "failed to load tenant")
			return
		default:
			resp.Tenant = t
		}
	}

	writeJSON(w, h.Logger, resp)
}
