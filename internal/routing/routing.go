package routing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"tenantdash/pkg/auth"
	"tenantdash/pkg/handlers"
	"tenantdash/pkg/robots"
	"tenantdash/pkg/tenant"
	"tenantdash/pkg/user"
)

const (
	staticPath      = "./static"
	shutdownTimeout = 10 * time.Second
)

func InitRoutes(api *mux.Router, authenticator *auth.Authenticator, users user.ServiceInterface, tenants tenant.ServiceTenant, logger *slog.Logger) {
	userHandler := handlers.NewUserHandler(users, authenticator, logger)
	logoutHandler := handlers.NewLogoutHandler(authenticator, logger)
	tenantHandler := handlers.NewTenantHandler(tenants, logger)

	/* -+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+ */

	authRouter := api.PathPrefix("").Subrouter()
	userRouter := api.PathPrefix("/user").Subrouter()
	tenantsRouter := api.PathPrefix("/tenants").Subrouter()

	/* auth routers */
	authRouter.HandleFunc("/register", userHandler.Register).Methods("POST").Name("register")
	authRouter.HandleFunc("/login", userHandler.Login).Methods("POST").Name("login")
	authRouter.HandleFunc("/logout", logoutHandler.Logout).Methods("POST").Name("logout")
	authRouter.HandleFunc("/me", userHandler.Me).Methods("GET").Name("me")
	authRouter.HandleFunc("/dashboard", tenantHandler.Dashboard).Methods("GET").Name("dashboard")

	/* user routers */
	userRouter.HandleFunc("/tenant", userHandler.AssignTenant).Methods("PUT")

	/* tenant routers */
	tenantsRouter.HandleFunc("", tenantHandler.CreateTenant).Methods("POST")
	tenantsRouter.HandleFunc("", tenantHandler.ListTenants).Methods("GET")
	tenantsRouter.HandleFunc("/{tenant_id:[a-zA-Z0-9-]+}", tenantHandler.GetTenant).Methods("GET")
}

func ServeRobots(r *mux.Router, policy robots.Policy) {
	r.Handle("/robots.txt", robots.Handler(policy)).Methods("GET", "HEAD")
}

func ServeStaticFiles(r *mux.Router) {
	fs := http.FileServer(http.Dir(staticPath))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))
}

// ServeFallback hands every non-API path to the SPA shell. Unknown API paths
// and API paths hit with the wrong method get a JSON 404.
func ServeFallback(r *mux.Router, logger *slog.Logger) {
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			if _, err := w.Write([]byte(`{"message":"not found"}`)); err != nil {
				logger.Error("failed to write fallback JSON", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			return
		}
		http.ServeFile(w, r, staticPath+"/html/index.html")
	})
}

// StartServer serves until ctx is cancelled, then drains in-flight requests.
func StartServer(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
