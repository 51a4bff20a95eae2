package http

import (
	"net/http"

	"teleradiology-case-routing/internal/delivery/http/handler"
	"teleradiology-case-routing/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	caseHandler        *handler.CaseHandler
	radiologistHandler *handler.RadiologistHandler
	wsHandler          *handler.WSHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	caseHandler *handler.CaseHandler,
	radiologistHandler *handler.RadiologistHandler,
	wsHandler *handler.WSHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		caseHandler:        caseHandler,
		radiologistHandler: radiologistHandler,
		wsHandler:          wsHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Live channel, reachable with and without the API prefix
	r.router.Handle("/ws", r.authMiddleware.Authenticate(http.HandlerFunc(r.wsHandler.Connect))).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Signup (public)
	api.HandleFunc("/center/signup", r.authHandler.RegisterCenter).Methods(http.MethodPost)
	api.HandleFunc("/radiologist/signup", r.authHandler.RegisterRadiologist).Methods(http.MethodPost)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/verify", r.authHandler.VerifyToken).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	api.Handle("/ws", r.authMiddleware.Authenticate(http.HandlerFunc(r.wsHandler.Connect))).Methods(http.MethodGet)

	// Radiologist routes (protected - radiologist only)
	radiologist := api.PathPrefix("/radiologist").Subrouter()
	radiologist.Use(r.authMiddleware.Authenticate)
	radiologist.Use(middleware.RequireRadiologist)
	radiologist.HandleFunc("/availability", r.radiologistHandler.GetAvailability).Methods(http.MethodGet)
	radiologist.HandleFunc("/availability", r.radiologistHandler.SetAvailability).Methods(http.MethodPost)

	// Case routes (protected - any role, writes restricted per role)
	cases := api.PathPrefix("/cases").Subrouter()
	cases.Use(r.authMiddleware.Authenticate)
	cases.Handle("", middleware.RequireCenter(http.HandlerFunc(r.caseHandler.CreateCase))).Methods(http.MethodPost)
	cases.HandleFunc("", r.caseHandler.ListCases).Methods(http.MethodGet)
	cases.HandleFunc("/{id}", r.caseHandler.GetCase).Methods(http.MethodGet)
	cases.HandleFunc("/{id}/history", r.caseHandler.CaseHistory).Methods(http.MethodGet)
	cases.Handle("/{id}/accept", middleware.RequireRadiologist(http.HandlerFunc(r.caseHandler.AcceptCase))).Methods(http.MethodPost)
	cases.Handle("/{id}/report", middleware.RequireRadiologist(http.HandlerFunc(r.caseHandler.SubmitReport))).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
