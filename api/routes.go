package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/permitdesk/permitdesk/internal/config"
	"github.com/permitdesk/permitdesk/internal/db"
	"github.com/permitdesk/permitdesk/internal/permits"
	"github.com/permitdesk/permitdesk/internal/repository/sqlite"
	"github.com/permitdesk/permitdesk/internal/storage"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, d *db.DB) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository: exactly one concrete implementation, chosen here at
	// startup and injected everywhere.
	repo := sqlite.New(d, logger)

	store, err := storage.New(cfg.UploadDir, logger)
	if err != nil {
		return nil, fmt.Errorf("init upload store: %w", err)
	}

	svc := permits.NewService(repo, repo, logger)

	// Create handlers
	systemHandler := NewSystemHandler(d)
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	packagesHandler, err := NewPackagesHandler(svc)
	if err != nil {
		return nil, fmt.Errorf("init packages handler: %w", err)
	}
	documentsHandler := NewDocumentsHandler(svc, store)
	settingsHandler := NewSettingsHandler(repo)
	usersHandler := NewUsersHandler(repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	apiV1.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")

	// Package endpoints
	apiV1.HandleFunc("/packages", packagesHandler.ListPackages).Methods("GET")
	apiV1.HandleFunc("/packages", packagesHandler.CreatePackage).Methods("POST")
	apiV1.HandleFunc("/packages/{id}", packagesHandler.GetPackage).Methods("GET")
	apiV1.HandleFunc("/packages/{id}", packagesHandler.UpdatePackage).Methods("PATCH")
	apiV1.HandleFunc("/packages/{id}", packagesHandler.DeletePackage).Methods("DELETE")
	apiV1.HandleFunc("/packages/{id}/documents", documentsHandler.AddDocument).Methods("POST")

	// Document endpoints
	apiV1.HandleFunc("/documents/{id}", documentsHandler.UpdateDocument).Methods("PATCH")
	apiV1.HandleFunc("/documents/{id}", documentsHandler.DeleteDocument).Methods("DELETE")
	apiV1.HandleFunc("/documents/{id}/file", documentsHandler.UploadFile).Methods("POST")
	apiV1.HandleFunc("/documents/{id}/file", documentsHandler.DownloadFile).Methods("GET")
	apiV1.HandleFunc("/documents/{id}/file", documentsHandler.DeleteFile).Methods("DELETE")

	// Settings (read for any authenticated user)
	apiV1.HandleFunc("/settings", settingsHandler.ListSettings).Methods("GET")

	// Admin endpoints
	apiV1.Handle("/settings/{key}", AdminOnlyMiddleware(http.HandlerFunc(settingsHandler.UpsertSetting))).Methods("PUT")
	adminUsers := apiV1.PathPrefix("/users").Subrouter()
	adminUsers.Use(AdminOnlyMiddleware)
	adminUsers.HandleFunc("/pending", usersHandler.PendingUsers).Methods("GET")
	adminUsers.HandleFunc("/{id}/approve", usersHandler.ApproveUser).Methods("POST")

	return r, nil
}
