package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brdiniz/blower-maintenance/internal/auth"
	"github.com/brdiniz/blower-maintenance/internal/middleware"
	"github.com/brdiniz/blower-maintenance/internal/models"
)

func TestRequirePermission_RejectsAnonymous(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	authMW := middleware.NewAuthMiddleware(authService)

	called := false
	handler := requirePermission(authMW, "view_equipment", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/equipment", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if called {
		t.Error("handler should not run without a token")
	}
}

func TestRequirePermission_AllowsAuthorizedRole(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	authMW := middleware.NewAuthMiddleware(authService)

	token, err := authService.GenerateToken(&models.User{
		Username: "viewer",
		Role:     models.RoleViewer,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := requirePermission(authMW, "view_equipment", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/equipment", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRequirePermission_ForbidsInsufficientRole(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	authMW := middleware.NewAuthMiddleware(authService)

	token, err := authService.GenerateToken(&models.User{
		Username: "viewer",
		Role:     models.RoleViewer,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := requirePermission(authMW, "manage_equipment", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/equipment", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
