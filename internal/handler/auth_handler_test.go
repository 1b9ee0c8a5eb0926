package handler

import (
	"net/http"
	"testing"

	"github.com/newsdesk/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func seedLoginUser(t *testing.T, username, email, password, role string) db.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := db.User{Username: username, Email: email, Password: string(hashed), Role: role}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginWithUsernameAndEmail(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedLoginUser(t, "editor", "editor@example.com", "secret", db.RoleReviewer)

	r := newTestRouter(api, 0, "")
	r.POST("/api/login", api.Login)

	w := doJSON(t, r, http.MethodPost, "/api/login", map[string]any{"username": "editor", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login by username: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/login", map[string]any{"username": "editor@example.com", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login by email: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/login", map[string]any{"username": "editor", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", w.Code)
	}
}
