package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopora-backend/models"
)

func TestAdminListUsers(t *testing.T) {
	db := freshDB()
	router := setupUserRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	seedTestUser(db, "alice@test.com", "customer")
	seedTestUser(db, "bob@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/users", nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	users := resp["users"].([]interface{})
	if len(users) != 3 {
		t.Errorf("expected 3 users, got %d", len(users))
	}
	if resp["total"].(float64) != 3 {
		t.Errorf("expected total 3, got %v", resp["total"])
	}

	first := users[0].(map[string]interface{})
	if _, ok := first["password"]; ok {
		t.Error("password must not appear in user listing")
	}
}

func TestAdminListUsersSearch(t *testing.T) {
	db := freshDB()
	router := setupUserRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	seedTestUser(db, "alice@test.com", "customer")
	seedTestUser(db, "bob@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/users?search=ALICE", nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	users := resp["users"].([]interface{})
	if len(users) != 1 {
		t.Fatalf("expected 1 matching user, got %d", len(users))
	}

	// Role filter
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/users?role=admin", nil, adminToken))
	resp = parseResponse(w)
	users = resp["users"].([]interface{})
	if len(users) != 1 {
		t.Errorf("expected 1 admin, got %d", len(users))
	}
}

func TestAdminUpdateUserRoleAndBlock(t *testing.T) {
	db := freshDB()
	router := setupUserRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	target, _ := seedTestUser(db, "promote@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", fmt.Sprintf("/api/admin/users/%s", target.ID),
		map[string]interface{}{"role": "admin", "is_blocked": true}, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.User
	db.First(&updated, "id = ?", target.ID)
	if updated.Role != "admin" {
		t.Errorf("expected role admin, got %s", updated.Role)
	}
	if !updated.IsBlocked {
		t.Error("expected user to be blocked")
	}
}

func TestAdminCannotChangeOwnRole(t *testing.T) {
	db := freshDB()
	router := setupUserRouter(db)

	admin, adminToken := seedTestUser(db, "admin@test.com", "admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", fmt.Sprintf("/api/admin/users/%s", admin.ID),
		map[string]interface{}{"role": "customer"}, adminToken))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminUpdateUserInvalidRole(t *testing.T) {
	db := freshDB()
	router := setupUserRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	target, _ := seedTestUser(db, "target@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", fmt.Sprintf("/api/admin/users/%s", target.ID),
		map[string]interface{}{"role": "superuser"}, adminToken))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminDeleteUser(t *testing.T) {
	db := freshDB()
	router := setupUserRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	target, _ := seedTestUser(db, "remove@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", fmt.Sprintf("/api/admin/users/%s", target.ID), nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.User{}).Where("id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Error("expected user to be removed")
	}
}

func TestAdminUserEndpointsRejectCustomers(t *testing.T) {
	db := freshDB()
	router := setupUserRouter(db)

	_, token := seedTestUser(db, "plain@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/users", nil, token))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for customer, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/admin/users", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous, got %d", w.Code)
	}
}
