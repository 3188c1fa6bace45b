package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopora-backend/models"

	"github.com/google/uuid"
)

func TestToggleWishlistAddsThenRemoves(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	user, token := seedTestUser(db, "wisher@test.com", "customer")
	_, _, prod := seedCatalog(db, "Wished Product", 19.99)

	// First toggle adds
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", fmt.Sprintf("/api/wishlist/%s", prod.ID), nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["in_wishlist"] != true {
		t.Errorf("expected in_wishlist true, got %v", resp["in_wishlist"])
	}

	var count int64
	db.Model(&models.WishlistItem{}).Where("user_id = ? AND product_id = ?", user.ID, prod.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 wishlist item, got %d", count)
	}

	// Second toggle removes
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", fmt.Sprintf("/api/wishlist/%s", prod.ID), nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = parseResponse(w)
	if resp["in_wishlist"] != false {
		t.Errorf("expected in_wishlist false, got %v", resp["in_wishlist"])
	}

	db.Model(&models.WishlistItem{}).Where("user_id = ? AND product_id = ?", user.ID, prod.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected empty wishlist after second toggle, got %d", count)
	}
}

func TestToggleWishlistUnknownProduct(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	_, token := seedTestUser(db, "wisher@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", fmt.Sprintf("/api/wishlist/%s", uuid.New()), nil, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetWishlistPopulatesProducts(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	user, token := seedTestUser(db, "wisher@test.com", "customer")
	_, _, prod := seedCatalog(db, "Wished Product", 19.99)
	db.Create(&models.WishlistItem{ID: uuid.New(), UserID: user.ID, ProductID: prod.ID})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/wishlist", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	items := resp["wishlist"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 wishlist item, got %d", len(items))
	}

	product := items[0].(map[string]interface{})["product"].(map[string]interface{})
	if product["name"] != "Wished Product" {
		t.Errorf("expected populated product, got %v", product["name"])
	}
}

func TestRemoveFromWishlist(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	user, token := seedTestUser(db, "wisher@test.com", "customer")
	_, _, prod := seedCatalog(db, "Wished Product", 19.99)
	db.Create(&models.WishlistItem{ID: uuid.New(), UserID: user.ID, ProductID: prod.ID})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", fmt.Sprintf("/api/wishlist/%s", prod.ID), nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// Removing again is a 404
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", fmt.Sprintf("/api/wishlist/%s", prod.ID), nil, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 on second delete, got %d", w.Code)
	}
}

func TestWishlistRequiresAuth(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/wishlist", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}
