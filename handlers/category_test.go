package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopora-backend/models"
)

func TestGetCategoriesPaginated(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	seedCategory(db, "Fruits")
	seedCategory(db, "Vegetables")
	seedCategory(db, "Dairy")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/categories?page=1&limit=2", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	categories, ok := resp["categories"].([]interface{})
	if !ok {
		t.Fatal("expected categories array in response")
	}
	if len(categories) != 2 {
		t.Errorf("expected 2 categories on page 1, got %d", len(categories))
	}
	if resp["page"].(float64) != 1 {
		t.Errorf("expected page 1, got %v", resp["page"])
	}
	if resp["total"].(float64) != 3 {
		t.Errorf("expected total 3, got %v", resp["total"])
	}
	// ceil(3/2) = 2
	if resp["totalPages"].(float64) != 2 {
		t.Errorf("expected totalPages 2, got %v", resp["totalPages"])
	}
}

func TestGetCategoriesLastPage(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	seedCategory(db, "Fruits")
	seedCategory(db, "Vegetables")
	seedCategory(db, "Dairy")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/categories?page=2&limit=2", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	categories := resp["categories"].([]interface{})
	if len(categories) != 1 {
		t.Errorf("expected 1 category on page 2, got %d", len(categories))
	}
}

func TestGetPopularCategoriesSorted(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	seedPopularCategory(db, "Zebra Gear", 1)
	seedPopularCategory(db, "Apples", 2)
	seedCategory(db, "Hidden")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/categories/popular", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	categories := resp["categories"].([]interface{})
	if len(categories) != 2 {
		t.Fatalf("expected 2 popular categories, got %d", len(categories))
	}

	// Sorted by name ascending
	first := categories[0].(map[string]interface{})
	if first["name"] != "Apples" {
		t.Errorf("expected 'Apples' first, got %v", first["name"])
	}
}

func TestGetMegaMenuCapsProductsPerSubcategory(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	cat := seedPopularCategory(db, "Electronics", 1)
	sub := seedSubcategory(db, "Phones", cat.ID)
	for i := 0; i < 6; i++ {
		seedProduct(db, fmt.Sprintf("Phone %d", i), cat.ID, sub.ID, 199.99)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/categories/mega-menu", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	menu := resp["menu"].([]interface{})
	if len(menu) != 1 {
		t.Fatalf("expected 1 menu entry, got %d", len(menu))
	}

	entry := menu[0].(map[string]interface{})
	subcategories := entry["subcategories"].([]interface{})
	if len(subcategories) != 1 {
		t.Fatalf("expected 1 subcategory, got %d", len(subcategories))
	}

	products := subcategories[0].(map[string]interface{})["products"].([]interface{})
	if len(products) != 4 {
		t.Errorf("expected at most 4 products per subcategory, got %d", len(products))
	}
}

func TestGetMegaMenuOrdersBySortOrder(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	seedPopularCategory(db, "Second", 2)
	seedPopularCategory(db, "First", 1)
	seedCategory(db, "Not Popular")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/categories/mega-menu", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	menu := resp["menu"].([]interface{})
	if len(menu) != 2 {
		t.Fatalf("expected 2 menu entries, got %d", len(menu))
	}
	if menu[0].(map[string]interface{})["name"] != "First" {
		t.Errorf("expected 'First' as first menu entry, got %v", menu[0].(map[string]interface{})["name"])
	}

	// A popular category with no subcategories still appears with an empty list
	subs := menu[0].(map[string]interface{})["subcategories"].([]interface{})
	if len(subs) != 0 {
		t.Errorf("expected empty subcategories, got %d", len(subs))
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/categories/00000000-0000-0000-0000-000000000000", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestCreateCategoryWithImage(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")

	fields := map[string]string{
		"name":        "New Category",
		"description": "A new test category",
		"is_popular":  "true",
		"sort_order":  "3",
	}
	files := map[string]string{"image": "category.jpg"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("POST", "/api/categories", fields, files, adminToken))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["name"] != "New Category" {
		t.Errorf("expected name 'New Category', got %v", resp["name"])
	}
	if resp["slug"] != "new-category" {
		t.Errorf("expected slug 'new-category', got %v", resp["slug"])
	}

	var count int64
	db.Model(&models.Category{}).Where("name = ?", "New Category").Count(&count)
	if count != 1 {
		t.Error("expected category to be saved in database")
	}
}

func TestCreateCategoryRequiresImage(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")

	fields := map[string]string{"name": "No Image Category"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("POST", "/api/categories", fields, nil, adminToken))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	seedCategory(db, "Fruits")

	fields := map[string]string{"name": "Fruits"}
	files := map[string]string{"image": "fruits.jpg"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("POST", "/api/categories", fields, files, adminToken))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateCategoryRequiresAdmin(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	_, customerToken := seedTestUser(db, "customer@test.com", "customer")

	fields := map[string]string{"name": "Blocked Category"}
	files := map[string]string{"image": "blocked.jpg"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("POST", "/api/categories", fields, files, customerToken))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}

	// Anonymous callers get 401
	w = httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("POST", "/api/categories", fields, files, ""))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestUpdateCategoryReplacesImage(t *testing.T) {
	db := freshDB()
	store := newMockStorage()
	router := setupCategoryRouterWithStorage(db, store)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	cat := seedCategory(db, "Old Name Cat")
	oldImage := cat.Image

	fields := map[string]string{"name": "Updated Cat Name"}
	files := map[string]string{"image": "new.jpg"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("PUT", fmt.Sprintf("/api/categories/%s", cat.ID), fields, files, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["name"] != "Updated Cat Name" {
		t.Errorf("expected updated name, got %v", resp["name"])
	}
	if resp["image"] != "/uploads/test_image.jpg" {
		t.Errorf("expected new image path, got %v", resp["image"])
	}

	if len(store.DeleteCalls) != 1 || store.DeleteCalls[0] != oldImage {
		t.Errorf("expected old image %s to be deleted, got %v", oldImage, store.DeleteCalls)
	}
}

func TestUpdateCategoryWithoutImageKeepsExisting(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	cat := seedCategory(db, "Keep Image Cat")

	fields := map[string]string{"description": "new description"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("PUT", fmt.Sprintf("/api/categories/%s", cat.ID), fields, nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["image"] != cat.Image {
		t.Errorf("expected image %s to be kept, got %v", cat.Image, resp["image"])
	}
}

func TestDeleteCategoryLeavesChildrenInPlace(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	cat := seedCategory(db, "Doomed")
	sub := seedSubcategory(db, "Orphan Sub", cat.ID)
	prod := seedProduct(db, "Orphan Product", cat.ID, sub.ID, 9.99)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", fmt.Sprintf("/api/categories/%s", cat.ID), nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.Category{}).Where("id = ?", cat.ID).Count(&count)
	if count != 0 {
		t.Error("expected category to be removed")
	}

	// Subcategory and product survive with their references intact
	db.Model(&models.Subcategory{}).Where("id = ?", sub.ID).Count(&count)
	if count != 1 {
		t.Error("expected subcategory to survive category deletion")
	}
	db.Model(&models.Product{}).Where("id = ?", prod.ID).Count(&count)
	if count != 1 {
		t.Error("expected product to survive category deletion")
	}
}

func TestDeleteCategoryNotFound(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", "/api/categories/00000000-0000-0000-0000-000000000000", nil, adminToken))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
