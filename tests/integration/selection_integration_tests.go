//go:build integration
// +build integration

package selection

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"contract-admin-api/internal/selection"
)

// Exercises the selection endpoints through the real router and auth
// middleware: a signed access token cookie, a shared sqlite database, and
// the client-clears-contract rule end to end.

func newIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:selection_it?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&selection.Selection{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func accessCookie(t *testing.T, secret string, userID int) *http.Cookie {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    "editor",
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return &http.Cookie{Name: "access_token", Value: signed}
}

func request(r http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSelectionFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "integration-secret")

	db := newIntegrationDB(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	selection.RegisterRoutes(r, &selection.SelectionService{DB: db})

	cookie := accessCookie(t, "integration-secret", 4)

	// no cookie -> rejected by the middleware
	if w := request(r, http.MethodGet, "/api/selection", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d", w.Code)
	}

	// empty selection comes back zero-valued, not 404
	w := request(r, http.MethodGet, "/api/selection", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", w.Code, w.Body.String())
	}

	// pick a client, then a contract
	w = request(r, http.MethodPut, "/api/selection", gin.H{"client_id": "12"}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("set client status = %d, body %s", w.Code, w.Body.String())
	}
	w = request(r, http.MethodPut, "/api/selection", gin.H{"contract_id": "55"}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("set contract status = %d, body %s", w.Code, w.Body.String())
	}

	var getResp struct {
		Selection selection.Selection `json:"selection"`
	}
	w = request(r, http.MethodGet, "/api/selection", nil, cookie)
	if err := json.Unmarshal(w.Body.Bytes(), &getResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if getResp.Selection.ClientID != "12" || getResp.Selection.ContractID != "55" {
		t.Fatalf("selection = %+v", getResp.Selection)
	}

	// switching clients drops the contract
	w = request(r, http.MethodPut, "/api/selection", gin.H{"client_id": "13"}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("switch client status = %d", w.Code)
	}
	w = request(r, http.MethodGet, "/api/selection", nil, cookie)
	_ = json.Unmarshal(w.Body.Bytes(), &getResp)
	if getResp.Selection.ClientID != "13" || getResp.Selection.ContractID != "" {
		t.Fatalf("selection after client switch = %+v", getResp.Selection)
	}

	// clear wipes the row
	if w := request(r, http.MethodDelete, "/api/selection", nil, cookie); w.Code != http.StatusOK {
		t.Fatalf("clear status = %d", w.Code)
	}
	w = request(r, http.MethodGet, "/api/selection", nil, cookie)
	_ = json.Unmarshal(w.Body.Bytes(), &getResp)
	if getResp.Selection.ClientID != "" || getResp.Selection.ContractID != "" {
		t.Fatalf("selection after clear = %+v", getResp.Selection)
	}
}
