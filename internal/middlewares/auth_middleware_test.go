package middlewares

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// -------------------------
// helpers
// -------------------------

func setJWTSecretEnv(t *testing.T, secret string) {
	t.Helper()

	_ = os.Setenv("JWT_SECRET", secret)
	t.Cleanup(func() {
		_ = os.Unsetenv("JWT_SECRET")
	})
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/ok", func(c *gin.Context) {
		uid, _ := c.Get("userID")
		role, _ := c.Get("role")
		c.JSON(200, gin.H{
			"userID":       uid,
			"role":         role,
			"reached_next": true,
		})
	})
	return r
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

// JWT-shaped string with an invalid signature; Parse must reject it before
// the claims type assertion runs.
func makeBadSignatureTokenString(t *testing.T) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":1}`))
	return header + "." + payload + ".invalidsig"
}

func doReq(r *gin.Engine, token string, setCookie bool) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	if setCookie {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}
	r.ServeHTTP(w, req)
	return w
}

// -------------------------
// tests
// -------------------------

func TestAuthMiddleware_MissingCookie_401(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	w := doReq(r, "", false)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Missing access token") {
		t.Fatalf("expected Missing access token, got %s", w.Body.String())
	}
}

func TestAuthMiddleware_InvalidToken_401(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	w := doReq(r, "not-a-jwt", true)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Invalid or expired token") {
		t.Fatalf("expected Invalid or expired token, got %s", w.Body.String())
	}
}

func TestAuthMiddleware_WrongSecret_401(t *testing.T) {
	setJWTSecretEnv(t, "server-secret")
	r := newTestRouter()

	token := signHS256(t, "other-secret", jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := doReq(r, token, true)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware_ExpiredToken_401(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	token := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	w := doReq(r, token, true)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware_UserID_Float64_OK_RoleParsed(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	token := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id": float64(42),
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := doReq(r, token, true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}

	if body["reached_next"] != true {
		t.Fatalf("expected reached_next true, got %#v", body["reached_next"])
	}
	if body["userID"] != float64(42) {
		t.Fatalf("expected userID 42, got %#v", body["userID"])
	}
	if body["role"] != "admin" {
		t.Fatalf("expected role admin, got %#v", body["role"])
	}
}

func TestAuthMiddleware_UserID_String_OK(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	token := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id": "123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := doReq(r, token, true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)

	if body["userID"] != float64(123) {
		t.Fatalf("expected userID 123, got %#v", body["userID"])
	}
}

func TestAuthMiddleware_UserID_String_ParseFail_401(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	token := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id": "abc",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := doReq(r, token, true)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "invalid user ID") {
		t.Fatalf("expected invalid user ID, got %s", w.Body.String())
	}
}

func TestAuthMiddleware_UserID_UnsupportedType_401(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	token := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id": []any{1},
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := doReq(r, token, true)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware_MissingRole_DefaultsEmpty(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	token := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := doReq(r, token, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["role"] != "" {
		t.Fatalf("expected empty role, got %#v", body["role"])
	}
}

func TestAuthMiddleware_MalformedButJWTLikeString_401(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	w := doReq(r, makeBadSignatureTokenString(t), true)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/admin", func(c *gin.Context) { c.Set("role", "editor"); c.Next() }, RequireRole("admin"), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/editor", func(c *gin.Context) { c.Set("role", "editor"); c.Next() }, RequireRole("admin", "editor"), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/norole", RequireRole("admin"), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong role, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/editor", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for allowed role, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/norole", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when role missing, got %d", w.Code)
	}
}
