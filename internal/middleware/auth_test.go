package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"supplyflow/internal/authz"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "11111111-1111-1111-1111-111111111111",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(GetJWTSecret())
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/orders", Authorize(authz.ActionWrite, authz.ResourceOrder), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID"), "role": c.GetString("userRole")})
	})
	return router
}

func TestAuthorizeMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthorizeInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthorizeForbiddenRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "driver"))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestAuthorizeAllowedRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "agent"))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestAuthorizeOwnerAlwaysAllowed(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "owner"))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthorizeReadsCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signTestToken(t, "agent")})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthorizeRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signTestToken(t, "agent")

	t.Setenv("JWT_SECRET", "rotated-secret")
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
