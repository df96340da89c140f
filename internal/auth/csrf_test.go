package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

var testCSRFSecret = []byte("test-secret-key-32-bytes-long!!!")

func csrfRouter(reached *bool) *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/api/csrf", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": GetCSRFToken(c)})
	})
	router.POST("/api/auth/logout", func(c *gin.Context) {
		*reached = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	var reached bool
	router := csrfRouter(&reached)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/csrf", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for GET request, got %d", rr.Code)
	}
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	var reached bool
	router := csrfRouter(&reached)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for POST without CSRF token, got %d", rr.Code)
	}
	if reached {
		t.Error("handler ran despite the CSRF failure")
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON error body, got Content-Type %q", ct)
	}
}

func TestCSRFMiddleware_AcceptsTokenRoundTrip(t *testing.T) {
	var reached bool
	var token string
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/api/csrf", func(c *gin.Context) {
		token = GetCSRFToken(c)
		c.Status(http.StatusOK)
	})
	router.POST("/api/auth/logout", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/api/csrf", nil))
	if token == "" {
		t.Fatal("Expected a CSRF token on GET")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set(CSRFTokenHeader, token)
	for _, cookie := range getRR.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 with a valid token, got %d", rr.Code)
	}
	if !reached {
		t.Error("handler did not run with a valid token")
	}
}

func TestGetCSRFToken_Disabled(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if token := GetCSRFToken(c); token != "" {
		t.Errorf("Expected empty token without middleware, got %q", token)
	}
}

func TestGenerateCSRFSecret(t *testing.T) {
	a, err := GenerateCSRFSecret()
	if err != nil {
		t.Fatalf("GenerateCSRFSecret failed: %v", err)
	}
	b, err := GenerateCSRFSecret()
	if err != nil {
		t.Fatalf("GenerateCSRFSecret failed: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("Expected a 32-byte secret, got %d bytes", len(a))
	}
	if string(a) == string(b) {
		t.Error("Expected two generated secrets to differ")
	}
}
