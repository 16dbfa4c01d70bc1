package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/permitdesk/permitdesk/api"
	"github.com/permitdesk/permitdesk/pkg/models"
)

func TestJWTAuthMiddleware(t *testing.T) {
	var gotUserID int64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = api.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	mw := api.JWTAuthMiddlewareWithSecret(testSecret)(next)

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/packages", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/packages", nil)
		req.Header.Set("Authorization", "Basic abc")
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": int64(3),
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		s, err := token.SignedString([]byte("other-secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		req := httptest.NewRequest("GET", "/v1/packages", nil)
		req.Header.Set("Authorization", "Bearer "+s)
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": int64(3),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		s, err := token.SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		req := httptest.NewRequest("GET", "/v1/packages", nil)
		req.Header.Set("Authorization", "Bearer "+s)
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("valid token puts claims in context", func(t *testing.T) {
		gotUserID, gotOK = 0, false
		req := httptest.NewRequest("GET", "/v1/packages", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, 42, models.RoleUser))
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if !gotOK || gotUserID != 42 {
			t.Fatalf("expected user id 42 in context, got %d ok=%v", gotUserID, gotOK)
		}
	})
}

func TestAdminOnlyMiddleware(t *testing.T) {
	h, _ := newTestServer(t, "api_admin_only")

	userToken := signToken(t, 1, models.RoleUser)
	rr := doRequest(t, h, "GET", "/v1/users/pending", userToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for regular user, got %d", rr.Code)
	}
	rr = doRequest(t, h, "PUT", "/v1/settings/company_name", userToken, map[string]string{"value": "X"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for regular user, got %d", rr.Code)
	}

	adminToken := signToken(t, 1, models.RoleAdmin)
	rr = doRequest(t, h, "GET", "/v1/users/pending", adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := api.CORSMiddleware(next)

	req := httptest.NewRequest("OPTIONS", "/v1/packages", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected CORS headers on preflight")
	}

	req = httptest.NewRequest("GET", "/v1/packages", nil)
	rr = httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through for GET, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected CORS headers on normal responses")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	panics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rr := httptest.NewRecorder()
	api.RecoveryMiddleware(panics).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rr.Code)
	}
}
