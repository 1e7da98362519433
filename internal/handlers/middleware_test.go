package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storynest/internal/security"
)

const testSecret = "test-secret"

func childToken(t *testing.T, role string, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestRequireChildAuth(t *testing.T) {
	middleware := NewMiddleware(security.NewTokenVerifier(testSecret), security.NewRateLimiter(100, time.Minute))

	var gotChildID int64
	handler := middleware.RequireChildAuth(func(w http.ResponseWriter, r *http.Request) {
		gotChildID = ChildIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid child token",
			authHeader: "Bearer " + childToken(t, security.RoleChild, "7"),
			wantStatus: 200,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: 401,
		},
		{
			name:       "parent token on child route",
			authHeader: "Bearer " + childToken(t, security.RoleParent, "7"),
			wantStatus: 401,
		},
		{
			name:       "malformed token",
			authHeader: "Bearer nonsense",
			wantStatus: 401,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotChildID = 0
			request := httptest.NewRequest("GET", "/api/child/library", nil)
			if tt.authHeader != "" {
				request.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			handler(recorder, request)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
			if tt.wantStatus == 200 && gotChildID != 7 {
				t.Errorf("child id in context = %d, want 7", gotChildID)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	middleware := NewMiddleware(security.NewTokenVerifier(testSecret), security.NewRateLimiter(2, time.Minute))

	handler := middleware.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/api/child/library", nil)
		request.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(recorder, request)
		if recorder.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, recorder.Code)
		}
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/child/library", nil)
	request.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", recorder.Code)
	}
}
