package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/racso574/duoot-api/internal/auth"
)

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := auth.NewJWTService("test-secret", 24)
	token, err := svc.Generate(7, "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	expired := auth.NewJWTService("test-secret", -1)
	expiredToken, err := expired.Generate(7, "alice")
	if err != nil {
		t.Fatalf("Generate (expired): %v", err)
	}

	r := gin.New()
	r.GET("/protected", JWT(svc), func(c *gin.Context) {
		c.String(http.StatusOK, strconv.FormatInt(UserID(c), 10))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, "7"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc123", http.StatusUnauthorized, ""},
		{"malformed token", "Bearer garbage", http.StatusUnauthorized, ""},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}
