package auth

import (
	"errors"
	"testing"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", 24)

	token, err := svc.Generate(42, "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Username)
	}
}

func TestValidateRejects(t *testing.T) {
	svc := NewJWTService("test-secret", 24)

	expired := NewJWTService("test-secret", -1)
	expiredToken, err := expired.Generate(1, "bob")
	if err != nil {
		t.Fatalf("Generate (expired): %v", err)
	}

	other := NewJWTService("other-secret", 24)
	foreignToken, err := other.Generate(1, "bob")
	if err != nil {
		t.Fatalf("Generate (foreign): %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate(%s) error = %v, want ErrInvalidToken", tt.name, err)
			}
		})
	}
}
