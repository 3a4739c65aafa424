package auth

import (
	"errors"
	"testing"
	"time"

	pkgauth "github.com/mercurylabs/mercury/pkg/auth"
)

func TestLogin_RoundTrip(t *testing.T) {
	hash, err := pkgauth.HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService("test-secret", hash, time.Hour)

	token, err := svc.Login("correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := pkgauth.ParseToken([]byte("test-secret"), token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != OperatorSubject {
		t.Errorf("subject = %q, want %q", claims.Subject, OperatorSubject)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService("test-secret", hash, 0)

	if _, err := svc.Login("battery staple"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_Disabled(t *testing.T) {
	for _, tc := range []struct {
		name   string
		secret string
		hash   string
	}{
		{"no secret", "", "$2a$12$abcdefghijklmnopqrstuv"},
		{"no hash", "secret", ""},
		{"neither", "", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.secret, tc.hash, 0)
			if svc.Enabled() {
				t.Error("Enabled() = true")
			}
			if _, err := svc.Login("anything"); !errors.Is(err, ErrDisabled) {
				t.Fatalf("got %v, want ErrDisabled", err)
			}
		})
	}
}
