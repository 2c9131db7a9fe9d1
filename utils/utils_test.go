package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager("secret")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	token, err := m.NewJWT("u1", "admin", time.Minute)
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	other, _ := NewManager("other")
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected signature mismatch")
	}

	expired, _ := m.NewJWT("u1", "user", -time.Minute)
	if _, err := m.Parse(expired); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestNewManagerRequiresKey(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m, _ := NewManager("secret")
	a, _ := m.NewRefreshToken()
	b, _ := m.NewRefreshToken()
	if a == b || len(a) != 32 {
		t.Fatalf("unexpected refresh tokens %q %q", a, b)
	}
}

func TestPresignUpload(t *testing.T) {
	p, err := NewPresigner(StorageConfig{
		Region:    "us-east-1",
		Bucket:    "listings",
		Endpoint:  "https://object.example.com",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
		TTL:       5 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewPresigner: %v", err)
	}
	auth, err := p.PresignUpload("listings/u1", "photo.JPG")
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}
	if !strings.HasPrefix(auth.Key, "listings/u1/") || !strings.HasSuffix(auth.Key, ".jpg") {
		t.Fatalf("unexpected key %q", auth.Key)
	}
	if !strings.Contains(auth.UploadURL, "X-Amz-Signature=") {
		t.Fatalf("expected signed url, got %q", auth.UploadURL)
	}
	if auth.PublicURL != "https://object.example.com/listings/"+auth.Key {
		t.Fatalf("unexpected public url %q", auth.PublicURL)
	}

	if _, err := p.PresignUpload("x", "script.sh"); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}
