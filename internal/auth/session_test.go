package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCodec_RoundTrip(t *testing.T) {
	c, err := NewCodec("s3cret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	want := User{ID: "u1", Email: "ada@example.com", Name: "Ada"}
	value, err := c.Encode(want)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := c.Decode(value)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != want {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestCodec_Rejects(t *testing.T) {
	c, _ := NewCodec("s3cret", time.Hour)
	other, _ := NewCodec("different", time.Hour)

	value, _ := c.Encode(User{ID: "u1"})
	forged, _ := other.Encode(User{ID: "u1"})
	body, sig, _ := strings.Cut(value, ".")

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"no signature", body},
		{"wrong key", forged},
		{"tampered body", body + "x." + sig},
		{"garbage signature", body + ".!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Decode(tt.value); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Decode() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestCodec_Expired(t *testing.T) {
	c, _ := NewCodec("s3cret", time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	value, _ := c.Encode(User{ID: "u1"})
	now = now.Add(2 * time.Minute)

	if _, err := c.Decode(value); !errors.Is(err, ErrExpired) {
		t.Errorf("Decode() error = %v, want ErrExpired", err)
	}
}

func TestNewCodec_EmptySecret(t *testing.T) {
	if _, err := NewCodec("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
