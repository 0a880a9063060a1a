package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// ErrExpired is returned for a session past its expiry.
var ErrExpired = errors.New("session expired")

const sessionKeyInfo = "syllabus-plus session v1"

// Codec signs and verifies session values.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type sessionPayload struct {
	User
	Expires int64 `json:"exp"`
}

// NewCodec derives the signing key from secret.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is empty")
	}
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(sessionKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("deriving session key: %w", err)
	}
	return &Codec{key: key, ttl: ttl, now: time.Now}, nil
}

// TTL returns the session lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode returns a signed session value for u.
func (c *Codec) Encode(u User) (string, error) {
	payload, err := json.Marshal(sessionPayload{User: u, Expires: c.now().Add(c.ttl).Unix()})
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + base64.RawURLEncoding.EncodeToString(c.sign(body)), nil
}

// Decode verifies a session value and returns its user.
func (c *Codec) Decode(value string) (User, error) {
	body, sig, ok := strings.Cut(value, ".")
	if !ok {
		return User{}, ErrInvalidToken
	}
	gotSig, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(gotSig, c.sign(body)) {
		return User{}, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return User{}, ErrInvalidToken
	}
	var p sessionPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		return User{}, ErrInvalidToken
	}
	if c.now().Unix() >= p.Expires {
		return User{}, ErrExpired
	}
	return p.User, nil
}

func (c *Codec) sign(body string) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(body))
	return mac.Sum(nil)
}
