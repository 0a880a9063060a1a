// Package auth verifies identity provider tokens and keeps the signed-in
// user in a signed session cookie. The rest of the application only asks
// whether a user is present.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrInvalidToken is returned for tokens the provider or codec rejects.
var ErrInvalidToken = errors.New("invalid token")

const defaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// User is a signed-in user.
type User struct {
	ID    string `json:"uid"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Verifier exchanges a provider ID token for the user it identifies.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (User, error)
}

// FirebaseVerifier checks Firebase ID tokens with the Identity Toolkit
// accounts:lookup endpoint.
type FirebaseVerifier struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// FirebaseOption configures a FirebaseVerifier.
type FirebaseOption func(*FirebaseVerifier)

// WithBaseURL sets the Identity Toolkit base URL.
func WithBaseURL(u string) FirebaseOption {
	return func(v *FirebaseVerifier) {
		v.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FirebaseOption {
	return func(v *FirebaseVerifier) {
		v.client = client
	}
}

// NewFirebaseVerifier creates a verifier for the project owning apiKey.
func NewFirebaseVerifier(apiKey string, opts ...FirebaseOption) *FirebaseVerifier {
	v := &FirebaseVerifier{
		apiKey:  apiKey,
		baseURL: defaultIdentityToolkitURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"users"`
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (User, error) {
	if idToken == "" {
		return User{}, ErrInvalidToken
	}

	body, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return User{}, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := v.baseURL + "/accounts:lookup?key=" + url.QueryEscape(v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return User{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return User{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest {
		return User{}, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("identity toolkit error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var lr lookupResponse
	if err := json.Unmarshal(respBody, &lr); err != nil {
		return User{}, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(lr.Users) == 0 || lr.Users[0].LocalID == "" {
		return User{}, ErrInvalidToken
	}

	u := lr.Users[0]
	return User{ID: u.LocalID, Email: u.Email, Name: u.DisplayName}, nil
}

// StaticVerifier accepts a fixed set of tokens. It backs local development
// and tests.
type StaticVerifier map[string]User

func (s StaticVerifier) Verify(_ context.Context, idToken string) (User, error) {
	u, ok := s[idToken]
	if !ok {
		return User{}, ErrInvalidToken
	}
	return u, nil
}
