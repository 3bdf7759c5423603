package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ExternalIdentity is the portion of the provider's user object we care
// about. The provider returns a much larger record — we only decode the
// stable subject ID and the email.
type ExternalIdentity struct {
	ID    string `json:"id"`    // provider-issued UUID, stable for the account's lifetime
	Email string `json:"email"` // email as currently registered at the provider
}

// Verifier checks a bearer token with the identity provider.
//
// It is an interface so the service layer can be tested with a fake, and so
// a deployment without a provider (local-token auth only) can pass nil.
type Verifier interface {
	Verify(ctx context.Context, token string) (*ExternalIdentity, error)
}

// ProviderVerifier verifies tokens against the hosted identity provider's
// user endpoint.
//
// The provider owns the credential store and issues the tokens; we cannot
// check them locally. Verification is a GET to /auth/v1/user carrying the
// user's own token as the bearer credential plus the project's publishable
// API key. A 200 response means the token is valid and the body describes
// the account it belongs to.
//
// Callers must treat every failure from Verify — network error, timeout,
// malformed token, provider-side rejection — the same way: the request is
// unauthenticated. No failure subtype is surfaced.
type ProviderVerifier struct {
	baseURL string
	apiKey  string
}

// NewProviderVerifier creates a ProviderVerifier for the project at baseURL
// (no trailing slash), e.g. "https://abcdefgh.supabase.co".
func NewProviderVerifier(baseURL, apiKey string) *ProviderVerifier {
	return &ProviderVerifier{baseURL: baseURL, apiKey: apiKey}
}

// Verify asks the provider who the token belongs to.
//
// The HTTP client comes from oauth2.NewClient with a static token source
// holding the user's token, so every request carries
// "Authorization: Bearer <token>" without us touching headers by hand.
// The client inherits the deadline from ctx — the ambient request timeout
// bounds this round-trip; there are no retries.
func (v *ProviderVerifier) Verify(ctx context.Context, token string) (*ExternalIdentity, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	client.Timeout = 10 * time.Second

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building provider request: %w", err)
	}
	// The publishable key identifies the project; the bearer token
	// identifies the user.
	req.Header.Set("apikey", v.apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: identity provider returned status %d", resp.StatusCode)
	}

	var identity ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("auth: decoding provider response: %w", err)
	}

	if identity.ID == "" {
		return nil, fmt.Errorf("auth: identity provider returned no subject ID")
	}

	return &identity, nil
}
