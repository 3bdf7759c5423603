package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/fantasy-forward/internal/model"
)

// Authenticator resolves a bearer token to a local user record.
//
// This is the single principal-resolution contract for the whole API: the
// implementation (service.AuthService) decides whether the token is one we
// signed locally or one the identity provider issued, and either way hands
// back the same *model.User. Handlers never see which mechanism matched.
//
// There are exactly two outcomes: a user, or an error. Every error means
// "unauthenticated" — RequireAuth does not inspect it further.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// contextKey is an unexported type for this package's context keys, so no
// other package can read or shadow the stored user.
type contextKey string

const userKey contextKey = "user"

// RequireAuth enforces authentication on protected routes.
//
// It extracts the token from the Authorization header ("Bearer <token>"),
// resolves it through the Authenticator, and stores the user in the request
// context. A missing or unresolvable token ends the request with 401 and a
// WWW-Authenticate challenge naming the expected scheme; the body never
// says why the token was rejected.
func RequireAuth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			user, err := a.Authenticate(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user set by RequireAuth.
// Returns (nil, false) if the request did not pass through the middleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"could not validate credentials"}`))
}
