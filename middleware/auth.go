package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"bumblechat_server/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type contextKey struct{}

// Identity is the verified caller extracted from the Firebase ID token.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// AuthMiddleware verifies Bearer ID tokens against Firebase Auth and injects
// the caller identity into the request context.
type AuthMiddleware struct {
	Client *auth.Client
}

// NewFirebaseAuthClient builds the Firebase Auth client. credentialsFile may
// be empty, in which case application default credentials are used.
func NewFirebaseAuthClient(ctx context.Context, credentialsFile string) (*auth.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	return app.Auth(ctx)
}

// Handler wraps next with token verification.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jwtToken, err := bearerTokenFromRequest(r)
		if err != nil {
			writeUnauthorized(w, err.Error())
			return
		}

		token, err := m.Client.VerifyIDToken(r.Context(), jwtToken)
		if err != nil {
			logger.Sugar.Warnf("⚠️ Token verification failed: %v", err)
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		identity := Identity{UID: token.UID}
		if v, ok := token.Claims["email"].(string); ok {
			identity.Email = v
		}
		if v, ok := token.Claims["name"].(string); ok {
			identity.Name = v
		}
		if v, ok := token.Claims["picture"].(string); ok {
			identity.Picture = v
		}

		ctx := context.WithValue(r.Context(), contextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the verified caller, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	return identity, ok
}

// WithIdentity injects an identity into a context. Used by tests and by the
// socket handshake, which authenticates out of band.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
