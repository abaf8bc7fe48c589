package auth

import (
	"context"
	"net/http"

	"github.com/showgrid/broadcast/publish"
)

type claimsKey struct{}

// Middleware returns an http.Handler middleware that extracts a JWT from
// the "token" cookie (preferred) or the Authorization Bearer header. If
// valid, the parsed Claims are injected into the request context.
// Invalid or missing tokens are silently ignored — the publish flow
// reports its own auth precondition failure.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Cookie "token"
			if c, err := r.Cookie("token"); err == nil && c.Value != "" {
				tokenStr = c.Value
			}

			// 2. Authorization: Bearer <token> (overrides cookie)
			if tokenStr == "" {
				if h := r.Header.Get("Authorization"); len(h) > 7 && h[:7] == "Bearer " {
					tokenStr = h[7:]
				}
			}

			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := ValidateToken(secret, tokenStr)
			if err != nil {
				// Clear invalid cookie
				http.SetCookie(w, &http.Cookie{Name: "token", MaxAge: -1, Path: "/"})
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims injects claims into the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves the Claims from the context, or nil if absent.
func GetClaims(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

// ContextProvider resolves the publish owner identity from the request
// context populated by Middleware. A request without valid claims yields
// no user, which the coordinator reports as its auth precondition
// failure.
type ContextProvider struct{}

// CurrentUser implements publish.AuthProvider.
func (ContextProvider) CurrentUser(ctx context.Context) (*publish.User, error) {
	claims := GetClaims(ctx)
	if claims == nil {
		return nil, nil
	}
	return &publish.User{ID: claims.UserID, Name: claims.Username}, nil
}
