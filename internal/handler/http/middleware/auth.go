package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type identityKey struct{}

// AuthRequired rejects requests without a verified access token and stores the
// caller's identity in the request context. It expects jwtauth.Verifier upstream.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())

		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		claims, err := token.AsMap(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		identity, err := jwt.IdentityFromClaims(claims)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
	return http.HandlerFunc(hfn)
}

func WithIdentity(ctx context.Context, identity user.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity stored by AuthRequired.
func IdentityFrom(ctx context.Context) (user.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(user.Identity)
	return identity, ok
}
