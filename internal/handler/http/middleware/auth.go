package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nexushr/hrms-backend-go/internal/domain/user"
	"github.com/nexushr/hrms-backend-go/internal/handler/http/response"
	"github.com/nexushr/hrms-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token and puts the
// caller's identity on the request context. It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		parsed, err := jwt.ParseClaims(claims)
		if err != nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		ctx := user.WithIdentity(r.Context(), parsed.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}
