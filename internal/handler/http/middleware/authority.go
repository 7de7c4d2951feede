package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/user"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/response"
)

// AuthorityFromClaims reads the authority level claim, defaulting to the
// lowest level when the claim is missing or malformed.
func AuthorityFromClaims(claims map[string]interface{}) user.AuthorityLevel {
	switch v := claims["authority_level"].(type) {
	case float64:
		return user.AuthorityLevel(v)
	case int64:
		return user.AuthorityLevel(v)
	case int:
		return user.AuthorityLevel(v)
	default:
		return user.AuthorityRep
	}
}

// UserIDFromClaims reads the authenticated user id claim.
func UserIDFromClaims(claims map[string]interface{}) int64 {
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

// RequireAuthority gates a route on a minimum authority level.
func RequireAuthority(level user.AuthorityLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, user.ErrInsufficientAuthority)
				return
			}

			if AuthorityFromClaims(claims) < level {
				response.HandleError(w, user.ErrInsufficientAuthority)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
