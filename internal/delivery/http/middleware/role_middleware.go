package middleware

import (
	"net/http"

	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireCenter is a convenience middleware for diagnostic center endpoints
func RequireCenter(next http.Handler) http.Handler {
	return RequireRole(entity.RoleCenter)(next)
}

// RequireRadiologist is a convenience middleware for radiologist endpoints
func RequireRadiologist(next http.Handler) http.Handler {
	return RequireRole(entity.RoleRadiologist)(next)
}
