package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/jwt"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := jwt.IdentityFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !identity.IsAdmin {
			response.HandleError(w, jwt.ErrAdminOnly)
			return
		}

		next.ServeHTTP(w, r)
	})
}
