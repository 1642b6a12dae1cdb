package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/flashnacks/flashnacks-backend/api/responses"
	"github.com/flashnacks/flashnacks-backend/pkg/config"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

const adminTokenHeader = "X-Admin-Token"

// AdminOnly gates back-office routes behind the shared operator token.
func AdminOnly(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get(adminTokenHeader)
			if supplied == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin token required"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(cfg.AdminToken)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin token rejected"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
