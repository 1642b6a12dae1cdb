package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/api/responses"
	"github.com/flashnacks/flashnacks-backend/pkg/config"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

const sessionTokenHeader = "X-Session-Token"

// Identity resolves who the request acts for. A valid bearer token binds the
// request to a customer; otherwise an opaque session token identifies the
// anonymous browser. A fresh token is minted and echoed back when the client
// has none yet.
func Identity(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if auth := r.Header.Get("Authorization"); auth != "" {
				customerID, err := customerIDFromBearer(auth, cfg)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				ctx = WithCustomerID(ctx, customerID)
				if logg != nil {
					ctx = logg.WithCustomerID(ctx, customerID)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token := strings.TrimSpace(r.Header.Get(sessionTokenHeader))
			if token == "" {
				token = uuid.NewString()
			}
			w.Header().Set(sessionTokenHeader, token)

			ctx = WithSessionToken(ctx, token)
			if logg != nil {
				ctx = logg.WithSessionToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func customerIDFromBearer(header string, cfg config.SessionConfig) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed authorization header")
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(cfg.JWTIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid bearer token")
	}

	customerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "token subject is not a customer id")
	}
	return customerID.String(), nil
}
