package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/api/metrics"
	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

const identityKey = "identity"

// Auth validates the bearer token and injects the caller's domain.Identity
// into the context. denylist may be nil.
func Auth(tokens ports.TokenIssuer, denylist ports.TokenDenylist, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("missing_or_malformed").Inc()
				return domain.ErrMissingToken
			}

			identity, err := tokens.Verify(raw)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_or_expired").Inc()
				return err
			}

			if denylist != nil && identity.TokenID != "" {
				revoked, err := denylist.IsRevoked(c.Request().Context(), identity.TokenID)
				switch {
				case err != nil:
					log.Warn().Err(err).Str("account_id", identity.AccountID).Msg("denylist lookup failed, accepting token")
				case revoked:
					metrics.AuthFailuresTotal.WithLabelValues("revoked").Inc()
					return domain.ErrInvalidToken
				}
			}

			SetIdentity(c, *identity)
			return next(c)
		}
	}
}

// SetIdentity attaches an authenticated identity to c.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity Auth attached to c.
func IdentityFrom(c echo.Context) (domain.Identity, error) {
	id, ok := c.Get(identityKey).(domain.Identity)
	if !ok || id.AccountID == "" {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return id, nil
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
