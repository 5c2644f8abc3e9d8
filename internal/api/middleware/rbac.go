package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/api/metrics"
	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// RequireRole admits only callers whose stored account holds role. It must run
// after Auth. The role is read from persistence on every request, so a role
// change takes effect immediately.
func RequireRole(accounts ports.AccountRepository, role domain.Role, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := IdentityFrom(c)
			if err != nil {
				return err
			}

			account, err := accounts.FindByID(c.Request().Context(), identity.AccountID)
			if err != nil {
				return err
			}

			if account.Role != role {
				metrics.AccessDeniedTotal.WithLabelValues("role").Inc()
				log.Warn().
					Str("account_id", account.ID).
					Str("role", account.Role.String()).
					Str("required", role.String()).
					Str("path", c.Path()).
					Msg("role gate denied request")
				return domain.ErrForbidden
			}

			return next(c)
		}
	}
}
