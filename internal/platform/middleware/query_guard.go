package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hcdl/provider-search/internal/platform/fhir"
)

// MaxQueryValueLength caps every query parameter value. Search inputs are
// names, codes and zip codes.
const MaxQueryValueLength = 256

var scriptPattern = regexp.MustCompile(`(?i)(<script|javascript\s*:|on\w+\s*=)`)

// QueryGuard rejects requests whose query string carries values no search form
// produces: control characters, oversized values or markup. Search inputs are
// forwarded to the directory server and echoed into pages, so they are
// screened before any handler runs.
func QueryGuard(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for key, values := range c.QueryParams() {
				for _, v := range values {
					reason := screen(key, v)
					if reason == "" {
						continue
					}
					rid, _ := c.Get("request_id").(string)
					logger.Warn().
						Str("request_id", rid).
						Str("param", key).
						Str("reason", reason).
						Str("remote_ip", c.RealIP()).
						Msg("rejected query parameter")
					return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome(key, reason))
				}
			}
			return next(c)
		}
	}
}

func screen(key, value string) string {
	if len(value) > MaxQueryValueLength || len(key) > MaxQueryValueLength {
		return "value too long"
	}
	if strings.IndexFunc(key+value, unicode.IsControl) >= 0 {
		return "control characters are not allowed"
	}
	if scriptPattern.MatchString(value) || scriptPattern.MatchString(key) {
		return "markup is not allowed"
	}
	return ""
}
