package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const readyTimeout = 2 * time.Second

// ready runs every check and answers 503 if any fails.
func ready(checks map[string]Checker, logger zerolog.Logger) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		status := http.StatusOK
		result := make(gin.H, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logger.Warn().Err(err).Str("dependency", name).Msg("Readiness check failed")
				result[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}

		c.JSON(status, result)
	}
}
