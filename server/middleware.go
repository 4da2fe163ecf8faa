package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/metrics"
	"github.com/existflow/journal/internal/notes"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// authMiddleware checks the bearer token against the configured bcrypt hash
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.tokenHash == "" {
			return next(c)
		}

		// Get token from Authorization header
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return apiError(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return apiError(c, http.StatusUnauthorized, "invalid authorization format")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(s.tokenHash), []byte(token)); err != nil {
			return apiError(c, http.StatusUnauthorized, "invalid token")
		}

		return next(c)
	}
}

// requestLogger logs each request and records its latency by route
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		duration := time.Since(start)

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(req.Method, path, strconv.Itoa(res.Status), duration)

		logger.Info("HTTP Request",
			logger.F("request_id", res.Header().Get(echo.HeaderXRequestID)),
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", duration))

		return nil
	}
}

func apiError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// handleError renders every handler error as {"error": message}
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := classifyError(c, err)
	if err := apiError(c, code, msg); err != nil {
		logger.Warn("Failed to write error response", logger.F("error", err))
	}
}

// classifyError maps store and pipeline errors onto HTTP status codes
func classifyError(c echo.Context, err error) (int, string) {
	var httpErr *echo.HTTPError
	var reqErr *notes.RequestError
	var cfgErr *notes.ConfigError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.As(err, &cfgErr):
		return http.StatusPreconditionFailed, cfgErr.Error()
	case errors.As(err, &reqErr):
		logger.Warn("Model request failed", logger.F("error", reqErr.Err))
		return http.StatusBadGateway, reqErr.Error()
	default:
		logger.Error("Request failed",
			logger.F("path", c.Path()),
			logger.F("error", err))
		return http.StatusInternalServerError, "internal error"
	}
}

func badRequest(format string, args ...any) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// pathID parses a positive integer path parameter
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s: %q", name, c.Param(name))
	}
	return id, nil
}
