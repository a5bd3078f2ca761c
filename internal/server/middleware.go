package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"checkinboard/internal/auth"
)

// contextKeySession is where requireSession stashes the validated claims.
const contextKeySession = "board.session"

// requireSession gates a route behind a valid anonymous session token.
// The token arrives as a Bearer header, or as a ?token= query parameter for
// EventSource clients that cannot set headers.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c.Request().Header.Get("Authorization"))
		if token == "" {
			token = c.QueryParam("token")
		}
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingToken.Error())
		}

		claims, err := s.sessions.Validate(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
		}

		c.Set(contextKeySession, claims)
		return next(c)
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// requestLogger logs one line per request with method, path, status, and
// latency. Stream requests are logged on connect and disconnect by the
// handler itself, so their long-lived duration here is expected.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		res := c.Response()
		logFn := s.log.Info
		if res.Status >= http.StatusInternalServerError {
			logFn = s.log.Error
		} else if res.Status >= http.StatusBadRequest {
			logFn = s.log.Warn
		}
		logFn("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", res.Status,
			"duration", time.Since(start),
		)
		return nil
	}
}
