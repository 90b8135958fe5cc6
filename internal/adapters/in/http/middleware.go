package http

import (
	"log/slog"
	"strings"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const actorKey = "actor"

// authenticate resolves the bearer token, if any, into the request's actor.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			c.Set(actorKey, identity.Anonymous())
			return next(c)
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return errs.NewAuthenticationRequiredError("malformed authorization header")
		}

		actor, err := s.verifier.Verify(c.Request().Context(), strings.TrimSpace(token))
		if err != nil {
			return err
		}
		c.Set(actorKey, actor)
		return next(c)
	}
}

func actorOf(c echo.Context) identity.Actor {
	actor, ok := c.Get(actorKey).(identity.Actor)
	if !ok {
		return identity.Anonymous()
	}
	return actor
}

// observe records request metrics. It renders errors itself so that the recorded
// status is the one sent to the client.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.metrics == nil {
			return next(c)
		}
		done := s.metrics.RequestStarted()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unknown"
		}
		done(c.Request().Method, route, c.Response().Status)
		return nil
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
				slog.String("actor", actorOf(c).String()),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.Any("error", v.Error))
				if v.Status >= 500 {
					level = slog.LevelError
				}
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
