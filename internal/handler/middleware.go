package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/maxviazov/member-search-service/pkg/response"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// NewEngine builds a gin engine with the middleware chain every route shares.
func NewEngine(logger zerolog.Logger, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(logger), Recovery(logger))
	if len(corsOrigins) > 0 {
		r.Use(CORS(corsOrigins))
	}
	return r
}

// RequestID reuses the caller's X-Request-ID or mints a uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one zerolog line per request once the handler chain returns.
func AccessLog(logger zerolog.Logger) gin.HandlerFunc {
	l := logger.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = l.Error()
		case status >= http.StatusBadRequest:
			event = l.Warn()
		default:
			event = l.Info()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		event.
			Str("request_id", c.GetString(response.RequestIDKey)).
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// Recovery turns a panic into the standard 500 envelope.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Str("request_id", c.GetString(response.RequestIDKey)).
			Interface("panic", recovered).
			Msg("panic recovered")
		response.WriteError(c, errors.New(fmt.Sprint(recovered)))
	})
}

// CORS adapts rs/cors to gin. Preflight requests stop here with 204.
func CORS(origins []string) gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         600,
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != "" {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
