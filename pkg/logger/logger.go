// Package logger builds the process zap logger and the gin access-log middleware.
package logger

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/review-desk-api/pkg/config"
	"github.com/noah-isme/review-desk-api/pkg/middleware/requestid"
)

const serviceName = "review-desk-api"

// New returns a production logger in production and a development logger elsewhere.
// LOG_FORMAT selects console or json encoding; an unknown LOG_LEVEL is an error.
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Encoding = encoding(cfg.Log.Format)
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("parse LOG_LEVEL %q: %w", cfg.Log.Level, err)
		}
		zapCfg.Level = level
	}

	return zapCfg.Build(zap.Fields(
		zap.String("service", serviceName),
		zap.String("env", cfg.Env),
	))
}

func encoding(format string) string {
	if format == "console" {
		return "console"
	}
	return "json"
}

// GinMiddleware writes one access line per request at a level chosen by status.
// Headers are not logged, so bearer tokens never reach the log.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id := requestid.Value(c); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs.Errors()))
		}

		levelFor(status)(l, "http request", fields...)
	}
}

func levelFor(status int) func(*zap.Logger, string, ...zap.Field) {
	switch {
	case status >= 500:
		return (*zap.Logger).Error
	case status >= 400:
		return (*zap.Logger).Warn
	default:
		return (*zap.Logger).Info
	}
}
