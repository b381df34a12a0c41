package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/pallet-service/pkg/logging"
)

// Config holds middleware configuration
type Config struct {
	Logger         *logging.Logger
	ServiceName    string
	TrustedProxies []string
	// LogExcludePaths are not written to the access log
	LogExcludePaths []string
}

// DefaultConfig keeps probes and scrapes out of the access log
func DefaultConfig(serviceName string, logger *logging.Logger) *Config {
	return &Config{
		Logger:          logger,
		ServiceName:     serviceName,
		LogExcludePaths: []string{"/health", "/ready", "/metrics"},
	}
}

// Setup applies the standard middleware chain to a Gin router
func Setup(router *gin.Engine, config *Config) {
	InitValidator()

	if len(config.TrustedProxies) > 0 {
		_ = router.SetTrustedProxies(config.TrustedProxies)
	}

	router.Use(
		Recovery(config.Logger),
		RequestID(),
		CorrelationID(),
		AccessLog(config.Logger, config.LogExcludePaths...),
		ContentType(),
		ErrorHandler(config.Logger),
	)
}

// HealthCheck creates a liveness handler
func HealthCheck(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	}
}

// ReadinessCheck reports 503 while checkFn fails
func ReadinessCheck(serviceName string, checkFn func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checkFn(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not ready",
				"service": serviceName,
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": serviceName})
	}
}
