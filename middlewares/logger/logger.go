package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/logger"
	"github.com/sirupsen/logrus"
)

// GinLogger writes one structured line per request; 5xx go to the error log, 4xx to the warn log.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := logrus.Fields{
			"status":   c.Writer.Status(),
			"method":   c.Request.Method,
			"path":     path,
			"route":    c.FullPath(),
			"ip":       c.ClientIP(),
			"duration": time.Since(start).String(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.ErrorLogger.WithFields(fields).Error("request failed")
		case status >= 400:
			logger.WarnLogger.WithFields(fields).Warn("request rejected")
		default:
			logger.InfoLogger.WithFields(fields).Info("request handled")
		}
	}
}
