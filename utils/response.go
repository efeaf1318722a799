package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/logger"
)

// RespondError writes the error envelope for err. Internal detail is logged only.
func RespondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status >= 500 {
		logger.ErrorLogger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	} else {
		logger.WarnLogger.Warnf("%s %s rejected: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"code":    KindOf(err),
		"error":   MessageOf(err),
	})
}
