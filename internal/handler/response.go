package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RespondUnauthorized aborts the request with the uniform 401 body every
// protected route shares.
func RespondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  http.StatusUnauthorized,
		"error":   "Unauthorized",
		"message": message,
		"path":    c.Request.URL.Path,
	})
}

// pathID parses the :id path parameter, answering 400 when it is not a number.
func pathID(c *gin.Context) (int64, bool) {
	return pathInt(c, "id")
}

// pathInt parses the named path parameter, answering 400 when it is not a number.
func pathInt(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
