package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseID reads a path parameter as an int64 ID, writing a 400 response
// on failure.
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid "+name))
		return 0, false
	}
	return id, true
}

// ParseDateQuery reads a required YYYY-MM-DD query parameter.
func ParseDateQuery(c *gin.Context, name string) (string, bool) {
	value := c.Query(name)
	if value == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse("missing "+name))
		return "", false
	}
	return value, true
}
