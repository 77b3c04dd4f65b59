package tool

import (
	"maps"

	"github.com/gin-gonic/gin"
)

// FastReturnError builds {"error": msg}; extra fields are merged in, e.g. a partial ping result.
func FastReturnError(msg string, extra ...gin.H) gin.H {
	resp := gin.H{"error": msg}
	for _, e := range extra {
		maps.Copy(resp, e)
	}
	return resp
}

func FastReturnSuccess() gin.H {
	return gin.H{"status": "ok"}
}

// FastReturnSuccessWithData wraps a payload as {"data": data}.
func FastReturnSuccessWithData(data any) gin.H {
	return gin.H{"data": data}
}
