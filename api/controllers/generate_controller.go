package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/trng-go/api/models"
	"github.com/moyoez/trng-go/tool"
)

// HandleGenerate runs one fetch/decrypt/derive cycle against the device.
// POST /api/trng/v1/generate
func HandleGenerate(c *gin.Context) {
	client := models.GetDeviceClient()
	if client == nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError("device client not configured"))
		return
	}
	res, err := client.Generate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError(err.Error()))
		return
	}
	models.StoreResult(res)
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(res))
}

// HandleForgetResult drops a result before its ttl expires.
// DELETE /api/trng/v1/result/:id
func HandleForgetResult(c *gin.Context) {
	models.DeleteResult(c.Param("id"))
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
