package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/trng-go/api/models"
	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/types"
)

// HandleCommand forwards a remote-control button. Delivery is never confirmed by the device.
// POST /api/trng/v1/command/:name
func HandleCommand(c *gin.Context) {
	cmd, err := types.ParseRemoteCommand(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	client := models.GetDeviceClient()
	if client == nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError("device client not configured"))
		return
	}
	status := client.SendCommand(c.Request.Context(), cmd)
	c.JSON(http.StatusOK, gin.H{
		"command": cmd.String(),
		"status":  status,
	})
}
