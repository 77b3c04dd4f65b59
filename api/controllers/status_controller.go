package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/trng-go/api/models"
	"github.com/moyoez/trng-go/notify"
	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/types"
)

const pingTimeout = 3 * time.Second

// HandleStatus returns the device settings the web UI shows.
// GET /api/trng/v1/status
func HandleStatus(c *gin.Context) {
	cfg := models.GetAppConfig()
	c.JSON(http.StatusOK, types.StatusResponse{
		Running:         true,
		DeviceAddress:   cfg.DeviceAddress,
		CipherMode:      cfg.CipherMode,
		Framing:         cfg.Framing,
		NotifyWSEnabled: notify.NotifyWSEnabled(),
	})
}

// HandlePing probes the device host with ICMP.
// GET /api/trng/v1/ping
func HandlePing(c *gin.Context) {
	client := models.GetDeviceClient()
	if client == nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError("device client not configured"))
		return
	}
	res, err := client.Ping(c.Request.Context(), pingTimeout)
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError(err.Error(), gin.H{"data": res}))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(res))
}
