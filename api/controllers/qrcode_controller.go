package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/trng-go/api/models"
	"github.com/moyoez/trng-go/tool"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	maxQRSize     = 512
)

// HandleQRCode returns a PNG QR code of a generated password.
// GET /api/trng/v1/qrcode/:id?size=256
func HandleQRCode(c *gin.Context) {
	res, ok := models.GetResult(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("result not found or expired"))
		return
	}

	size := parseSize(c.Query("size"))
	if size <= 0 {
		size = models.GetAppConfig().QRSize
	}
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	png, err := qrcode.Encode(res.Password, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// parseSize parses size from "200x200" or "200" and returns the pixel dimension.
func parseSize(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if idx := strings.Index(s, "x"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
