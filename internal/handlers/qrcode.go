package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chatman-ops-backend/internal/middleware"
	"chatman-ops-backend/internal/models"
)

// QRGenerator renders arbitrary data as a PNG QR code.
type QRGenerator interface {
	Generate(data string, size int) ([]byte, error)
}

type QRHandler struct {
	store     LinkStore
	generator QRGenerator
	baseURL   string
}

func NewQRHandler(store LinkStore, generator QRGenerator, baseURL string) *QRHandler {
	return &QRHandler{
		store:     store,
		generator: generator,
		baseURL:   baseURL,
	}
}

// GetLinkQR godoc
// @Summary     QR code for a customer link
// @Description Returns a PNG QR code encoding the customer-facing link URL, for printed quotes and job sheets. Staff only.
// @Tags        customer-links
// @Produce     png
// @Param       token path string true "Link token"
// @Param       size query int false "Pixel size (default 300)"
// @Success     200 {file} file "PNG image"
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /customer-links/{token}/qr [get]
func (h *QRHandler) GetLinkQR(c *gin.Context) {
	if !middleware.StaffFrom(c).IsStaff() {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "insufficient permissions"})
		return
	}

	link, err := h.store.GetLinkByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Link not found"})
		return
	}

	size := 300
	if raw := c.Query("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 1000 {
			size = parsed
		}
	}

	png, err := h.generator.Generate(h.baseURL+"/c/"+link.Token, size)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "failed to generate qr code",
			Message: err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
