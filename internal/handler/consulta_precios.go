package handler

import (
	"net/http"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/apierror"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsultaPreciosHandler struct{ svc service.ConsultaPreciosService }

func NewConsultaPreciosHandler(svc service.ConsultaPreciosService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// GetPrecioPorBarcode godoc
// @Summary      Consulta pública de precios
// @Description  Verificador de precios para el kiosco de sala. Sin autenticación; el stock mostrado es referencial.
// @Tags         precios
// @Produce      json
// @Param        barcode path string true "Código de barras"
// @Success      200 {object} dto.ConsultaPreciosResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/precio/{barcode} [get]
func (h *ConsultaPreciosHandler) GetPrecioPorBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Código de barras requerido"))
		return
	}
	resp, err := h.svc.ConsultarPorBarcode(c.Request.Context(), barcode)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
