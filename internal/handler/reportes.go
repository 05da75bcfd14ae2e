package handler

import (
	"net/http"
	"strconv"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/apierror"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// EstadisticasVentas aggregates sale totals (hoy/semana/mes), the monthly
// series and the top-sold products.
func (h *ReportesHandler) EstadisticasVentas(c *gin.Context) {
	resp, err := h.svc.EstadisticasVentas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular estadísticas de ventas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) EstadisticasInventario(c *gin.Context) {
	resp, err := h.svc.EstadisticasInventario(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular estadísticas de inventario"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) ProductosPorVencer(c *gin.Context) {
	dias, err := strconv.Atoi(c.DefaultQuery("dias", "30"))
	if err != nil || dias < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("dias inválido"))
		return
	}
	resp, err := h.svc.ProductosPorVencer(c.Request.Context(), dias)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos por vencer"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EnviarDigestStockBajo triggers the low-stock email on demand.
func (h *ReportesHandler) EnviarDigestStockBajo(c *gin.Context) {
	n, err := h.svc.EnviarDigestStockBajo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo enviar el digest"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"productos_stock_bajo": n, "enviado": n > 0})
}
