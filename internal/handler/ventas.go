package handler

import (
	"net/http"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/apierror"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/config"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/infra"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/middleware"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/repository"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasHandler struct {
	svc        service.VentaService
	ventaRepo  repository.VentaRepository
	configRepo repository.ConfiguracionRepository
	cfg        *config.Config
}

func NewVentasHandler(
	svc service.VentaService,
	ventaRepo repository.VentaRepository,
	configRepo repository.ConfiguracionRepository,
	cfg *config.Config,
) *VentasHandler {
	return &VentasHandler{svc: svc, ventaRepo: ventaRepo, configRepo: configRepo, cfg: cfg}
}

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Crea una venta ACID: descuenta stock y registra los movimientos VENTA en el historial, todo o nada.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError "Stock insuficiente"
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarVenta(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AnularVenta godoc
// @Summary      Anular venta
// @Description  Anula una venta y restaura el stock con movimientos DEVOLUCION.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                 true "UUID de la venta"
// @Param        body body     dto.AnularVentaRequest true "Motivo de anulación"
// @Success      204
// @Failure      409  {object} apierror.APIError "La venta ya está anulada"
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AnularVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.AnularVenta(c.Request.Context(), id, usuarioID, req.Motivo); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListarVentas returns a paginated, filtered list of sales.
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarTicket godoc
// @Summary      Descargar ticket PDF
// @Description  Genera (on demand) y descarga el comprobante PDF de la venta.
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200
// @Router       /v1/ventas/{id}/ticket [get]
func (h *VentasHandler) DescargarTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	venta, err := h.ventaRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	nombre := ""
	if cfgRow, err := h.configRepo.Obtener(c.Request.Context()); err == nil && cfgRow.NombreFarmacia != nil {
		nombre = *cfgRow.NombreFarmacia
	}

	path, err := infra.GenerarTicketPDF(venta, nombre, h.cfg.PDFStoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo generar el ticket"))
		return
	}
	c.FileAttachment(path, "ticket_"+venta.NumeroVenta+".pdf")
}
