package handler

import (
	"net/http"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/apierror"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/middleware"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RegistrarMovimiento godoc
// @Summary      Registrar movimiento directo
// @Description  Aplica un movimiento de stock (merma, robo, vencido, donación, devolución) con su entrada en el historial.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MovimientoManualRequest true "Movimiento"
// @Success      201  {object} dto.MovimientoResponse
// @Failure      409  {object} apierror.APIError "Stock insuficiente"
// @Router       /v1/inventario/movimientos [post]
func (h *InventarioHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AplicarMovimiento(c.Request.Context(), &usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AjustarInventario godoc
// @Summary      Ajuste de inventario
// @Description  Fija el stock absoluto de un producto; el delta queda registrado como AJUSTE_MANUAL.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AjusteInventarioRequest true "Ajuste"
// @Success      201  {object} dto.MovimientoResponse
// @Router       /v1/inventario/ajustes [post]
func (h *InventarioHandler) AjustarInventario(c *gin.Context) {
	var req dto.AjusteInventarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AjustarInventario(c.Request.Context(), &usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarHistorial returns the paginated movement ledger.
func (h *InventarioHandler) ListarHistorial(c *gin.Context) {
	var filter dto.HistorialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarHistorial(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerificarConsistencia godoc
// @Summary      Auditoría de consistencia
// @Description  Compara stock_actual contra la reconstrucción del historial. 409 cuando divergen.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id path string true "UUID del producto"
// @Success      200 {object} dto.ConsistenciaResponse
// @Failure      409 {object} dto.ConsistenciaResponse
// @Router       /v1/inventario/consistencia/{producto_id} [get]
func (h *InventarioHandler) VerificarConsistencia(c *gin.Context) {
	id, err := uuid.Parse(c.Param("producto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.VerificarConsistencia(c.Request.Context(), id)
	if err != nil {
		if resp != nil {
			// Divergence detected: the report itself is the payload.
			c.JSON(http.StatusConflict, resp)
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerAlertas lists products below their minimum stock.
func (h *InventarioHandler) ObtenerAlertas(c *gin.Context) {
	alertas, err := h.svc.ObtenerAlertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener alertas"))
		return
	}
	c.JSON(http.StatusOK, alertas)
}

// TiposMovimiento exposes the closed movement vocabulary with labels and
// colors, for dropdowns and history rendering.
func (h *InventarioHandler) TiposMovimiento(c *gin.Context) {
	tipos := model.TiposMovimiento()
	out := make([]gin.H, len(tipos))
	for i, t := range tipos {
		out[i] = gin.H{
			"tipo":     string(t),
			"etiqueta": t.Etiqueta(),
			"color":    t.Color(),
		}
	}
	c.JSON(http.StatusOK, out)
}
