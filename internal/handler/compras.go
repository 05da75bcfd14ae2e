package handler

import (
	"net/http"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/apierror"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/middleware"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler { return &ComprasHandler{svc: svc} }

// RegistrarCompra godoc
// @Summary      Registrar orden de compra
// @Description  Crea la compra en estado PENDIENTE. El stock no se mueve hasta la recepción.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarCompraRequest true "Detalle de la compra"
// @Success      201  {object} dto.CompraResponse
// @Router       /v1/compras [post]
func (h *ComprasHandler) RegistrarCompra(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarCompra(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RecibirCompra godoc
// @Summary      Recibir mercadería
// @Description  Pasa la compra a COMPLETADA y carga el stock con movimientos COMPRA en una sola transacción.
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la compra"
// @Success      200 {object} dto.CompraResponse
// @Failure      409 {object} apierror.APIError "La compra no está PENDIENTE"
// @Router       /v1/compras/{id}/recibir [post]
func (h *ComprasHandler) RecibirCompra(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RecibirCompra(c.Request.Context(), id, usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnularCompra cancels a PENDIENTE purchase order.
func (h *ComprasHandler) AnularCompra(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.AnularCompra(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ComprasHandler) ObtenerPorID(c *gin.Context) {
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

func (h *ComprasHandler) Listar(c *gin.Context) {
	var filter dto.CompraFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar compras"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
