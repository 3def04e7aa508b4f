package handler

import (
	"net/http"
	"strconv"

	"github.com/comercial2hermanos/sistema-c2h/internal/apierror"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventarioHandler serves the stock-movement and cost-history audit trails.
type InventarioHandler struct {
	movRepo  repository.MovimientoStockRepository
	histRepo repository.HistorialPrecioRepository
}

func NewInventarioHandler(movRepo repository.MovimientoStockRepository, histRepo repository.HistorialPrecioRepository) *InventarioHandler {
	return &InventarioHandler{movRepo: movRepo, histRepo: histRepo}
}

// MovimientosProducto godoc
// @Summary      Movimientos de stock de un producto
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "UUID del producto"
// @Param        limit query int    false "Máximo de movimientos (default 100)"
// @Router       /v1/inventario/{id}/movimientos [get]
func (h *InventarioHandler) MovimientosProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	movs, err := h.movRepo.ListByProducto(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, movs)
}

// HistorialPrecios lists the cost-change trail of a product, newest first.
func (h *InventarioHandler) HistorialPrecios(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	hist, err := h.histRepo.ListByProducto(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar historial"))
		return
	}
	c.JSON(http.StatusOK, hist)
}
