package handler

import (
	"net/http"
	"strconv"

	"github.com/comercial2hermanos/sistema-c2h/internal/apierror"
	"github.com/comercial2hermanos/sistema-c2h/internal/middleware"
	"github.com/comercial2hermanos/sistema-c2h/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CierreService }

func NewCajaHandler(svc service.CierreService) *CajaHandler { return &CajaHandler{svc: svc} }

// PreviewCierre godoc
// @Summary      Vista previa del cierre de caja
// @Description  Agrega la ventana contable abierta (desde el último cierre hasta ahora) sin cerrarla.
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ResumenCierre
// @Router       /v1/caja/cierre [get]
func (h *CajaHandler) PreviewCierre(c *gin.Context) {
	resp, err := h.svc.PreviewCierre(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el cierre"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cerrar godoc
// @Summary      Procesar cierre de caja
// @Description  Congela la ventana abierta en una instantánea inmutable. Cierres concurrentes se serializan; el segundo captura una ventana vacía.
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.CierreResponse
// @Router       /v1/caja/cierre [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Cerrar(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Desglose godoc
// @Summary      Desglose de un cierre histórico
// @Description  Recalcula la ventana exacta de un cierre para reimprimir su reporte.
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Param        id  path string true "UUID del cierre"
// @Success      200 {object} dto.DesgloseCierreResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caja/cierres/{id} [get]
func (h *CajaHandler) Desglose(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Desglose(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) ListarCierres(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	cierres, total, err := h.svc.ListCierres(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cierres"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cierres, "total": total, "page": page, "limit": limit})
}
