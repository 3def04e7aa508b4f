package handler

import (
	"net/http"

	"github.com/comercial2hermanos/sistema-c2h/internal/apierror"
	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreditosHandler exposes the fiado ledger: abonos, balances and the
// cuentas-por-cobrar report.
type CreditosHandler struct{ svc service.CreditoService }

func NewCreditosHandler(svc service.CreditoService) *CreditosHandler {
	return &CreditosHandler{svc: svc}
}

// RegistrarAbono godoc
// @Summary      Registrar abono sobre una venta a crédito
// @Description  Inserta el pago y marca la venta como pagada cuando el saldo llega a cero, en una sola transacción.
// @Tags         creditos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarAbonoRequest true "Abono"
// @Success      201  {object} dto.AbonoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/creditos/abonos [post]
func (h *CreditosHandler) RegistrarAbono(c *gin.Context) {
	var req dto.RegistrarAbonoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarAbono(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SaldoPendiente godoc
// @Summary      Saldo pendiente de una venta a crédito
// @Tags         creditos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path string true "UUID de la venta"
// @Success      200 {object} map[string]string
// @Router       /v1/creditos/{id}/saldo [get]
func (h *CreditosHandler) SaldoPendiente(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	saldo, err := h.svc.SaldoPendiente(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venta_id": id.String(), "saldo_pendiente": saldo})
}

func (h *CreditosHandler) ListarAbonos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	abonos, err := h.svc.AbonosDeVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, abonos)
}

// CuentasPorCobrar godoc
// @Summary      Cuentas por cobrar
// @Description  Ventas a crédito impagas, más antiguas primero, con el total adeudado.
// @Tags         creditos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CuentasPorCobrarResponse
// @Router       /v1/creditos/cuentas [get]
func (h *CreditosHandler) CuentasPorCobrar(c *gin.Context) {
	resp, err := h.svc.CuentasPorCobrar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cuentas por cobrar"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
