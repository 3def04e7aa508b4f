package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/domainerr"
	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"
	"github.com/comercial2hermanos/sistema-c2h/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCreditoSvc() (service.CreditoService, *stubVentaRepo, *stubAbonoRepo) {
	ventaRepo := newStubVentaRepo()
	abonoRepo := newStubAbonoRepo(ventaRepo)
	svc := service.NewCreditoService(ventaRepo, abonoRepo)
	return svc, ventaRepo, abonoRepo
}

// seedVentaCredito registers an unpaid CREDITO sale with the given total.
func seedVentaCredito(r *stubVentaRepo, total float64) *model.Venta {
	v := &model.Venta{
		ID:         uuid.New(),
		UsuarioID:  uuid.New(),
		ClienteID:  uuid.New(),
		MetodoPago: model.MetodoCredito,
		Total:      decimal.NewFromFloat(total),
		Pagado:     false,
		CreatedAt:  time.Now(),
	}
	r.ventas[v.ID] = v
	return v
}

func TestRegistrarAbono_Parcial(t *testing.T) {
	svc, ventaRepo, _ := buildCreditoSvc()
	venta := seedVentaCredito(ventaRepo, 100)

	resp, err := svc.RegistrarAbono(context.Background(), dto.RegistrarAbonoRequest{
		VentaID: venta.ID.String(),
		Monto:   decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	assert.True(t, resp.SaldoRestante.Equal(decimal.NewFromInt(60)), "saldo 100 − 40, got %s", resp.SaldoRestante)
	assert.False(t, resp.Pagado)
	assert.False(t, venta.Pagado, "un abono parcial no marca la venta pagada")
	assert.True(t, venta.SaldoPendiente().Equal(decimal.NewFromInt(60)))
}

func TestRegistrarAbono_SaldoExactoMarcaPagada(t *testing.T) {
	svc, ventaRepo, _ := buildCreditoSvc()
	venta := seedVentaCredito(ventaRepo, 100)

	_, err := svc.RegistrarAbono(context.Background(), dto.RegistrarAbonoRequest{
		VentaID: venta.ID.String(),
		Monto:   decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	resp, err := svc.RegistrarAbono(context.Background(), dto.RegistrarAbonoRequest{
		VentaID: venta.ID.String(),
		Monto:   decimal.NewFromInt(60),
	})
	require.NoError(t, err)

	assert.True(t, resp.SaldoRestante.IsZero())
	assert.True(t, resp.Pagado)
	assert.True(t, venta.Pagado, "saldo en cero voltea pagado en la misma transacción")
}

func TestRegistrarAbono_ToleranciaUnCentavo(t *testing.T) {
	svc, ventaRepo, _ := buildCreditoSvc()
	venta := seedVentaCredito(ventaRepo, 10)

	// 10.01 entra por la tolerancia de redondeo; el saldo nunca baja de cero.
	resp, err := svc.RegistrarAbono(context.Background(), dto.RegistrarAbonoRequest{
		VentaID: venta.ID.String(),
		Monto:   decimal.NewFromFloat(10.01),
	})
	require.NoError(t, err)
	assert.True(t, resp.SaldoRestante.IsZero(), "el saldo se recorta a cero, got %s", resp.SaldoRestante)
	assert.True(t, resp.Pagado)
}

func TestRegistrarAbono_SobrepagoRechazado(t *testing.T) {
	svc, ventaRepo, abonoRepo := buildCreditoSvc()
	venta := seedVentaCredito(ventaRepo, 10)

	_, err := svc.RegistrarAbono(context.Background(), dto.RegistrarAbonoRequest{
		VentaID: venta.ID.String(),
		Monto:   decimal.NewFromFloat(10.02),
	})
	var sobreErr *domainerr.SobrepagoError
	require.True(t, errors.As(err, &sobreErr))
	assert.True(t, sobreErr.Saldo.Equal(decimal.NewFromInt(10)))
	assert.True(t, sobreErr.Intentado.Equal(decimal.NewFromFloat(10.02)))

	assert.Empty(t, abonoRepo.abonos, "el sobrepago no deja abono registrado")
	assert.False(t, venta.Pagado)
}

func TestRegistrarAbono_VentaNoCredito(t *testing.T) {
	svc, ventaRepo, _ := buildCreditoSvc()
	venta := seedVentaCredito(ventaRepo, 50)
	venta.MetodoPago = model.MetodoEfectivo
	venta.Pagado = true

	_, err := svc.RegistrarAbono(context.Background(), dto.RegistrarAbonoRequest{
		VentaID: venta.ID.String(),
		Monto:   decimal.NewFromInt(10),
	})
	var valErr *domainerr.ValidacionError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Motivo, "no es a crédito")
}

func TestRegistrarAbono_VentaYaPagada(t *testing.T) {
	svc, ventaRepo, _ := buildCreditoSvc()
	venta := seedVentaCredito(ventaRepo, 50)
	venta.Pagado = true

	_, err := svc.RegistrarAbono(context.Background(), dto.RegistrarAbonoRequest{
		VentaID: venta.ID.String(),
		Monto:   decimal.NewFromInt(10),
	})
	// Abonar sobre una venta saldada es un sobrepago contra saldo cero.
	var sobreErr *domainerr.SobrepagoError
	require.True(t, errors.As(err, &sobreErr))
	assert.True(t, sobreErr.Saldo.IsZero(), "saldo reportado debe ser cero, got %s", sobreErr.Saldo)
	assert.True(t, sobreErr.Intentado.Equal(decimal.NewFromInt(10)))
}

func TestRegistrarAbono_MontoNoPositivo(t *testing.T) {
	svc, ventaRepo, _ := buildCreditoSvc()
	venta := seedVentaCredito(ventaRepo, 50)

	_, err := svc.RegistrarAbono(context.Background(), dto.RegistrarAbonoRequest{
		VentaID: venta.ID.String(),
		Monto:   decimal.NewFromInt(-5),
	})
	var valErr *domainerr.ValidacionError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "monto", valErr.Campo)
}

func TestCuentasPorCobrar(t *testing.T) {
	svc, ventaRepo, _ := buildCreditoSvc()
	cliente := &model.Cliente{ID: uuid.New(), Nombre: "Don Pedro", RucCedula: "3333333333"}

	v1 := seedVentaCredito(ventaRepo, 100)
	v1.Cliente = cliente
	v2 := seedVentaCredito(ventaRepo, 80)
	v2.Cliente = cliente

	// v1 abona 30: deben quedar 70 + 80 pendientes.
	_, err := svc.RegistrarAbono(context.Background(), dto.RegistrarAbonoRequest{
		VentaID: v1.ID.String(),
		Monto:   decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	resp, err := svc.CuentasPorCobrar(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Cuentas, 2)
	assert.True(t, resp.TotalPorCobrar.Equal(decimal.NewFromInt(150)), "70 + 80, got %s", resp.TotalPorCobrar)
	for _, cuenta := range resp.Cuentas {
		assert.Equal(t, "Don Pedro", cuenta.Cliente)
		if cuenta.VentaID == v1.ID.String() {
			assert.True(t, cuenta.TotalAbonado.Equal(decimal.NewFromInt(30)))
			assert.True(t, cuenta.SaldoPendiente.Equal(decimal.NewFromInt(70)))
		}
	}
}

func TestCuentasPorCobrar_ExcluyePagadas(t *testing.T) {
	svc, ventaRepo, _ := buildCreditoSvc()
	pendiente := seedVentaCredito(ventaRepo, 25)
	pagada := seedVentaCredito(ventaRepo, 40)
	pagada.Pagado = true

	resp, err := svc.CuentasPorCobrar(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Cuentas, 1)
	assert.Equal(t, pendiente.ID.String(), resp.Cuentas[0].VentaID)
	assert.True(t, resp.TotalPorCobrar.Equal(decimal.NewFromInt(25)))
}

func TestSaldoPendiente_VentaInexistente(t *testing.T) {
	svc, _, _ := buildCreditoSvc()
	_, err := svc.SaldoPendiente(context.Background(), uuid.New())
	var nferr *domainerr.NoEncontradoError
	require.True(t, errors.As(err, &nferr))
}
