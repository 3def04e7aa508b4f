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

func buildVentaSvc() (service.VentaService, *stubVentaRepo, *stubProductoRepo, *stubClienteRepo, *stubMovimientoRepo) {
	ventaRepo := newStubVentaRepo()
	productoRepo := newStubProductoRepo()
	clienteRepo := newStubClienteRepo()
	movRepo := &stubMovimientoRepo{}
	svc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, movRepo, nil)
	return svc, ventaRepo, productoRepo, clienteRepo, movRepo
}

func TestRegistrarVenta_DescuentaStock(t *testing.T) {
	svc, ventaRepo, productoRepo, clienteRepo, movRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Arroz 1kg", "7501", 10, false)
	c := seedCliente(clienteRepo, "Consumidor Final", "9999999999")

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		ClienteID:  c.ID.String(),
		MetodoPago: model.MetodoEfectivo,
		Items: []dto.ItemVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(3), PrecioUnitario: decimal.NewFromFloat(15)},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Pagado, "venta en efectivo queda pagada al crearse")
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(45)), "total = 3 × 15, got %s", resp.Total)
	assert.Equal(t, "Consumidor Final", resp.Cliente)
	assert.True(t, p.StockActual.Equal(decimal.NewFromInt(7)), "stock 10 − 3 = 7, got %s", p.StockActual)

	assert.Len(t, ventaRepo.ventas, 1)
	require.Len(t, movRepo.movimientos, 1)
	mov := movRepo.movimientos[0]
	assert.Equal(t, "venta", mov.Tipo)
	assert.True(t, mov.Cantidad.Equal(decimal.NewFromInt(-3)), "movimiento negativo, got %s", mov.Cantidad)
	assert.True(t, mov.StockAnterior.Equal(decimal.NewFromInt(10)))
	assert.True(t, mov.StockNuevo.Equal(decimal.NewFromInt(7)))
}

func TestRegistrarVenta_StockInsuficiente(t *testing.T) {
	svc, ventaRepo, productoRepo, clienteRepo, movRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Aceite 1L", "7502", 2, false)
	c := seedCliente(clienteRepo, "Juan Pérez", "0102030405")

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		ClienteID:  c.ID.String(),
		MetodoPago: model.MetodoEfectivo,
		Items: []dto.ItemVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(5), PrecioUnitario: decimal.NewFromFloat(4.50)},
		},
	})
	require.Error(t, err)

	var stockErr *domainerr.StockInsuficienteError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Aceite 1L", stockErr.Producto)
	assert.True(t, stockErr.Solicitado.Equal(decimal.NewFromInt(5)))
	assert.True(t, stockErr.Disponible.Equal(decimal.NewFromInt(2)))

	// Nothing persisted, nothing decremented.
	assert.Empty(t, ventaRepo.ventas)
	assert.Empty(t, movRepo.movimientos)
	assert.True(t, p.StockActual.Equal(decimal.NewFromInt(2)), "stock intacto tras el rechazo")
}

func TestRegistrarVenta_MultilineaFallaTodoONada(t *testing.T) {
	svc, ventaRepo, productoRepo, clienteRepo, _ := buildVentaSvc()
	ok := seedProducto(productoRepo, "Azúcar 1kg", "7503", 20, false)
	corto := seedProducto(productoRepo, "Harina 1kg", "7504", 1, false)
	c := seedCliente(clienteRepo, "María López", "0607080910")

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		ClienteID:  c.ID.String(),
		MetodoPago: model.MetodoEfectivo,
		Items: []dto.ItemVentaRequest{
			{ProductoID: ok.ID.String(), Cantidad: decimal.NewFromInt(2), PrecioUnitario: decimal.NewFromFloat(1.20)},
			{ProductoID: corto.ID.String(), Cantidad: decimal.NewFromInt(3), PrecioUnitario: decimal.NewFromFloat(1.10)},
		},
	})

	var stockErr *domainerr.StockInsuficienteError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Harina 1kg", stockErr.Producto)
	assert.Empty(t, ventaRepo.ventas)
	assert.True(t, ok.StockActual.Equal(decimal.NewFromInt(20)), "la línea válida tampoco descuenta")
}

func TestRegistrarVenta_CantidadFraccionadaSoloGranel(t *testing.T) {
	svc, _, productoRepo, clienteRepo, _ := buildVentaSvc()
	unidad := seedProducto(productoRepo, "Leche 1L", "7505", 10, false)
	c := seedCliente(clienteRepo, "Cliente", "1111111111")

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		ClienteID:  c.ID.String(),
		MetodoPago: model.MetodoEfectivo,
		Items: []dto.ItemVentaRequest{
			{ProductoID: unidad.ID.String(), Cantidad: decimal.NewFromFloat(0.5), PrecioUnitario: decimal.NewFromFloat(1.10)},
		},
	})
	var valErr *domainerr.ValidacionError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Motivo, "no es granel")
}

func TestRegistrarVenta_GranelAceptaFraccion(t *testing.T) {
	svc, _, productoRepo, clienteRepo, _ := buildVentaSvc()
	granel := seedProducto(productoRepo, "Queso fresco", "7506", 8, true)
	c := seedCliente(clienteRepo, "Cliente", "2222222222")

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		ClienteID:  c.ID.String(),
		MetodoPago: model.MetodoEfectivo,
		Items: []dto.ItemVentaRequest{
			{ProductoID: granel.ID.String(), Cantidad: decimal.NewFromFloat(0.75), PrecioUnitario: decimal.NewFromFloat(8)},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(6)), "0.75 × 8 = 6.00, got %s", resp.Total)
	assert.True(t, granel.StockActual.Equal(decimal.NewFromFloat(7.25)), "stock 8 − 0.75, got %s", granel.StockActual)
}

func TestRegistrarVenta_CreditoQuedaPendiente(t *testing.T) {
	svc, ventaRepo, productoRepo, clienteRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Gaseosa 3L", "7507", 12, false)
	c := seedCliente(clienteRepo, "Don Pedro", "3333333333")

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		ClienteID:  c.ID.String(),
		MetodoPago: model.MetodoCredito,
		Items: []dto.ItemVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(4), PrecioUnitario: decimal.NewFromFloat(2.50)},
		},
	})
	require.NoError(t, err)

	assert.False(t, resp.Pagado, "venta a crédito nace sin pagar")
	// El stock se descuenta igual: la mercadería ya salió del local.
	assert.True(t, p.StockActual.Equal(decimal.NewFromInt(8)))

	id, _ := uuid.Parse(resp.ID)
	guardada := ventaRepo.ventas[id]
	require.NotNil(t, guardada)
	assert.True(t, guardada.SaldoPendiente().Equal(decimal.NewFromInt(10)))
}

func TestRegistrarVenta_ClienteInexistente(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Pan", "7508", 10, false)

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		ClienteID:  uuid.NewString(),
		MetodoPago: model.MetodoEfectivo,
		Items: []dto.ItemVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(1), PrecioUnitario: decimal.NewFromFloat(0.35)},
		},
	})
	var nferr *domainerr.NoEncontradoError
	require.True(t, errors.As(err, &nferr))
	assert.Equal(t, "cliente", nferr.Entidad)
}

func TestRegistrarVenta_CantidadNoPositiva(t *testing.T) {
	svc, _, productoRepo, clienteRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Sal", "7509", 10, false)
	c := seedCliente(clienteRepo, "Cliente", "4444444444")

	for _, cantidad := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-2)} {
		_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
			ClienteID:  c.ID.String(),
			MetodoPago: model.MetodoEfectivo,
			Items: []dto.ItemVentaRequest{
				{ProductoID: p.ID.String(), Cantidad: cantidad, PrecioUnitario: decimal.NewFromFloat(0.50)},
			},
		})
		var valErr *domainerr.ValidacionError
		require.True(t, errors.As(err, &valErr), "cantidad %s debe rechazarse", cantidad)
		assert.Equal(t, "cantidad", valErr.Campo)
	}
}

func TestRegistrarVenta_ProductoRepetidoNoSobrevende(t *testing.T) {
	svc, ventaRepo, productoRepo, clienteRepo, movRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Atún en lata", "7510", 5, false)
	c := seedCliente(clienteRepo, "Cliente", "5555555555")

	// Dos líneas de 3 contra stock 5: cada una cabe por separado, la suma no.
	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		ClienteID:  c.ID.String(),
		MetodoPago: model.MetodoEfectivo,
		Items: []dto.ItemVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(3), PrecioUnitario: decimal.NewFromFloat(1.80)},
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(3), PrecioUnitario: decimal.NewFromFloat(1.80)},
		},
	})
	require.Error(t, err)

	var stockErr *domainerr.StockInsuficienteError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Solicitado.Equal(decimal.NewFromInt(3)))
	assert.True(t, stockErr.Disponible.Equal(decimal.NewFromInt(2)), "la segunda línea ve el saldo restante, got %s", stockErr.Disponible)

	assert.Empty(t, ventaRepo.ventas)
	assert.Empty(t, movRepo.movimientos)
	assert.True(t, p.StockActual.Equal(decimal.NewFromInt(5)), "stock intacto tras el rechazo, got %s", p.StockActual)
}

func TestRegistrarVenta_ProductoRepetidoDescuentaAcumulado(t *testing.T) {
	svc, _, productoRepo, clienteRepo, movRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Fideos 400g", "7511", 5, false)
	c := seedCliente(clienteRepo, "Cliente", "6666666666")

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		ClienteID:  c.ID.String(),
		MetodoPago: model.MetodoEfectivo,
		Items: []dto.ItemVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(2), PrecioUnitario: decimal.NewFromFloat(1.25)},
			{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(3), PrecioUnitario: decimal.NewFromFloat(1.25)},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(6.25)), "total = 5 × 1.25, got %s", resp.Total)
	assert.True(t, p.StockActual.Equal(decimal.Zero), "stock 5 − 2 − 3 = 0, got %s", p.StockActual)

	// Los movimientos encadenan el stock: 5→3 y luego 3→0.
	require.Len(t, movRepo.movimientos, 2)
	assert.True(t, movRepo.movimientos[0].StockAnterior.Equal(decimal.NewFromInt(5)))
	assert.True(t, movRepo.movimientos[0].StockNuevo.Equal(decimal.NewFromInt(3)))
	assert.True(t, movRepo.movimientos[1].StockAnterior.Equal(decimal.NewFromInt(3)))
	assert.True(t, movRepo.movimientos[1].StockNuevo.Equal(decimal.Zero))
}

func TestObtenerVenta_FechaEnUTC(t *testing.T) {
	svc, ventaRepo, _, _, _ := buildVentaSvc()

	guayaquil := time.FixedZone("-05", -5*3600)
	v := &model.Venta{
		ID:         uuid.New(),
		MetodoPago: model.MetodoEfectivo,
		Total:      decimal.NewFromInt(10),
		Pagado:     true,
		CreatedAt:  time.Date(2026, 3, 10, 10, 0, 0, 0, guayaquil),
	}
	ventaRepo.ventas[v.ID] = v

	resp, err := svc.ObtenerVenta(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10T15:00:00Z", resp.CreatedAt, "la hora local se normaliza a UTC")
}

func TestReporteVentas_DetalleTruncado(t *testing.T) {
	svc, ventaRepo, _, _, _ := buildVentaSvc()

	dia := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	for i := 0; i < 205; i++ {
		v := &model.Venta{
			ID:         uuid.New(),
			MetodoPago: model.MetodoEfectivo,
			Total:      decimal.NewFromInt(10),
			Pagado:     true,
			CreatedAt:  dia.Add(time.Duration(i) * time.Minute),
		}
		ventaRepo.ventas[v.ID] = v
	}

	rep, err := svc.ReporteVentas(context.Background(), "2026-03-10", "2026-03-10")
	require.NoError(t, err)

	assert.Equal(t, int64(205), rep.CantidadVentas)
	assert.True(t, rep.TotalVendido.Equal(decimal.NewFromInt(2050)), "los totales cubren el rango completo, got %s", rep.TotalVendido)
	assert.Len(t, rep.Ventas, 200)
	assert.True(t, rep.VentasTruncadas, "el detalle acotado se marca como truncado")
}
