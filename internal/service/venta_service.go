package service

import (
	"context"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/domainerr"
	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"
	"github.com/comercial2hermanos/sistema-c2h/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// reporteDetalleMax acota el detalle de ventas incluido en un reporte.
const reporteDetalleMax = 200

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	ReporteVentas(ctx context.Context, desde, hasta string) (*dto.ReporteVentasResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	movRepo      repository.MovimientoStockRepository
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	movRepo repository.MovimientoStockRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		movRepo:      movRepo,
		dispatcher:   dispatcher,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Single ACID transaction, all-or-nothing:
//   1. Validate items and resolve the cliente (pre-flight, outside TX)
//   2. BEGIN TX: lock each producto FOR UPDATE, check stock sufficiency
//   3. Create venta + detalles, descontar stock, record movimientos
//   4. COMMIT — stock mutations become visible to other transactions here
//   5. (async) dispatch ticket PDF job, best effort
//
// An insufficient-stock failure on ANY line aborts the whole sale; no partial
// decrement ever survives.

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Items) == 0 {
		return nil, &domainerr.ValidacionError{Campo: "items", Motivo: "la venta no tiene items"}
	}

	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, &domainerr.ValidacionError{Campo: "cliente_id", Motivo: "id inválido"}
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "cliente", ID: req.ClienteID}
	}

	type lineaVenta struct {
		productoID uuid.UUID
		cantidad   decimal.Decimal
		precio     decimal.Decimal
	}
	lineas := make([]lineaVenta, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, &domainerr.ValidacionError{Campo: "producto_id", Motivo: "id inválido"}
		}
		if !item.Cantidad.IsPositive() {
			return nil, &domainerr.ValidacionError{Campo: "cantidad", Motivo: "debe ser mayor a cero"}
		}
		if item.PrecioUnitario.IsNegative() {
			return nil, &domainerr.ValidacionError{Campo: "precio_unitario", Motivo: "no puede ser negativo"}
		}
		lineas = append(lineas, lineaVenta{productoID: pid, cantidad: item.Cantidad, precio: item.PrecioUnitario})
	}

	var venta model.Venta
	nombres := make(map[uuid.UUID]string, len(lineas))

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		type resuelto struct {
			lineaVenta
			stockAntes decimal.Decimal
			subtotal   decimal.Decimal
		}

		// 1. Lock each product once for the duration of the TX and validate
		// line by line against the running stock — a product repeated across
		// lines consumes from the same balance, so the sum of its lines can
		// never overdraw. The FOR UPDATE lock serializes concurrent sales on
		// the same product: whichever TX arrives second re-reads the
		// committed stock.
		bloqueados := make(map[uuid.UUID]*model.Producto, len(lineas))
		restante := make(map[uuid.UUID]decimal.Decimal, len(lineas))
		resueltos := make([]resuelto, 0, len(lineas))
		total := decimal.Zero
		for _, l := range lineas {
			p, ok := bloqueados[l.productoID]
			if !ok {
				var err error
				p, err = s.productoRepo.FindByIDForUpdate(tx, l.productoID)
				if err != nil {
					return &domainerr.NoEncontradoError{Entidad: "producto", ID: l.productoID.String()}
				}
				bloqueados[l.productoID] = p
				restante[l.productoID] = p.StockActual
			}
			if !p.EsGranel && !l.cantidad.Equal(l.cantidad.Truncate(0)) {
				return &domainerr.ValidacionError{Campo: "cantidad", Motivo: p.Nombre + " no es granel, la cantidad debe ser entera"}
			}
			disponible := restante[l.productoID]
			if disponible.LessThan(l.cantidad) {
				return &domainerr.StockInsuficienteError{
					Producto:   p.Nombre,
					ProductoID: p.ID,
					Solicitado: l.cantidad,
					Disponible: disponible,
				}
			}
			nombres[p.ID] = p.Nombre
			subtotal := l.cantidad.Mul(l.precio).Round(2)
			total = total.Add(subtotal)
			resueltos = append(resueltos, resuelto{lineaVenta: l, stockAntes: disponible, subtotal: subtotal})
			restante[l.productoID] = disponible.Sub(l.cantidad)
		}

		// 2. Persist venta and detalles atomically.
		venta = model.Venta{
			UsuarioID:  usuarioID,
			ClienteID:  clienteID,
			MetodoPago: req.MetodoPago,
			Total:      total,
			Pagado:     req.MetodoPago != model.MetodoCredito,
		}
		for _, r := range resueltos {
			venta.Detalles = append(venta.Detalles, model.DetalleVenta{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				Subtotal:       r.subtotal,
			})
		}
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		// 3. Descontar stock and record the audit movement per line.
		for _, r := range resueltos {
			if err := s.productoRepo.UpdateStockTx(tx, r.productoID, r.cantidad.Neg()); err != nil {
				return err
			}
			ref := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    r.productoID,
				Tipo:          "venta",
				Cantidad:      r.cantidad.Neg(),
				StockAnterior: r.stockAntes,
				StockNuevo:    r.stockAntes.Sub(r.cantidad),
				Motivo:        "Venta " + venta.ID.String(),
				ReferenciaID:  &ref,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async ticket PDF — fire & forget, a print failure never voids a sale.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueTicketVenta(ctx, worker.TicketVentaPayload{VentaID: venta.ID.String()})
	}

	resp := ventaToResponse(&venta)
	resp.Cliente = cliente.Nombre
	for i, d := range venta.Detalles {
		resp.Items[i].Producto = nombres[d.ProductoID]
	}
	return resp, nil
}

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "venta", ID: id.String()}
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ReporteVentas aggregates a whole-day date range (both bounds inclusive),
// defaulting to the current month.
func (s *ventaService) ReporteVentas(ctx context.Context, desde, hasta string) (*dto.ReporteVentasResponse, error) {
	hoy := time.Now()
	if desde == "" {
		desde = time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, hoy.Location()).Format("2006-01-02")
	}
	if hasta == "" {
		hasta = hoy.Format("2006-01-02")
	}

	sums, cantidad, err := s.repo.ReporteRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	totalVendido := decimal.Zero
	porMetodo := make([]dto.TotalPorMetodo, 0, len(sums))
	for _, metodo := range model.MetodosPago {
		t, ok := sums[metodo]
		if !ok {
			continue
		}
		totalVendido = totalVendido.Add(t)
		porMetodo = append(porMetodo, dto.TotalPorMetodo{MetodoPago: metodo, Total: t})
	}

	// El detalle se acota a las primeras reporteDetalleMax ventas; los
	// totales siempre cubren el rango completo.
	ventas, _, err := s.repo.List(ctx, dto.VentaFilter{Desde: desde, Hasta: hasta, Page: 1, Limit: reporteDetalleMax})
	if err != nil {
		return nil, err
	}
	detalle := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		detalle = append(detalle, *ventaToResponse(&ventas[i]))
	}

	return &dto.ReporteVentasResponse{
		Desde:           desde,
		Hasta:           hasta,
		TotalVendido:    totalVendido,
		CantidadVentas:  cantidad,
		PorMetodo:       porMetodo,
		Ventas:          detalle,
		VentasTruncadas: cantidad > int64(len(detalle)),
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		items = append(items, dto.ItemVentaResponse{
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	cliente := ""
	if v.Cliente != nil {
		cliente = v.Cliente.Nombre
	}
	return &dto.VentaResponse{
		ID:         v.ID.String(),
		Cliente:    cliente,
		MetodoPago: v.MetodoPago,
		Total:      v.Total,
		Pagado:     v.Pagado,
		Items:      items,
		CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
