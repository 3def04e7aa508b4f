package service

import (
	"context"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/domainerr"
	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraService interface {
	RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	ListCompras(ctx context.Context, page, limit int) ([]dto.CompraResponse, int64, error)
}

type compraService struct {
	repo         repository.CompraRepository
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoStockRepository
	histRepo     repository.HistorialPrecioRepository
}

func NewCompraService(
	repo repository.CompraRepository,
	productoRepo repository.ProductoRepository,
	movRepo repository.MovimientoStockRepository,
	histRepo repository.HistorialPrecioRepository,
) CompraService {
	return &compraService{
		repo:         repo,
		productoRepo: productoRepo,
		movRepo:      movRepo,
		histRepo:     histRepo,
	}
}

// RegistrarCompra records a stock intake in one transaction: every line adds
// cantidad to the product's stock and overwrites its precio_costo with the
// unit cost of the intake (last write wins). A cost change leaves a row in
// historial_precios.
func (s *compraService) RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	if len(req.Items) == 0 {
		return nil, &domainerr.ValidacionError{Campo: "items", Motivo: "la compra no tiene items"}
	}

	type lineaCompra struct {
		productoID uuid.UUID
		cantidad   decimal.Decimal
		costo      decimal.Decimal
	}
	lineas := make([]lineaCompra, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, &domainerr.ValidacionError{Campo: "producto_id", Motivo: "id inválido"}
		}
		if !item.Cantidad.IsPositive() {
			return nil, &domainerr.ValidacionError{Campo: "cantidad", Motivo: "debe ser mayor a cero"}
		}
		if item.CostoUnitario.IsNegative() {
			return nil, &domainerr.ValidacionError{Campo: "costo_unitario", Motivo: "no puede ser negativo"}
		}
		lineas = append(lineas, lineaCompra{productoID: pid, cantidad: item.Cantidad, costo: item.CostoUnitario})
	}

	proveedor := req.Proveedor
	if proveedor == "" {
		proveedor = "General"
	}

	var compra model.Compra
	nombres := make(map[uuid.UUID]string, len(lineas))

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		type resuelto struct {
			lineaCompra
			stockAntes decimal.Decimal
			costoAntes decimal.Decimal
		}

		// Lock each product once and carry the running stock and cost, so a
		// product repeated across lines chains its movements and price
		// history off the previous line instead of the pre-compra snapshot.
		bloqueados := make(map[uuid.UUID]*model.Producto, len(lineas))
		stockCorriente := make(map[uuid.UUID]decimal.Decimal, len(lineas))
		costoCorriente := make(map[uuid.UUID]decimal.Decimal, len(lineas))
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
				stockCorriente[l.productoID] = p.StockActual
				costoCorriente[l.productoID] = p.PrecioCosto
			}
			if !p.EsGranel && !l.cantidad.Equal(l.cantidad.Truncate(0)) {
				return &domainerr.ValidacionError{Campo: "cantidad", Motivo: p.Nombre + " no es granel, la cantidad debe ser entera"}
			}
			nombres[p.ID] = p.Nombre
			total = total.Add(l.cantidad.Mul(l.costo).Round(2))
			resueltos = append(resueltos, resuelto{
				lineaCompra: l,
				stockAntes:  stockCorriente[l.productoID],
				costoAntes:  costoCorriente[l.productoID],
			})
			stockCorriente[l.productoID] = stockCorriente[l.productoID].Add(l.cantidad)
			costoCorriente[l.productoID] = l.costo
		}

		compra = model.Compra{
			UsuarioID: usuarioID,
			Proveedor: proveedor,
			Total:     total,
		}
		for _, r := range resueltos {
			compra.Detalles = append(compra.Detalles, model.DetalleCompra{
				ProductoID:    r.productoID,
				Cantidad:      r.cantidad,
				CostoUnitario: r.costo,
			})
		}
		if err := s.repo.Create(ctx, tx, &compra); err != nil {
			return err
		}

		for _, r := range resueltos {
			if err := s.productoRepo.UpdateStockTx(tx, r.productoID, r.cantidad); err != nil {
				return err
			}
			ref := compra.ID
			mov := &model.MovimientoStock{
				ProductoID:    r.productoID,
				Tipo:          "compra",
				Cantidad:      r.cantidad,
				StockAnterior: r.stockAntes,
				StockNuevo:    r.stockAntes.Add(r.cantidad),
				Motivo:        "Compra " + compra.ID.String(),
				ReferenciaID:  &ref,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}

			// Last write wins: si la compra repite un producto, la última
			// línea deja su costo en precio_costo.
			if !r.costo.Equal(r.costoAntes) {
				if err := s.productoRepo.UpdateCostoTx(tx, r.productoID, r.costo); err != nil {
					return err
				}
				hist := &model.HistorialPrecio{
					ProductoID:   r.productoID,
					CostoAntes:   r.costoAntes,
					CostoDespues: r.costo,
					Motivo:       "compra",
					ReferenciaID: &ref,
				}
				if err := s.histRepo.CreateTx(tx, hist); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := compraToResponse(&compra)
	for i, d := range compra.Detalles {
		resp.Items[i].Producto = nombres[d.ProductoID]
	}
	return resp, nil
}

func (s *compraService) ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "compra", ID: id.String()}
	}
	return compraToResponse(compra), nil
}

func (s *compraService) ListCompras(ctx context.Context, page, limit int) ([]dto.CompraResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	compras, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		items = append(items, *compraToResponse(&compras[i]))
	}
	return items, total, nil
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	items := make([]dto.ItemCompraResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		items = append(items, dto.ItemCompraResponse{
			Producto:      nombre,
			Cantidad:      d.Cantidad,
			CostoUnitario: d.CostoUnitario,
			Subtotal:      d.Cantidad.Mul(d.CostoUnitario).Round(2),
		})
	}
	return &dto.CompraResponse{
		ID:        c.ID.String(),
		Proveedor: c.Proveedor,
		Total:     c.Total,
		Items:     items,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
