package service

import (
	"context"
	"errors"

	"github.com/comercial2hermanos/sistema-c2h/internal/domainerr"
	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// stockMinimoDefault applies when a product is created without an explicit
// reorder threshold.
var stockMinimoDefault = decimal.NewFromInt(5)

type ProductoService interface {
	CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	BuscarPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	ListProductos(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	ActualizarProducto(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	EliminarProducto(ctx context.Context, id uuid.UUID) error

	// AlertasStockBajo lists products at or below their reorder threshold.
	AlertasStockBajo(ctx context.Context) ([]dto.ProductoResponse, error)
	ValoracionInventario(ctx context.Context) (*dto.ValoracionInventarioResponse, error)
}

type productoService struct {
	repo  repository.ProductoRepository
	cache *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, cache *redis.Client) ProductoService {
	return &productoService{repo: repo, cache: cache}
}

func (s *productoService) CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.PrecioVenta.IsNegative() || req.PrecioCosto.IsNegative() {
		return nil, &domainerr.ValidacionError{Campo: "precio", Motivo: "no puede ser negativo"}
	}
	if req.StockInicial.IsNegative() {
		return nil, &domainerr.ValidacionError{Campo: "stock_inicial", Motivo: "no puede ser negativo"}
	}
	if _, err := s.repo.FindByCodigo(ctx, req.Codigo); err == nil {
		return nil, &domainerr.ValidacionError{Campo: "codigo", Motivo: "ya existe un producto con ese código"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stockMinimo := stockMinimoDefault
	if req.StockMinimo != nil {
		stockMinimo = *req.StockMinimo
	}
	p := model.Producto{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		EsGranel:    req.EsGranel,
		PrecioCosto: req.PrecioCosto,
		PrecioVenta: req.PrecioVenta,
		StockActual: req.StockInicial,
		StockMinimo: stockMinimo,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return productoToResponse(&p), nil
}

func (s *productoService) ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "producto", ID: id.String()}
	}
	return productoToResponse(p), nil
}

func (s *productoService) BuscarPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "producto", ID: codigo}
	}
	return productoToResponse(p), nil
}

func (s *productoService) ListProductos(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) ActualizarProducto(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "producto", ID: id.String()}
	}

	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.PrecioCosto != nil {
		if req.PrecioCosto.IsNegative() {
			return nil, &domainerr.ValidacionError{Campo: "precio_costo", Motivo: "no puede ser negativo"}
		}
		p.PrecioCosto = *req.PrecioCosto
	}
	if req.PrecioVenta != nil {
		if req.PrecioVenta.IsNegative() {
			return nil, &domainerr.ValidacionError{Campo: "precio_venta", Motivo: "no puede ser negativo"}
		}
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx, p.Codigo)
	return productoToResponse(p), nil
}

// EliminarProducto refuses to delete a product referenced by any historical
// sale or purchase line; the ledger must stay replayable.
func (s *productoService) EliminarProducto(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &domainerr.NoEncontradoError{Entidad: "producto", ID: id.String()}
	}
	refs, err := s.repo.CountReferencias(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return &domainerr.ProtegidoError{Entidad: "producto", ID: id.String()}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidarCache(ctx, p.Codigo)
	return nil
}

func (s *productoService) AlertasStockBajo(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, *productoToResponse(&productos[i]))
	}
	return out, nil
}

func (s *productoService) ValoracionInventario(ctx context.Context) (*dto.ValoracionInventarioResponse, error) {
	productos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	totalItems, valorCosto, valorVenta := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range productos {
		p := &productos[i]
		totalItems = totalItems.Add(p.StockActual)
		valorCosto = valorCosto.Add(p.StockActual.Mul(p.PrecioCosto))
		valorVenta = valorVenta.Add(p.StockActual.Mul(p.PrecioVenta))
	}
	return &dto.ValoracionInventarioResponse{
		TotalItems:        totalItems,
		ValorCosto:        valorCosto.Round(2),
		ValorVenta:        valorVenta.Round(2),
		GananciaPotencial: valorVenta.Sub(valorCosto).Round(2),
	}, nil
}

// invalidarCache drops the public price-check entry; next lookup repopulates.
func (s *productoService) invalidarCache(ctx context.Context, codigo string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, "precio:"+codigo).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo invalidar cache de precio")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		EsGranel:    p.EsGranel,
		PrecioCosto: p.PrecioCosto,
		PrecioVenta: p.PrecioVenta,
		StockActual: p.StockActual,
		StockMinimo: p.StockMinimo,
		StockBajo:   p.StockBajo(),
	}
}
