package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo       string           `json:"codigo"       validate:"required"`
	Nombre       string           `json:"nombre"       validate:"required"`
	EsGranel     bool             `json:"es_granel"`
	PrecioCosto  decimal.Decimal  `json:"precio_costo" validate:"required"`
	PrecioVenta  decimal.Decimal  `json:"precio_venta" validate:"required"`
	StockInicial decimal.Decimal  `json:"stock_inicial"`
	StockMinimo  *decimal.Decimal `json:"stock_minimo"`
}

type ActualizarProductoRequest struct {
	Nombre      string           `json:"nombre"`
	PrecioCosto *decimal.Decimal `json:"precio_costo"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
	StockMinimo *decimal.Decimal `json:"stock_minimo"`
}

type ProductoFilter struct {
	Codigo string `form:"codigo"`
	Nombre string `form:"nombre"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	EsGranel    bool            `json:"es_granel"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	StockActual decimal.Decimal `json:"stock_actual"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
	StockBajo   bool            `json:"stock_bajo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPreciosResponse is the cached public price-check payload.
type ConsultaPreciosResponse struct {
	Nombre          string          `json:"nombre"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	StockDisponible decimal.Decimal `json:"stock_disponible"`
	EsGranel        bool            `json:"es_granel"`
}

// ValoracionInventarioResponse is the inventory valuation report.
type ValoracionInventarioResponse struct {
	TotalItems        decimal.Decimal `json:"total_items"`
	ValorCosto        decimal.Decimal `json:"valor_costo"`
	ValorVenta        decimal.Decimal `json:"valor_venta"`
	GananciaPotencial decimal.Decimal `json:"ganancia_potencial"`
}
