package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemVentaRequest is one sale line. Cantidad and PrecioUnitario arrive as
// decimal strings from the register UI and stay fixed-point end to end.
type ItemVentaRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

type RegistrarVentaRequest struct {
	ClienteID  string             `json:"cliente_id"  validate:"required,uuid"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=EFECTIVO TARJETA TRANSFERENCIA CREDITO"`
	Items      []ItemVentaRequest `json:"items"       validate:"required,min=1,dive"`
}

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Desde      string `form:"desde"`  // YYYY-MM-DD; empty = first of month
	Hasta      string `form:"hasta"`  // YYYY-MM-DD; empty = today
	MetodoPago string `form:"metodo"` // EFECTIVO | TARJETA | TRANSFERENCIA | CREDITO | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID         string              `json:"id"`
	Cliente    string              `json:"cliente"`
	MetodoPago string              `json:"metodo_pago"`
	Total      decimal.Decimal     `json:"total"`
	Pagado     bool                `json:"pagado"`
	Items      []ItemVentaResponse `json:"items"`
	CreatedAt  string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ReporteVentasResponse aggregates a date range for the sales report.
type ReporteVentasResponse struct {
	Desde          string           `json:"desde"`
	Hasta          string           `json:"hasta"`
	TotalVendido   decimal.Decimal  `json:"total_vendido"`
	CantidadVentas int64            `json:"cantidad_ventas"`
	PorMetodo      []TotalPorMetodo `json:"por_metodo"`
	Ventas         []VentaResponse  `json:"ventas"`
	// VentasTruncadas marca que el detalle no cubre todas las ventas del
	// rango; los totales sí.
	VentasTruncadas bool `json:"ventas_truncadas,omitempty"`
}

type TotalPorMetodo struct {
	MetodoPago string          `json:"metodo_pago"`
	Total      decimal.Decimal `json:"total"`
}
