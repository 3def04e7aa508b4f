package dto

import "github.com/shopspring/decimal"

type ItemCompraRequest struct {
	ProductoID    string          `json:"producto_id"    validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad"       validate:"required"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"required"`
}

type RegistrarCompraRequest struct {
	Proveedor string              `json:"proveedor"`
	Items     []ItemCompraRequest `json:"items" validate:"required,min=1,dive"`
}

type ItemCompraResponse struct {
	Producto      string          `json:"producto"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type CompraResponse struct {
	ID        string               `json:"id"`
	Proveedor string               `json:"proveedor"`
	Total     decimal.Decimal      `json:"total"`
	Items     []ItemCompraResponse `json:"items"`
	CreatedAt string               `json:"created_at"`
}
