package dto

import "github.com/shopspring/decimal"

type RegistrarGastoRequest struct {
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
}

type GastoResponse struct {
	ID          string          `json:"id"`
	Usuario     string          `json:"usuario"`
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	CreatedAt   string          `json:"created_at"`
}
