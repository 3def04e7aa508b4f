package dto

import "github.com/shopspring/decimal"

type RegistrarAbonoRequest struct {
	VentaID string          `json:"venta_id" validate:"required,uuid"`
	Monto   decimal.Decimal `json:"monto"    validate:"required"`
	Nota    *string         `json:"nota"`
}

type AbonoResponse struct {
	ID        string          `json:"id"`
	VentaID   string          `json:"venta_id"`
	Monto     decimal.Decimal `json:"monto"`
	Nota      *string         `json:"nota,omitempty"`
	CreatedAt string          `json:"created_at"`
	// SaldoRestante and Pagado reflect the sale state after this abono.
	SaldoRestante decimal.Decimal `json:"saldo_restante"`
	Pagado        bool            `json:"pagado"`
}

// CuentaPorCobrar is one unpaid CREDITO sale annotated with its balance.
type CuentaPorCobrar struct {
	VentaID        string          `json:"venta_id"`
	Cliente        string          `json:"cliente"`
	RucCedula      string          `json:"ruc_cedula"`
	Total          decimal.Decimal `json:"total"`
	TotalAbonado   decimal.Decimal `json:"total_abonado"`
	SaldoPendiente decimal.Decimal `json:"saldo_pendiente"`
	Fecha          string          `json:"fecha"`
}

type CuentasPorCobrarResponse struct {
	Cuentas        []CuentaPorCobrar `json:"cuentas"`
	TotalPorCobrar decimal.Decimal   `json:"total_por_cobrar"`
}
