package dto

import "github.com/shopspring/decimal"

// ResumenCierre is the aggregation of the current (or a historical) accounting
// window. For a preview the window is (último cierre, ahora]; for a finalized
// snapshot it is (cierre anterior, fecha_cierre].
type ResumenCierre struct {
	Desde string `json:"desde"`
	Hasta string `json:"hasta"`

	// EfectivoVentas is cash sales only; Abonos are credit payments received;
	// Efectivo is the net drawer figure: ventas + abonos − gastos.
	EfectivoVentas decimal.Decimal `json:"efectivo_ventas"`
	Abonos         decimal.Decimal `json:"abonos"`
	Gastos         decimal.Decimal `json:"gastos"`
	Efectivo       decimal.Decimal `json:"efectivo"`

	Tarjeta       decimal.Decimal `json:"tarjeta"`
	Transferencia decimal.Decimal `json:"transferencia"`

	// TotalVentas is the gross sales volume (efectivo + tarjeta +
	// transferencia sales; abonos and gastos excluded).
	TotalVentas    decimal.Decimal `json:"total_ventas"`
	CantidadVentas int64           `json:"cantidad_ventas"`
}

type CierreResponse struct {
	ID                 string          `json:"id"`
	Usuario            string          `json:"usuario"`
	FechaCierre        string          `json:"fecha_cierre"`
	MontoEfectivo      decimal.Decimal `json:"monto_efectivo"`
	MontoTarjeta       decimal.Decimal `json:"monto_tarjeta"`
	MontoTransferencia decimal.Decimal `json:"monto_transferencia"`
	TotalGastos        decimal.Decimal `json:"total_gastos"`
	TotalVentas        decimal.Decimal `json:"total_ventas"`
	CantidadVentas     int             `json:"cantidad_ventas"`
}

// DesgloseCierreResponse is the retrospective breakdown of a historical
// closing, recomputed over its exact window for the printed report.
type DesgloseCierreResponse struct {
	Cierre  CierreResponse `json:"cierre"`
	Resumen ResumenCierre  `json:"resumen"`
}
