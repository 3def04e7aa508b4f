package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CierreCaja is an immutable point-in-time closing snapshot of the register.
// FechaCierre is the exclusive upper bound of its own accounting window and
// the exclusive lower bound of the next one. Snapshots are never modified —
// window bounds stay stable forever, so retrospective breakdowns are
// reproducible.
//
// MontoEfectivo is the net cash figure: cash sales + abonos − gastos.
// MontoTarjeta and MontoTransferencia are gross. TotalVentas is the sales
// volume figure (efectivo + tarjeta + transferencia sales, abonos and gastos
// excluded).
type CierreCaja struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID   uuid.UUID `gorm:"type:uuid;not null;index"`
	FechaCierre time.Time `gorm:"not null;index"`

	MontoEfectivo      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MontoTarjeta       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MontoTransferencia decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalGastos        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalVentas        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CantidadVentas     int             `gorm:"not null"`

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

// TableName overrides GORM's default pluralization (cierre_cajas → cierres_caja).
func (CierreCaja) TableName() string { return "cierres_caja" }
