package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialPrecio registra cada cambio de precio de costo de un producto.
// Los registros son inmutables — nunca se eliminan ni modifican. The purchase
// engine writes one whenever a compra line moves the cost price.
type HistorialPrecio struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostoAntes   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoDespues decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Motivo       string          `gorm:"not null;default:'compra'"` // "compra" | "manual"
	ReferenciaID *uuid.UUID      `gorm:"type:uuid"`                 // compra_id when Motivo == "compra"
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (HistorialPrecio) TableName() string { return "historial_precios" }
