package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra is a purchase order. Proveedor is free text — the business buys from
// informal suppliers and does not keep a supplier ledger.
type Compra struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Proveedor string          `gorm:"not null;default:'General'"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `gorm:"index"`

	Detalles []DetalleCompra `gorm:"foreignKey:CompraID;constraint:OnDelete:CASCADE"`
	Usuario  *Usuario        `gorm:"foreignKey:UsuarioID"`
}

// DetalleCompra is a purchase line. Immutable once created.
type DetalleCompra struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
