package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the authoritative stock and price record for a catalog item.
// EsGranel=true marks loose-weight goods sold in fractional quantities, which
// is why StockActual and StockMinimo carry 3 decimal places.
// Invariant: StockActual >= 0 in every committed state.
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string          `gorm:"uniqueIndex;not null"`
	Nombre      string          `gorm:"index;not null"`
	EsGranel    bool            `gorm:"not null;default:false"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockActual decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	StockMinimo decimal.Decimal `gorm:"type:decimal(10,3);not null;default:5"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockBajo reports whether the product is at or below its reorder threshold.
func (p *Producto) StockBajo() bool {
	return p.StockActual.LessThanOrEqual(p.StockMinimo)
}
