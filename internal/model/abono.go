package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Abono is a partial payment applied against an outstanding CREDITO sale.
// Append-only: abonos are never updated or deleted. Inserting an abono is the
// only way a credit sale transitions to Pagado=true.
type Abono struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Nota      *string
	CreatedAt time.Time `gorm:"index"`
}
