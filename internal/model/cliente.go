package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente identifies a customer by tax id (RUC/cédula).
// EsMayorista flags wholesale/VIP customers — pricing treatment happens in
// the presentation layer, the ledger only stores the flag.
type Cliente struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RucCedula   string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Direccion   string
	Telefono    string
	EsMayorista bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
}
