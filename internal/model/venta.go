package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metodos de pago aceptados en una venta.
const (
	MetodoEfectivo      = "EFECTIVO"
	MetodoTarjeta       = "TARJETA"
	MetodoTransferencia = "TRANSFERENCIA"
	MetodoCredito       = "CREDITO"
)

// MetodosPago lists every accepted payment method, in display order.
var MetodosPago = []string{MetodoEfectivo, MetodoTarjeta, MetodoTransferencia, MetodoCredito}

// Venta is an immutable sale record. Total is written exactly once by the
// creating transaction; Pagado flips false→true at most once, driven by an
// abono on a CREDITO sale. Every other field never changes after commit.
type Venta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPago string          `gorm:"type:varchar(20);not null;index"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Pagado     bool            `gorm:"not null;default:true;index"`
	CreatedAt  time.Time       `gorm:"index"`

	Detalles []DetalleVenta `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Abonos   []Abono        `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
}

// DetalleVenta is a sale line. Immutable once created; the product reference
// is protected — a product with historical lines cannot be deleted.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// SaldoPendiente returns the outstanding balance of the sale: zero when paid,
// otherwise max(0, total − sum of abonos). Pure — requires Abonos preloaded.
func (v *Venta) SaldoPendiente() decimal.Decimal {
	if v.Pagado {
		return decimal.Zero
	}
	abonado := decimal.Zero
	for _, a := range v.Abonos {
		abonado = abonado.Add(a.Monto)
	}
	saldo := v.Total.Sub(abonado)
	if saldo.IsNegative() {
		return decimal.Zero
	}
	return saldo
}
