// Package domainerr defines the typed failures the ledger services return.
// Handlers match them with errors.As to choose an HTTP status; services never
// wrap them in opaque strings, so no ledger error is silently swallowed.
package domainerr

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockInsuficienteError aborts a whole sale transaction: the locked product
// row does not have enough stock for the requested quantity.
type StockInsuficienteError struct {
	Producto   string
	ProductoID uuid.UUID
	Solicitado decimal.Decimal
	Disponible decimal.Decimal
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: solicitado %s, disponible %s",
		e.Producto, e.Solicitado.String(), e.Disponible.String())
}

// SobrepagoError rejects an abono larger than the outstanding balance plus
// the 0.01 rounding tolerance. No mutation is performed.
type SobrepagoError struct {
	Saldo     decimal.Decimal
	Intentado decimal.Decimal
}

func (e *SobrepagoError) Error() string {
	return fmt.Sprintf("el monto $%s excede la deuda actual ($%s)",
		e.Intentado.StringFixed(2), e.Saldo.StringFixed(2))
}

// ProtegidoError refuses deletion of an entity referenced by historical
// sale or purchase lines. The entity is left unchanged.
type ProtegidoError struct {
	Entidad string
	ID      string
}

func (e *ProtegidoError) Error() string {
	return fmt.Sprintf("no se puede eliminar %s %s: tiene historial", e.Entidad, e.ID)
}

// NoEncontradoError reports a referenced id that does not exist.
type NoEncontradoError struct {
	Entidad string
	ID      string
}

func (e *NoEncontradoError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entidad, e.ID)
}

// ValidacionError reports malformed or missing input.
type ValidacionError struct {
	Campo  string
	Motivo string
}

func (e *ValidacionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Campo, e.Motivo)
}
