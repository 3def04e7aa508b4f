package repository

import (
	"context"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AbonoRepository is append-only by contract: there are no update or delete
// methods, matching the immutability of payment records.
type AbonoRepository interface {
	CreateTx(tx *gorm.DB, a *model.Abono) error
	ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.Abono, error)
	// SumEnVentana totals abonos in (desde, hasta] for the cierre de caja.
	SumEnVentana(ctx context.Context, tx *gorm.DB, desde, hasta time.Time) (decimal.Decimal, error)
}

type abonoRepo struct{ db *gorm.DB }

func NewAbonoRepository(db *gorm.DB) AbonoRepository { return &abonoRepo{db: db} }

func (r *abonoRepo) CreateTx(tx *gorm.DB, a *model.Abono) error {
	return tx.Create(a).Error
}

func (r *abonoRepo) ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.Abono, error) {
	var abonos []model.Abono
	err := r.db.WithContext(ctx).
		Where("venta_id = ?", ventaID).
		Order("created_at ASC").
		Find(&abonos).Error
	return abonos, err
}

func (r *abonoRepo) SumEnVentana(ctx context.Context, tx *gorm.DB, desde, hasta time.Time) (decimal.Decimal, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var total decimal.Decimal
	err := db.WithContext(ctx).Model(&model.Abono{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("created_at > ? AND created_at <= ?", desde, hasta).
		Scan(&total).Error
	return total, err
}
