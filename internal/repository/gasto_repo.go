package repository

import (
	"context"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GastoRepository is append-only: expenses are never updated or deleted.
type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	List(ctx context.Context, page, limit int) ([]model.Gasto, int64, error)
	// SumEnVentana totals gastos in (desde, hasta] for the cierre de caja.
	SumEnVentana(ctx context.Context, tx *gorm.DB, desde, hasta time.Time) (decimal.Decimal, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) List(ctx context.Context, page, limit int) ([]model.Gasto, int64, error) {
	var gastos []model.Gasto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Gasto{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Usuario").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&gastos).Error
	return gastos, total, err
}

func (r *gastoRepo) SumEnVentana(ctx context.Context, tx *gorm.DB, desde, hasta time.Time) (decimal.Decimal, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var total decimal.Decimal
	err := db.WithContext(ctx).Model(&model.Gasto{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("created_at > ? AND created_at <= ?", desde, hasta).
		Scan(&total).Error
	return total, err
}
