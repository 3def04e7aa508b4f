package repository

import (
	"context"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)

	// ListCreditosPendientes returns CREDITO sales with pagado = false,
	// abonos and cliente preloaded, oldest first.
	ListCreditosPendientes(ctx context.Context) ([]model.Venta, error)

	// Used inside transactions — callers must pass the tx instance.
	// FindByIDForUpdate locks the venta row so concurrent abonos on the same
	// sale serialize instead of both reading a stale balance.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	UpdatePagadoTx(tx *gorm.DB, id uuid.UUID, pagado bool) error

	// Window aggregations for the cierre de caja. Both bounds are exclusive
	// below and inclusive above: (desde, hasta]. tx may be nil outside a
	// transaction.
	SumTotalPorMetodo(ctx context.Context, tx *gorm.DB, desde, hasta time.Time) (map[string]decimal.Decimal, error)
	CountEnVentana(ctx context.Context, tx *gorm.DB, desde, hasta time.Time) (int64, error)

	// ReporteRango aggregates totals per metodo over whole calendar days
	// (YYYY-MM-DD, both inclusive) for the sales report.
	ReporteRango(ctx context.Context, desde, hasta string) (map[string]decimal.Decimal, int64, error)

	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

// dbOr returns tx when inside a transaction, the base handle otherwise.
func (r *ventaRepo) dbOr(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return r.dbOr(tx).WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").Preload("Abonos").
		Preload("Cliente").Preload("Usuario").
		First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.MetodoPago != "" && filter.MetodoPago != "all" {
		q = q.Where("metodo_pago = ?", filter.MetodoPago)
	}
	if filter.Desde != "" {
		q = q.Where("DATE(created_at) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(created_at) <= ?", filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Detalles.Producto").Preload("Cliente").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) ListCreditosPendientes(ctx context.Context) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("metodo_pago = ? AND pagado = false", model.MetodoCredito).
		Preload("Abonos").Preload("Cliente").
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// Abonos are loaded after the lock is held so the balance is current.
	if err := tx.Where("venta_id = ?", id).Find(&v.Abonos).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) UpdatePagadoTx(tx *gorm.DB, id uuid.UUID, pagado bool) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("pagado", pagado).Error
}

func (r *ventaRepo) SumTotalPorMetodo(ctx context.Context, tx *gorm.DB, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	var rows []struct {
		MetodoPago string
		Total      decimal.Decimal
	}
	err := r.dbOr(tx).WithContext(ctx).Model(&model.Venta{}).
		Select("metodo_pago, COALESCE(SUM(total), 0) AS total").
		Where("created_at > ? AND created_at <= ?", desde, hasta).
		Group("metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.MetodoPago] = row.Total
	}
	return sums, nil
}

func (r *ventaRepo) ReporteRango(ctx context.Context, desde, hasta string) (map[string]decimal.Decimal, int64, error) {
	var rows []struct {
		MetodoPago string
		Total      decimal.Decimal
	}
	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("DATE(created_at) BETWEEN ? AND ?", desde, hasta)

	var cantidad int64
	if err := q.Count(&cantidad).Error; err != nil {
		return nil, 0, err
	}
	err := q.Select("metodo_pago, COALESCE(SUM(total), 0) AS total").
		Group("metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.MetodoPago] = row.Total
	}
	return sums, cantidad, nil
}

func (r *ventaRepo) CountEnVentana(ctx context.Context, tx *gorm.DB, desde, hasta time.Time) (int64, error) {
	var n int64
	err := r.dbOr(tx).WithContext(ctx).Model(&model.Venta{}).
		Where("created_at > ? AND created_at <= ?", desde, hasta).
		Count(&n).Error
	return n, err
}
