package repository

import (
	"context"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// cierreLockKey is the advisory lock id that serializes concurrent closings.
// Arbitrary constant, shared by every finalize transaction.
const cierreLockKey = 780221

type CierreRepository interface {
	// CreateTx inserts the snapshot inside the finalize transaction.
	CreateTx(tx *gorm.DB, c *model.CierreCaja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CierreCaja, error)
	// FindUltimo returns the most recent snapshot, or gorm.ErrRecordNotFound
	// when no closing has ever happened. tx may be nil outside a transaction.
	FindUltimo(ctx context.Context, tx *gorm.DB) (*model.CierreCaja, error)
	// FindAnterior returns the latest snapshot strictly before fecha.
	FindAnterior(ctx context.Context, fecha time.Time) (*model.CierreCaja, error)
	List(ctx context.Context, page, limit int) ([]model.CierreCaja, int64, error)

	// LockCierresTx takes a transaction-scoped advisory lock so that the
	// latest-snapshot lookup and the snapshot insert of two concurrent
	// closings can never interleave. Released automatically at tx end.
	LockCierresTx(tx *gorm.DB) error

	DB() *gorm.DB
}

type cierreRepo struct{ db *gorm.DB }

func NewCierreRepository(db *gorm.DB) CierreRepository { return &cierreRepo{db: db} }

func (r *cierreRepo) DB() *gorm.DB { return r.db }

func (r *cierreRepo) CreateTx(tx *gorm.DB, c *model.CierreCaja) error {
	return tx.Create(c).Error
}

func (r *cierreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CierreCaja, error) {
	var c model.CierreCaja
	err := r.db.WithContext(ctx).Preload("Usuario").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cierreRepo) FindUltimo(ctx context.Context, tx *gorm.DB) (*model.CierreCaja, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var c model.CierreCaja
	err := db.WithContext(ctx).Order("fecha_cierre DESC").First(&c).Error
	return &c, err
}

func (r *cierreRepo) FindAnterior(ctx context.Context, fecha time.Time) (*model.CierreCaja, error) {
	var c model.CierreCaja
	err := r.db.WithContext(ctx).
		Where("fecha_cierre < ?", fecha).
		Order("fecha_cierre DESC").
		First(&c).Error
	return &c, err
}

func (r *cierreRepo) List(ctx context.Context, page, limit int) ([]model.CierreCaja, int64, error) {
	var cierres []model.CierreCaja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CierreCaja{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Usuario").
		Order("fecha_cierre DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&cierres).Error
	return cierres, total, err
}

func (r *cierreRepo) LockCierresTx(tx *gorm.DB) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", cierreLockKey).Error
}
