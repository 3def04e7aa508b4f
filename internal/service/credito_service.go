package service

import (
	"context"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/domainerr"
	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sobrepagoTolerancia absorbs rounding noise from registers that charge in
// cash denominations: an abono may exceed the balance by up to one centavo.
var sobrepagoTolerancia = decimal.NewFromFloat(0.01)

type CreditoService interface {
	RegistrarAbono(ctx context.Context, req dto.RegistrarAbonoRequest) (*dto.AbonoResponse, error)
	SaldoPendiente(ctx context.Context, ventaID uuid.UUID) (decimal.Decimal, error)
	CuentasPorCobrar(ctx context.Context) (*dto.CuentasPorCobrarResponse, error)
	AbonosDeVenta(ctx context.Context, ventaID uuid.UUID) ([]dto.AbonoResponse, error)
}

type creditoService struct {
	ventaRepo repository.VentaRepository
	abonoRepo repository.AbonoRepository
}

func NewCreditoService(ventaRepo repository.VentaRepository, abonoRepo repository.AbonoRepository) CreditoService {
	return &creditoService{ventaRepo: ventaRepo, abonoRepo: abonoRepo}
}

// RegistrarAbono appends a payment to an unpaid CREDITO sale, atomically with
// the pagado transition:
//
//	BEGIN → SELECT venta FOR UPDATE → check saldo → INSERT abono →
//	recompute saldo → UPDATE pagado if saldo ≤ 0 → COMMIT
//
// The row lock makes the check-then-insert race-free: two cashiers collecting
// the same balance at once serialize, and the second sees the first one's
// abono in the recomputed saldo.
func (s *creditoService) RegistrarAbono(ctx context.Context, req dto.RegistrarAbonoRequest) (*dto.AbonoResponse, error) {
	ventaID, err := uuid.Parse(req.VentaID)
	if err != nil {
		return nil, &domainerr.ValidacionError{Campo: "venta_id", Motivo: "id inválido"}
	}
	if !req.Monto.IsPositive() {
		return nil, &domainerr.ValidacionError{Campo: "monto", Motivo: "debe ser mayor a cero"}
	}

	var (
		abono  model.Abono
		saldo  decimal.Decimal
		pagado bool
	)

	txErr := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		venta, err := s.ventaRepo.FindByIDForUpdate(tx, ventaID)
		if err != nil {
			return &domainerr.NoEncontradoError{Entidad: "venta", ID: req.VentaID}
		}
		if venta.MetodoPago != model.MetodoCredito {
			return &domainerr.ValidacionError{Campo: "venta_id", Motivo: "la venta no es a crédito"}
		}
		if venta.Pagado {
			// Una venta saldada no admite más abonos: el caso es un
			// sobrepago contra saldo cero, no una petición malformada.
			return &domainerr.SobrepagoError{Saldo: decimal.Zero, Intentado: req.Monto}
		}

		saldoActual := venta.SaldoPendiente()
		if req.Monto.GreaterThan(saldoActual.Add(sobrepagoTolerancia)) {
			return &domainerr.SobrepagoError{Saldo: saldoActual, Intentado: req.Monto}
		}

		abono = model.Abono{
			VentaID: ventaID,
			Monto:   req.Monto,
			Nota:    req.Nota,
		}
		if err := s.abonoRepo.CreateTx(tx, &abono); err != nil {
			return err
		}

		saldo = saldoActual.Sub(req.Monto)
		if saldo.IsNegative() {
			saldo = decimal.Zero
		}
		if saldo.IsZero() {
			if err := s.ventaRepo.UpdatePagadoTx(tx, ventaID, true); err != nil {
				return err
			}
			pagado = true
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.AbonoResponse{
		ID:            abono.ID.String(),
		VentaID:       ventaID.String(),
		Monto:         abono.Monto,
		Nota:          abono.Nota,
		CreatedAt:     abono.CreatedAt.UTC().Format(time.RFC3339),
		SaldoRestante: saldo,
		Pagado:        pagado,
	}, nil
}

func (s *creditoService) SaldoPendiente(ctx context.Context, ventaID uuid.UUID) (decimal.Decimal, error) {
	venta, err := s.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return decimal.Zero, &domainerr.NoEncontradoError{Entidad: "venta", ID: ventaID.String()}
	}
	return venta.SaldoPendiente(), nil
}

// CuentasPorCobrar lists every unpaid CREDITO sale, oldest first, plus the
// grand total outstanding.
func (s *creditoService) CuentasPorCobrar(ctx context.Context) (*dto.CuentasPorCobrarResponse, error) {
	ventas, err := s.ventaRepo.ListCreditosPendientes(ctx)
	if err != nil {
		return nil, err
	}

	cuentas := make([]dto.CuentaPorCobrar, 0, len(ventas))
	totalPorCobrar := decimal.Zero
	for i := range ventas {
		v := &ventas[i]
		abonado := decimal.Zero
		for _, a := range v.Abonos {
			abonado = abonado.Add(a.Monto)
		}
		saldo := v.SaldoPendiente()
		totalPorCobrar = totalPorCobrar.Add(saldo)

		cliente, ruc := "", ""
		if v.Cliente != nil {
			cliente = v.Cliente.Nombre
			ruc = v.Cliente.RucCedula
		}
		cuentas = append(cuentas, dto.CuentaPorCobrar{
			VentaID:        v.ID.String(),
			Cliente:        cliente,
			RucCedula:      ruc,
			Total:          v.Total,
			TotalAbonado:   abonado,
			SaldoPendiente: saldo,
			Fecha:          v.CreatedAt.Format("2006-01-02"),
		})
	}

	return &dto.CuentasPorCobrarResponse{
		Cuentas:        cuentas,
		TotalPorCobrar: totalPorCobrar,
	}, nil
}

func (s *creditoService) AbonosDeVenta(ctx context.Context, ventaID uuid.UUID) ([]dto.AbonoResponse, error) {
	if _, err := s.ventaRepo.FindByID(ctx, ventaID); err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "venta", ID: ventaID.String()}
	}
	abonos, err := s.abonoRepo.ListByVenta(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AbonoResponse, 0, len(abonos))
	for _, a := range abonos {
		out = append(out, dto.AbonoResponse{
			ID:        a.ID.String(),
			VentaID:   a.VentaID.String(),
			Monto:     a.Monto,
			Nota:      a.Nota,
			CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}
