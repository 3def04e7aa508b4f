package service

import (
	"context"
	"errors"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/domainerr"
	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"
	"github.com/comercial2hermanos/sistema-c2h/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CierreService interface {
	// PreviewCierre aggregates the current open window without closing it.
	PreviewCierre(ctx context.Context) (*dto.ResumenCierre, error)
	// Cerrar finalizes the current window into an immutable snapshot.
	Cerrar(ctx context.Context, usuarioID uuid.UUID) (*dto.CierreResponse, error)
	// Desglose recomputes the exact historical window of a finalized closing.
	Desglose(ctx context.Context, id uuid.UUID) (*dto.DesgloseCierreResponse, error)
	ListCierres(ctx context.Context, page, limit int) ([]dto.CierreResponse, int64, error)
}

type cierreService struct {
	repo       repository.CierreRepository
	ventaRepo  repository.VentaRepository
	abonoRepo  repository.AbonoRepository
	gastoRepo  repository.GastoRepository
	dispatcher *worker.Dispatcher

	// now is injectable so the window arithmetic is testable against a
	// frozen clock.
	now func() time.Time
}

func NewCierreService(
	repo repository.CierreRepository,
	ventaRepo repository.VentaRepository,
	abonoRepo repository.AbonoRepository,
	gastoRepo repository.GastoRepository,
	dispatcher *worker.Dispatcher,
) CierreService {
	return NewCierreServiceWithClock(repo, ventaRepo, abonoRepo, gastoRepo, dispatcher, time.Now)
}

// NewCierreServiceWithClock fixes the clock used for window bounds.
func NewCierreServiceWithClock(
	repo repository.CierreRepository,
	ventaRepo repository.VentaRepository,
	abonoRepo repository.AbonoRepository,
	gastoRepo repository.GastoRepository,
	dispatcher *worker.Dispatcher,
	now func() time.Time,
) CierreService {
	return &cierreService{
		repo:       repo,
		ventaRepo:  ventaRepo,
		abonoRepo:  abonoRepo,
		gastoRepo:  gastoRepo,
		dispatcher: dispatcher,
		now:        now,
	}
}

// ventanaActual resolves the open accounting window (desde, hasta]: desde is
// the last closing's fecha_cierre, or start of today when no closing exists
// yet; hasta is the frozen "ahora" the caller passes in.
func (s *cierreService) ventanaActual(ctx context.Context, tx *gorm.DB, hasta time.Time) (time.Time, error) {
	ultimo, err := s.repo.FindUltimo(ctx, tx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Date(hasta.Year(), hasta.Month(), hasta.Day(), 0, 0, 0, 0, hasta.Location()), nil
		}
		return time.Time{}, err
	}
	return ultimo.FechaCierre, nil
}

// resumir aggregates a window into the cierre figures. Runs against tx when
// inside the finalize transaction, or the plain connection for previews.
func (s *cierreService) resumir(ctx context.Context, tx *gorm.DB, desde, hasta time.Time) (*dto.ResumenCierre, error) {
	porMetodo, err := s.ventaRepo.SumTotalPorMetodo(ctx, tx, desde, hasta)
	if err != nil {
		return nil, err
	}
	abonos, err := s.abonoRepo.SumEnVentana(ctx, tx, desde, hasta)
	if err != nil {
		return nil, err
	}
	gastos, err := s.gastoRepo.SumEnVentana(ctx, tx, desde, hasta)
	if err != nil {
		return nil, err
	}
	cantidad, err := s.ventaRepo.CountEnVentana(ctx, tx, desde, hasta)
	if err != nil {
		return nil, err
	}

	efectivoVentas := porMetodo[model.MetodoEfectivo]
	tarjeta := porMetodo[model.MetodoTarjeta]
	transferencia := porMetodo[model.MetodoTransferencia]

	// CREDITO sales count toward the volume figures but put no money in the
	// drawer; the cash enters later as abonos.
	totalVentas := efectivoVentas.Add(tarjeta).Add(transferencia)

	return &dto.ResumenCierre{
		Desde:          desde.Format(time.RFC3339),
		Hasta:          hasta.Format(time.RFC3339),
		EfectivoVentas: efectivoVentas,
		Abonos:         abonos,
		Gastos:         gastos,
		Efectivo:       efectivoVentas.Add(abonos).Sub(gastos),
		Tarjeta:        tarjeta,
		Transferencia:  transferencia,
		TotalVentas:    totalVentas,
		CantidadVentas: cantidad,
	}, nil
}

func (s *cierreService) PreviewCierre(ctx context.Context) (*dto.ResumenCierre, error) {
	hasta := s.now()
	desde, err := s.ventanaActual(ctx, nil, hasta)
	if err != nil {
		return nil, err
	}
	return s.resumir(ctx, nil, desde, hasta)
}

// Cerrar takes the advisory lock, re-reads the latest snapshot inside the
// transaction, aggregates the window and inserts the new snapshot — all
// atomically, so two concurrent closings serialize and the second one
// aggregates only what the first left open (typically a zero window).
func (s *cierreService) Cerrar(ctx context.Context, usuarioID uuid.UUID) (*dto.CierreResponse, error) {
	hasta := s.now()

	var cierre model.CierreCaja
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.LockCierresTx(tx); err != nil {
			return err
		}
		desde, err := s.ventanaActual(ctx, tx, hasta)
		if err != nil {
			return err
		}
		resumen, err := s.resumir(ctx, tx, desde, hasta)
		if err != nil {
			return err
		}

		cierre = model.CierreCaja{
			UsuarioID:          usuarioID,
			FechaCierre:        hasta,
			MontoEfectivo:      resumen.Efectivo,
			MontoTarjeta:       resumen.Tarjeta,
			MontoTransferencia: resumen.Transferencia,
			TotalGastos:        resumen.Gastos,
			TotalVentas:        resumen.TotalVentas,
			CantidadVentas:     int(resumen.CantidadVentas),
		}
		return s.repo.CreateTx(tx, &cierre)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueTicketCierre(ctx, worker.TicketCierrePayload{CierreID: cierre.ID.String()})
	}
	return cierreToResponse(&cierre), nil
}

// Desglose reproduces the printed breakdown of a historical closing by
// recomputing over (cierre anterior, fecha_cierre]. Snapshots are immutable,
// so this is idempotent and stable no matter how many closings came after.
func (s *cierreService) Desglose(ctx context.Context, id uuid.UUID) (*dto.DesgloseCierreResponse, error) {
	cierre, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "cierre", ID: id.String()}
	}

	desde := time.Date(
		cierre.FechaCierre.Year(), cierre.FechaCierre.Month(), cierre.FechaCierre.Day(),
		0, 0, 0, 0, cierre.FechaCierre.Location(),
	)
	if anterior, err := s.repo.FindAnterior(ctx, cierre.FechaCierre); err == nil {
		desde = anterior.FechaCierre
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	resumen, err := s.resumir(ctx, nil, desde, cierre.FechaCierre)
	if err != nil {
		return nil, err
	}
	return &dto.DesgloseCierreResponse{
		Cierre:  *cierreToResponse(cierre),
		Resumen: *resumen,
	}, nil
}

func (s *cierreService) ListCierres(ctx context.Context, page, limit int) ([]dto.CierreResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	cierres, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CierreResponse, 0, len(cierres))
	for i := range cierres {
		out = append(out, *cierreToResponse(&cierres[i]))
	}
	return out, total, nil
}

func cierreToResponse(c *model.CierreCaja) *dto.CierreResponse {
	usuario := ""
	if c.Usuario != nil {
		usuario = c.Usuario.Username
	}
	return &dto.CierreResponse{
		ID:                 c.ID.String(),
		Usuario:            usuario,
		FechaCierre:        c.FechaCierre.Format(time.RFC3339),
		MontoEfectivo:      c.MontoEfectivo,
		MontoTarjeta:       c.MontoTarjeta,
		MontoTransferencia: c.MontoTransferencia,
		TotalGastos:        c.TotalGastos,
		TotalVentas:        c.TotalVentas,
		CantidadVentas:     c.CantidadVentas,
	}
}
