package worker

import (
	"context"
	"encoding/json"

	"github.com/comercial2hermanos/sistema-c2h/internal/infra"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TicketWorker renders receipt and closing-report PDFs off the request path.
// A failed render never affects the committed transaction it documents.
type TicketWorker struct {
	ventaRepo  repository.VentaRepository
	cierreRepo repository.CierreRepository

	nombreComercio string
	storagePath    string
}

func NewTicketWorker(ventaRepo repository.VentaRepository, cierreRepo repository.CierreRepository, nombreComercio, storagePath string) *TicketWorker {
	return &TicketWorker{
		ventaRepo:      ventaRepo,
		cierreRepo:     cierreRepo,
		nombreComercio: nombreComercio,
		storagePath:    storagePath,
	}
}

func (w *TicketWorker) HandleTicketVenta(ctx context.Context, payload json.RawMessage) error {
	var p TicketVentaPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	id, err := uuid.Parse(p.VentaID)
	if err != nil {
		return err
	}
	venta, err := w.ventaRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	path, err := infra.GenerateTicketPDF(venta, w.nombreComercio, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("venta_id", p.VentaID).Str("path", path).Msg("ticket generado")
	return nil
}

func (w *TicketWorker) HandleTicketCierre(ctx context.Context, payload json.RawMessage) error {
	var p TicketCierrePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	id, err := uuid.Parse(p.CierreID)
	if err != nil {
		return err
	}
	cierre, err := w.cierreRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	path, err := infra.GenerateCierrePDF(cierre, w.nombreComercio, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("cierre_id", p.CierreID).Str("path", path).Msg("reporte de cierre generado")
	return nil
}
