package service

import (
	"context"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/domainerr"
	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"

	"github.com/google/uuid"
)

type GastoService interface {
	RegistrarGasto(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error)
	ListGastos(ctx context.Context, page, limit int) ([]dto.GastoResponse, int64, error)
}

type gastoService struct {
	repo repository.GastoRepository
}

func NewGastoService(repo repository.GastoRepository) GastoService {
	return &gastoService{repo: repo}
}

func (s *gastoService) RegistrarGasto(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, &domainerr.ValidacionError{Campo: "monto", Motivo: "debe ser mayor a cero"}
	}
	if req.Descripcion == "" {
		return nil, &domainerr.ValidacionError{Campo: "descripcion", Motivo: "es obligatoria"}
	}

	gasto := model.Gasto{
		UsuarioID:   usuarioID,
		Descripcion: req.Descripcion,
		Monto:       req.Monto,
	}
	if err := s.repo.Create(ctx, &gasto); err != nil {
		return nil, err
	}
	return gastoToResponse(&gasto), nil
}

func (s *gastoService) ListGastos(ctx context.Context, page, limit int) ([]dto.GastoResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	gastos, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.GastoResponse, 0, len(gastos))
	for i := range gastos {
		out = append(out, *gastoToResponse(&gastos[i]))
	}
	return out, total, nil
}

func gastoToResponse(g *model.Gasto) *dto.GastoResponse {
	usuario := ""
	if g.Usuario != nil {
		usuario = g.Usuario.Username
	}
	return &dto.GastoResponse{
		ID:          g.ID.String(),
		Usuario:     usuario,
		Descripcion: g.Descripcion,
		Monto:       g.Monto,
		CreatedAt:   g.CreatedAt.UTC().Format(time.RFC3339),
	}
}
