package service

import (
	"context"
	"errors"

	"github.com/comercial2hermanos/sistema-c2h/internal/domainerr"
	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteService interface {
	CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerCliente(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	ListClientes(ctx context.Context) ([]dto.ClienteResponse, error)
	ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	EliminarCliente(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if _, err := s.repo.FindByRucCedula(ctx, req.RucCedula); err == nil {
		return nil, &domainerr.ValidacionError{Campo: "ruc_cedula", Motivo: "ya existe un cliente con ese RUC/cédula"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := model.Cliente{
		RucCedula:   req.RucCedula,
		Nombre:      req.Nombre,
		Direccion:   req.Direccion,
		Telefono:    req.Telefono,
		EsMayorista: req.EsMayorista,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return clienteToResponse(&c), nil
}

func (s *clienteService) ObtenerCliente(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "cliente", ID: id.String()}
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ListClientes(ctx context.Context) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, *clienteToResponse(&clientes[i]))
	}
	return out, nil
}

func (s *clienteService) ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &domainerr.NoEncontradoError{Entidad: "cliente", ID: id.String()}
	}

	if req.Nombre != "" {
		c.Nombre = req.Nombre
	}
	if req.Direccion != nil {
		c.Direccion = *req.Direccion
	}
	if req.Telefono != nil {
		c.Telefono = *req.Telefono
	}
	if req.EsMayorista != nil {
		c.EsMayorista = *req.EsMayorista
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

// EliminarCliente refuses to delete a customer with sales history; their
// fiado trail must remain traceable.
func (s *clienteService) EliminarCliente(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return &domainerr.NoEncontradoError{Entidad: "cliente", ID: id.String()}
	}
	ventas, err := s.repo.CountVentas(ctx, id)
	if err != nil {
		return err
	}
	if ventas > 0 {
		return &domainerr.ProtegidoError{Entidad: "cliente", ID: id.String()}
	}
	return s.repo.Delete(ctx, id)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:          c.ID.String(),
		RucCedula:   c.RucCedula,
		Nombre:      c.Nombre,
		Direccion:   c.Direccion,
		Telefono:    c.Telefono,
		EsMayorista: c.EsMayorista,
	}
}
