package service

import (
	"context"
	"fmt"

	"github.com/petrolea/pedidos-api/internal/domain"
	"github.com/petrolea/pedidos-api/internal/pkg/logger"
	"github.com/petrolea/pedidos-api/internal/store"
)

// PedidoStore is the persistence contract, implemented by store.DBStore.
type PedidoStore interface {
	Create(ctx context.Context, form *domain.PedidoForm) (*domain.Pedido, error)
	Get(ctx context.Context, id int64) (*domain.Pedido, error)
	List(ctx context.Context, filter store.ListFilter) ([]domain.Pedido, error)
	Search(ctx context.Context, term string) ([]domain.Pedido, error)
	Update(ctx context.Context, id int64, form *domain.PedidoForm) (*domain.Pedido, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ChangeState(ctx context.Context, id int64, estado string) (*domain.Pedido, error)
	Estadisticas(ctx context.Context) (*domain.Estadisticas, error)
}

// PedidoService is the business-logic contract consumed by the HTTP layer.
type PedidoService interface {
	Create(ctx context.Context, form *domain.PedidoForm) (*domain.Pedido, error)
	Get(ctx context.Context, id int64) (*domain.Pedido, error)
	List(ctx context.Context, filter store.ListFilter) ([]domain.Pedido, error)
	Search(ctx context.Context, term string) ([]domain.Pedido, error)
	Update(ctx context.Context, id int64, form *domain.PedidoForm) (*domain.Pedido, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ChangeState(ctx context.Context, id int64, estado string) (*domain.Pedido, error)
	Estadisticas(ctx context.Context) (*domain.Estadisticas, error)
}

// New creates a new PedidoService.
func New(store PedidoStore, logger logger.Logger) PedidoService {
	return &pedidoService{
		store:  store,
		logger: logger,
	}
}

type pedidoService struct {
	store  PedidoStore
	logger logger.Logger
}

// Create validates and persists a new order.
func (s *pedidoService) Create(ctx context.Context, form *domain.PedidoForm) (*domain.Pedido, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	pedido, err := s.store.Create(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("creating pedido: %w", err)
	}

	s.logger.Infow("pedido created",
		"id", pedido.ID,
		"cliente", pedido.NombreCliente,
		"tipo_combustible", pedido.TipoCombustible,
		"urgencia", pedido.NivelUrgencia,
	)
	return pedido, nil
}

func (s *pedidoService) Get(ctx context.Context, id int64) (*domain.Pedido, error) {
	pedido, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting pedido: %w", err)
	}
	return pedido, nil
}

func (s *pedidoService) List(ctx context.Context, filter store.ListFilter) ([]domain.Pedido, error) {
	pedidos, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing pedidos: %w", err)
	}
	return pedidos, nil
}

func (s *pedidoService) Search(ctx context.Context, term string) ([]domain.Pedido, error) {
	pedidos, err := s.store.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("searching pedidos: %w", err)
	}
	return pedidos, nil
}

// Update validates the form and overwrites the order's mutable fields.
func (s *pedidoService) Update(ctx context.Context, id int64, form *domain.PedidoForm) (*domain.Pedido, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	pedido, err := s.store.Update(ctx, id, form)
	if err != nil {
		return nil, fmt.Errorf("updating pedido: %w", err)
	}

	s.logger.Infow("pedido updated", "id", id)
	return pedido, nil
}

func (s *pedidoService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting pedido: %w", err)
	}
	if deleted {
		s.logger.Infow("pedido deleted", "id", id)
	}
	return deleted, nil
}

func (s *pedidoService) ChangeState(ctx context.Context, id int64, estado string) (*domain.Pedido, error) {
	pedido, err := s.store.ChangeState(ctx, id, estado)
	if err != nil {
		return nil, fmt.Errorf("changing pedido state: %w", err)
	}

	s.logger.Infow("pedido state changed", "id", id, "estado", pedido.Estado)
	return pedido, nil
}

func (s *pedidoService) Estadisticas(ctx context.Context) (*domain.Estadisticas, error) {
	stats, err := s.store.Estadisticas(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregating estadisticas: %w", err)
	}
	return stats, nil
}
