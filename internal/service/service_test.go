package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/petrolea/pedidos-api/internal/domain"
	"github.com/petrolea/pedidos-api/internal/pkg/logger"
	"github.com/petrolea/pedidos-api/internal/store"
)

// MockPedidoStore is a mock implementation of the PedidoStore interface.
type MockPedidoStore struct {
	mock.Mock
}

func (m *MockPedidoStore) Create(ctx context.Context, form *domain.PedidoForm) (*domain.Pedido, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pedido), args.Error(1)
}

func (m *MockPedidoStore) Get(ctx context.Context, id int64) (*domain.Pedido, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pedido), args.Error(1)
}

func (m *MockPedidoStore) List(ctx context.Context, filter store.ListFilter) ([]domain.Pedido, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pedido), args.Error(1)
}

func (m *MockPedidoStore) Search(ctx context.Context, term string) ([]domain.Pedido, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pedido), args.Error(1)
}

func (m *MockPedidoStore) Update(ctx context.Context, id int64, form *domain.PedidoForm) (*domain.Pedido, error) {
	args := m.Called(ctx, id, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pedido), args.Error(1)
}

func (m *MockPedidoStore) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPedidoStore) ChangeState(ctx context.Context, id int64, estado string) (*domain.Pedido, error) {
	args := m.Called(ctx, id, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pedido), args.Error(1)
}

func (m *MockPedidoStore) Estadisticas(ctx context.Context) (*domain.Estadisticas, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estadisticas), args.Error(1)
}

func validForm() *domain.PedidoForm {
	return &domain.PedidoForm{
		NombreCliente:   "Carlos Mendoza",
		Telefono:        "8765-4321",
		Direccion:       "Km 7 Carretera Sur",
		TipoCombustible: "Diesel",
		Cantidad:        "50",
		NivelUrgencia:   "urgente",
	}
}

func samplePedido() *domain.Pedido {
	return &domain.Pedido{
		ID:              1,
		Cantidad:        50,
		FechaPedido:     time.Now(),
		NivelUrgencia:   "Urgente",
		NombreCliente:   "Carlos Mendoza",
		Telefono:        "87654321",
		Direccion:       "Km 7 Carretera Sur",
		TipoCombustible: "Diesel",
		Estado:          "Pendiente",
	}
}

func TestPedidoService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockStore := new(MockPedidoStore)
		svc := New(mockStore, logger.NewNoop())
		form := validForm()
		mockStore.On("Create", ctx, form).Return(samplePedido(), nil).Once()

		pedido, err := svc.Create(ctx, form)

		require.NoError(t, err)
		assert.Equal(t, "Pendiente", pedido.Estado)
		mockStore.AssertExpectations(t)
	})

	t.Run("validation failed", func(t *testing.T) {
		mockStore := new(MockPedidoStore)
		svc := New(mockStore, logger.NewNoop())

		_, err := svc.Create(ctx, &domain.PedidoForm{})

		assert.ErrorIs(t, err, domain.ErrPedidoInvalido)
		mockStore.AssertNotCalled(t, "Create")
	})

	t.Run("store failed", func(t *testing.T) {
		mockStore := new(MockPedidoStore)
		svc := New(mockStore, logger.NewNoop())
		form := validForm()
		mockStore.On("Create", ctx, form).Return(nil, errors.New("boom")).Once()

		_, err := svc.Create(ctx, form)

		assert.Error(t, err)
		mockStore.AssertExpectations(t)
	})
}

func TestPedidoService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("not found propagates", func(t *testing.T) {
		mockStore := new(MockPedidoStore)
		svc := New(mockStore, logger.NewNoop())
		mockStore.On("Get", ctx, int64(42)).Return(nil, store.ErrNotFound).Once()

		_, err := svc.Get(ctx, 42)

		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPedidoService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("validation failed", func(t *testing.T) {
		mockStore := new(MockPedidoStore)
		svc := New(mockStore, logger.NewNoop())

		_, err := svc.Update(ctx, 1, &domain.PedidoForm{})

		assert.ErrorIs(t, err, domain.ErrPedidoInvalido)
		mockStore.AssertNotCalled(t, "Update")
	})

	t.Run("success", func(t *testing.T) {
		mockStore := new(MockPedidoStore)
		svc := New(mockStore, logger.NewNoop())
		form := validForm()
		mockStore.On("Update", ctx, int64(1), form).Return(samplePedido(), nil).Once()

		_, err := svc.Update(ctx, 1, form)

		require.NoError(t, err)
		mockStore.AssertExpectations(t)
	})
}

func TestPedidoService_Delete(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockPedidoStore)
	svc := New(mockStore, logger.NewNoop())
	mockStore.On("Delete", ctx, int64(7)).Return(false, nil).Once()

	deleted, err := svc.Delete(ctx, 7)

	require.NoError(t, err)
	assert.False(t, deleted)
	mockStore.AssertExpectations(t)
}

func TestPedidoService_ChangeState(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockPedidoStore)
	svc := New(mockStore, logger.NewNoop())
	done := samplePedido()
	done.Estado = "Completado"
	now := time.Now()
	done.FechaCompletado = &now
	mockStore.On("ChangeState", ctx, int64(1), "completado").Return(done, nil).Once()

	pedido, err := svc.ChangeState(ctx, 1, "completado")

	require.NoError(t, err)
	assert.Equal(t, "Completado", pedido.Estado)
	assert.NotNil(t, pedido.FechaCompletado)
	mockStore.AssertExpectations(t)
}

func TestPedidoService_Estadisticas(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockPedidoStore)
	svc := New(mockStore, logger.NewNoop())
	mockStore.On("Estadisticas", ctx).Return(&domain.Estadisticas{Pendientes: 3}, nil).Once()

	stats, err := svc.Estadisticas(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Pendientes)
}
