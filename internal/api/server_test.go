package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/petrolea/pedidos-api/internal/config"
	"github.com/petrolea/pedidos-api/internal/domain"
	"github.com/petrolea/pedidos-api/internal/pkg/logger"
	"github.com/petrolea/pedidos-api/internal/service"
	"github.com/petrolea/pedidos-api/internal/store"
)

type MockPedidoService struct {
	mock.Mock
}

func (m *MockPedidoService) Create(ctx context.Context, form *domain.PedidoForm) (*domain.Pedido, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pedido), args.Error(1)
}

func (m *MockPedidoService) Get(ctx context.Context, id int64) (*domain.Pedido, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pedido), args.Error(1)
}

func (m *MockPedidoService) List(ctx context.Context, filter store.ListFilter) ([]domain.Pedido, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pedido), args.Error(1)
}

func (m *MockPedidoService) Search(ctx context.Context, term string) ([]domain.Pedido, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pedido), args.Error(1)
}

func (m *MockPedidoService) Update(ctx context.Context, id int64, form *domain.PedidoForm) (*domain.Pedido, error) {
	args := m.Called(ctx, id, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pedido), args.Error(1)
}

func (m *MockPedidoService) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPedidoService) ChangeState(ctx context.Context, id int64, estado string) (*domain.Pedido, error) {
	args := m.Called(ctx, id, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pedido), args.Error(1)
}

func (m *MockPedidoService) Estadisticas(ctx context.Context) (*domain.Estadisticas, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estadisticas), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, usuario, password string) (*domain.Administrador, error) {
	args := m.Called(ctx, usuario, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Administrador), args.Error(1)
}

const testSecret = "test-secret"

func newTestServer(pedidos service.PedidoService, auth service.AuthService) *Server {
	return NewServer(
		pedidos,
		auth,
		logger.NewNoop(),
		config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour},
		config.HTTPServerConfig{},
		nil,
	)
}

// issueToken logs in against the mock auth service and returns a Bearer token.
func issueToken(t *testing.T, srv *Server, auth *MockAuthService) string {
	t.Helper()

	auth.On("Login", mock.Anything, "admin", "admin123").
		Return(&domain.Administrador{ID: 1, Usuario: "admin"}, nil).Once()

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "admin123"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
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

func TestLogin(t *testing.T) {
	t.Run("success returns token", func(t *testing.T) {
		auth := new(MockAuthService)
		srv := newTestServer(new(MockPedidoService), auth)

		token := issueToken(t, srv, auth)
		assert.NotEmpty(t, token)
		auth.AssertExpectations(t)
	})

	t.Run("bad credentials", func(t *testing.T) {
		auth := new(MockAuthService)
		srv := newTestServer(new(MockPedidoService), auth)
		auth.On("Login", mock.Anything, "admin", "wrong").
			Return(nil, service.ErrCredencialesInvalidas).Once()

		body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(new(MockPedidoService), new(MockAuthService))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/pedidos"},
		{http.MethodPost, "/api/pedidos"},
		{http.MethodGet, "/api/pedidos/1"},
		{http.MethodGet, "/api/estadisticas"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/pedidos", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func authedRequest(t *testing.T, srv *Server, auth *MockAuthService, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	token := issueToken(t, srv, auth)
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestCreatePedido(t *testing.T) {
	pedidos := new(MockPedidoService)
	auth := new(MockAuthService)
	srv := newTestServer(pedidos, auth)

	pedidos.On("Create", mock.Anything, mock.AnythingOfType("*domain.PedidoForm")).
		Return(samplePedido(), nil).Once()

	form := domain.PedidoForm{
		NombreCliente:   "Carlos Mendoza",
		Telefono:        "8765-4321",
		Direccion:       "Km 7 Carretera Sur",
		TipoCombustible: "Diesel",
		Cantidad:        "50",
	}
	rec := authedRequest(t, srv, auth, http.MethodPost, "/api/pedidos", form)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Pedido
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Pendiente", got.Estado)
	pedidos.AssertExpectations(t)
}

func TestCreatePedidoInvalid(t *testing.T) {
	pedidos := new(MockPedidoService)
	auth := new(MockAuthService)
	srv := newTestServer(pedidos, auth)

	pedidos.On("Create", mock.Anything, mock.AnythingOfType("*domain.PedidoForm")).
		Return(nil, domain.ErrPedidoInvalido).Once()

	rec := authedRequest(t, srv, auth, http.MethodPost, "/api/pedidos", domain.PedidoForm{})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetPedido(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		pedidos := new(MockPedidoService)
		auth := new(MockAuthService)
		srv := newTestServer(pedidos, auth)
		pedidos.On("Get", mock.Anything, int64(1)).Return(samplePedido(), nil).Once()

		rec := authedRequest(t, srv, auth, http.MethodGet, "/api/pedidos/1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		pedidos := new(MockPedidoService)
		auth := new(MockAuthService)
		srv := newTestServer(pedidos, auth)
		pedidos.On("Get", mock.Anything, int64(99)).Return(nil, store.ErrNotFound).Once()

		rec := authedRequest(t, srv, auth, http.MethodGet, "/api/pedidos/99", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		pedidos := new(MockPedidoService)
		auth := new(MockAuthService)
		srv := newTestServer(pedidos, auth)

		rec := authedRequest(t, srv, auth, http.MethodGet, "/api/pedidos/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListPedidos(t *testing.T) {
	pedidos := new(MockPedidoService)
	auth := new(MockAuthService)
	srv := newTestServer(pedidos, auth)

	pedidos.On("List", mock.Anything, store.ListFilter{Estado: "en_ruta", Limit: 10, Offset: 5}).
		Return([]domain.Pedido{*samplePedido()}, nil).Once()

	rec := authedRequest(t, srv, auth, http.MethodGet, "/api/pedidos?estado=en_ruta&limit=10&offset=5", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Pedido
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 1)
	pedidos.AssertExpectations(t)
}

func TestSearchPedidos(t *testing.T) {
	t.Run("by term", func(t *testing.T) {
		pedidos := new(MockPedidoService)
		auth := new(MockAuthService)
		srv := newTestServer(pedidos, auth)
		pedidos.On("Search", mock.Anything, "central").
			Return([]domain.Pedido{}, nil).Once()

		rec := authedRequest(t, srv, auth, http.MethodGet, "/api/pedidos/buscar?q=central", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing term", func(t *testing.T) {
		pedidos := new(MockPedidoService)
		auth := new(MockAuthService)
		srv := newTestServer(pedidos, auth)

		rec := authedRequest(t, srv, auth, http.MethodGet, "/api/pedidos/buscar", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeletePedido(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		pedidos := new(MockPedidoService)
		auth := new(MockAuthService)
		srv := newTestServer(pedidos, auth)
		pedidos.On("Delete", mock.Anything, int64(1)).Return(true, nil).Once()

		rec := authedRequest(t, srv, auth, http.MethodDelete, "/api/pedidos/1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing id is 404 not 500", func(t *testing.T) {
		pedidos := new(MockPedidoService)
		auth := new(MockAuthService)
		srv := newTestServer(pedidos, auth)
		pedidos.On("Delete", mock.Anything, int64(99)).Return(false, nil).Once()

		rec := authedRequest(t, srv, auth, http.MethodDelete, "/api/pedidos/99", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestChangeEstado(t *testing.T) {
	pedidos := new(MockPedidoService)
	auth := new(MockAuthService)
	srv := newTestServer(pedidos, auth)

	done := samplePedido()
	done.Estado = "Completado"
	now := time.Now()
	done.FechaCompletado = &now
	pedidos.On("ChangeState", mock.Anything, int64(1), "completado").Return(done, nil).Once()

	rec := authedRequest(t, srv, auth, http.MethodPatch, "/api/pedidos/1/estado", estadoRequest{Estado: "completado"})

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Pedido
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Completado", got.Estado)
	assert.NotNil(t, got.FechaCompletado)
}

func TestEstadisticas(t *testing.T) {
	pedidos := new(MockPedidoService)
	auth := new(MockAuthService)
	srv := newTestServer(pedidos, auth)

	pedidos.On("Estadisticas", mock.Anything).
		Return(&domain.Estadisticas{Pendientes: 2, CombustibleTop: []domain.CombustibleUso{{Tipo: "Diesel", Cantidad: 5}}}, nil).Once()

	rec := authedRequest(t, srv, auth, http.MethodGet, "/api/estadisticas", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Estadisticas
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 2, got.Pendientes)
	require.Len(t, got.CombustibleTop, 1)
	assert.Equal(t, "Diesel", got.CombustibleTop[0].Tipo)
}

func TestServerErrorsAreOpaque(t *testing.T) {
	pedidos := new(MockPedidoService)
	auth := new(MockAuthService)
	srv := newTestServer(pedidos, auth)

	pedidos.On("Get", mock.Anything, int64(1)).
		Return(nil, errors.New("pq: something awful")).Once()

	rec := authedRequest(t, srv, auth, http.MethodGet, "/api/pedidos/1", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "awful")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(new(MockPedidoService), new(MockAuthService))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
