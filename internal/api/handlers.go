package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/petrolea/pedidos-api/internal/domain"
	"github.com/petrolea/pedidos-api/internal/service"
	"github.com/petrolea/pedidos-api/internal/store"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string                `json:"token"`
	Admin *domain.Administrador `json:"admin"`
}

type estadoRequest struct {
	Estado string `json:"estado"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	admin, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrCredencialesInvalidas) {
			s.writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		s.serverError(w, r, err)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(admin.ID, 10),
		"usr": admin.Usuario,
		"exp": jwt.NewNumericDate(time.Now().Add(s.authCfg.TokenTTL)),
	})
	signed, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{Token: signed, Admin: admin})
}

func (s *Server) handleCreatePedido(w http.ResponseWriter, r *http.Request) {
	var form domain.PedidoForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	pedido, err := s.pedidos.Create(r.Context(), &form)
	if err != nil {
		s.pedidoError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, pedido)
}

func (s *Server) handleGetPedido(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pedidoID(w, r)
	if !ok {
		return
	}

	pedido, err := s.pedidos.Get(r.Context(), id)
	if err != nil {
		s.pedidoError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pedido)
}

func (s *Server) handleListPedidos(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{
		Estado: r.URL.Query().Get("estado"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	pedidos, err := s.pedidos.List(r.Context(), filter)
	if err != nil {
		s.pedidoError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pedidos)
}

func (s *Server) handleSearchPedidos(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		s.writeError(w, http.StatusBadRequest, "missing search term")
		return
	}

	pedidos, err := s.pedidos.Search(r.Context(), term)
	if err != nil {
		s.pedidoError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pedidos)
}

func (s *Server) handleUpdatePedido(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pedidoID(w, r)
	if !ok {
		return
	}

	var form domain.PedidoForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	pedido, err := s.pedidos.Update(r.Context(), id, &form)
	if err != nil {
		s.pedidoError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pedido)
}

func (s *Server) handleDeletePedido(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pedidoID(w, r)
	if !ok {
		return
	}

	deleted, err := s.pedidos.Delete(r.Context(), id)
	if err != nil {
		s.pedidoError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "pedido not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangeEstado(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pedidoID(w, r)
	if !ok {
		return
	}

	var req estadoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Estado == "" {
		s.writeError(w, http.StatusBadRequest, "invalid estado")
		return
	}

	pedido, err := s.pedidos.ChangeState(r.Context(), id, req.Estado)
	if err != nil {
		s.pedidoError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pedido)
}

func (s *Server) handleEstadisticas(w http.ResponseWriter, r *http.Request) {
	stats, err := s.pedidos.Estadisticas(r.Context())
	if err != nil {
		s.pedidoError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) pedidoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid pedido id")
		return 0, false
	}
	return id, true
}

// pedidoError maps service errors onto status codes: invalid input is the
// client's fault, a missing row is 404, anything else is a 500.
func (s *Server) pedidoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrPedidoInvalido):
		s.writeError(w, http.StatusUnprocessableEntity, "invalid pedido data")
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "pedido not found")
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Errorw("server error", "error", err, "request_method", r.Method, "request_uri", r.URL.RequestURI())
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorw("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
