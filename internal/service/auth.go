package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/petrolea/pedidos-api/internal/domain"
	"github.com/petrolea/pedidos-api/internal/pkg/logger"
	"github.com/petrolea/pedidos-api/internal/pkg/metrics"
	"github.com/petrolea/pedidos-api/internal/store"
)

// ErrCredencialesInvalidas covers both an unknown username and a wrong
// password; callers cannot tell the two apart.
var ErrCredencialesInvalidas = errors.New("invalid username or password")

// AdminStore fetches stored administrator credentials.
type AdminStore interface {
	GetAdministrador(ctx context.Context, usuario string) (*store.AdminCredenciales, error)
}

// AuthService verifies administrator logins. Passwords are stored as bcrypt
// hashes; plaintext comparison from the legacy schema is not supported.
type AuthService interface {
	Login(ctx context.Context, usuario, password string) (*domain.Administrador, error)
}

// NewAuth creates a new AuthService.
func NewAuth(store AdminStore, logger logger.Logger) AuthService {
	return &authService{
		store:  store,
		logger: logger,
	}
}

type authService struct {
	store  AdminStore
	logger logger.Logger
}

func (s *authService) Login(ctx context.Context, usuario, password string) (*domain.Administrador, error) {
	admin, err := s.store.GetAdministrador(ctx, usuario)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.LoginFailures.Inc()
			return nil, ErrCredencialesInvalidas
		}
		return nil, fmt.Errorf("fetching administrador: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Hash), []byte(password)); err != nil {
		metrics.LoginFailures.Inc()
		s.logger.Warnw("rejected login", "usuario", usuario)
		return nil, ErrCredencialesInvalidas
	}

	return &domain.Administrador{ID: admin.ID, Usuario: admin.Usuario}, nil
}
