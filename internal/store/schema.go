package store

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/petrolea/pedidos-api/internal/domain"
)

// One statement per entry: the pgx driver runs Exec over the extended
// protocol, which rejects multi-statement strings.
var schemaStatements = []string{
	`DO $$ BEGIN
		CREATE TYPE urgencia_pedido AS ENUM ('Normal', 'Urgente', 'Critico');
	EXCEPTION
		WHEN duplicate_object THEN null;
	END $$;`,

	`CREATE TABLE IF NOT EXISTS cliente (
		cliente_id SERIAL PRIMARY KEY,
		nombre TEXT NOT NULL,
		telefono TEXT NOT NULL DEFAULT '',
		direccion TEXT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS tipo_combustible (
		tipo_combustible_id INTEGER PRIMARY KEY,
		tipo_combustible TEXT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS estado_pedido (
		estado_pedido_id INTEGER PRIMARY KEY,
		estado_pedido TEXT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS pedidos (
		pedidos_id SERIAL PRIMARY KEY,
		cliente_id INTEGER REFERENCES cliente(cliente_id),
		tipo_combustible_id INTEGER REFERENCES tipo_combustible(tipo_combustible_id),
		estado_pedido_id INTEGER REFERENCES estado_pedido(estado_pedido_id),
		cantidad_combustible INTEGER NOT NULL,
		urgencia urgencia_pedido NOT NULL DEFAULT 'Normal',
		observacion TEXT NOT NULL DEFAULT '',
		fecha_hora_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		fecha_entrega TIMESTAMPTZ
	);`,

	`CREATE TABLE IF NOT EXISTS administrador (
		administrador_id SERIAL PRIMARY KEY,
		usuario TEXT UNIQUE NOT NULL,
		contraseña TEXT NOT NULL
	);`,

	`CREATE INDEX IF NOT EXISTS idx_pedidos_fecha_creacion ON pedidos(fecha_hora_creacion);`,
	`CREATE INDEX IF NOT EXISTS idx_pedidos_estado ON pedidos(estado_pedido_id);`,

	`INSERT INTO tipo_combustible (tipo_combustible_id, tipo_combustible) VALUES
		(3, 'Regular'), (4, 'Diesel'), (5, 'Premium')
	ON CONFLICT (tipo_combustible_id) DO NOTHING;`,

	`INSERT INTO estado_pedido (estado_pedido_id, estado_pedido) VALUES
		(1, 'Pendiente'), (2, 'En_Ruta'), (3, 'Completado'), (4, 'Cancelado')
	ON CONFLICT (estado_pedido_id) DO NOTHING;`,
}

// Default first-run credentials; the password is stored bcrypt-hashed and
// should be rotated immediately on a real deployment.
const (
	defaultAdminUser = "admin"
	defaultAdminPass = "admin123"
)

// InitSchema creates the tables and reference rows when they are missing and
// seeds the default administrator account.
func (s *DBStore) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			if isConnectionError(err) {
				return ErrConnectionFailed
			}
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return s.seedAdministrador(ctx)
}

func (s *DBStore) seedAdministrador(ctx context.Context) error {
	var count int
	err := s.db.QueryRowContext(ctx, qCountAdministrador, defaultAdminUser).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking administrador seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPass), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing default password: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, qInsertAdministrador, defaultAdminUser, string(hash)); err != nil {
		return fmt.Errorf("seeding administrador: %w", err)
	}
	s.logger.Infow("seeded default administrador", "usuario", defaultAdminUser)
	return nil
}

// VerifyCatalog asserts that the ids the in-process resolvers assume still
// match the reference tables. Runs once at startup instead of on every
// resolution.
func (s *DBStore) VerifyCatalog(ctx context.Context) error {
	for _, want := range domain.CatalogoCombustibles() {
		var got string
		if err := s.db.QueryRowContext(ctx, qCheckTipoCombustible, want.ID).Scan(&got); err != nil {
			return catalogErr("tipo_combustible", want.ID, err)
		}
		if got != want.Nombre {
			return fmt.Errorf("%w: tipo_combustible id %d is %q, want %q", ErrCatalogMismatch, want.ID, got, want.Nombre)
		}
	}
	for _, want := range domain.CatalogoEstados() {
		var got string
		if err := s.db.QueryRowContext(ctx, qCheckEstadoPedido, want.ID).Scan(&got); err != nil {
			return catalogErr("estado_pedido", want.ID, err)
		}
		if got != want.Nombre {
			return fmt.Errorf("%w: estado_pedido id %d is %q, want %q", ErrCatalogMismatch, want.ID, got, want.Nombre)
		}
	}
	return nil
}

// catalogErr keeps the startup check inside the store's error taxonomy: a
// lost connection reports ErrConnectionFailed, anything else (a missing row
// included) is a catalog mismatch.
func catalogErr(tabla string, id int, err error) error {
	if isConnectionError(err) {
		return ErrConnectionFailed
	}
	return fmt.Errorf("%w: %s id %d: %w", ErrCatalogMismatch, tabla, id, err)
}
