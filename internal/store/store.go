package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/petrolea/pedidos-api/internal/domain"
	"github.com/petrolea/pedidos-api/internal/pkg/logger"
	"github.com/petrolea/pedidos-api/internal/pkg/metrics"
)

// DBStore is the database implementation of the order repository. Every
// composite operation runs in a single transaction, so a client upsert rolls
// back together with a failed order write.
type DBStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewDBStore creates a new DBStore.
func NewDBStore(db *sql.DB, logger logger.Logger) *DBStore {
	return &DBStore{
		db:     db,
		logger: logger,
	}
}

// ListFilter narrows List. Estado accepts any casing of the display names;
// Limit/Offset apply only when positive.
type ListFilter struct {
	Estado string
	Limit  int
	Offset int
}

// AdminCredenciales is the stored administrator record, password hash
// included. Only the auth service should see it.
type AdminCredenciales struct {
	ID      int64
	Usuario string
	Hash    string
}

func observe(op string, start time.Time) {
	metrics.DBResponseTime.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Create upserts the client, resolves the fuel type and inserts the order in
// Pendiente state, all in one transaction. Returns the denormalized view of
// the fresh order.
func (s *DBStore) Create(ctx context.Context, form *domain.PedidoForm) (*domain.Pedido, error) {
	defer observe("create_pedido", time.Now())

	cantidad, err := domain.ParseCantidad(form.Cantidad)
	if err != nil {
		return nil, err
	}
	urgencia := domain.NormalizarUrgencia(form.NivelUrgencia)
	tipoID := domain.TipoCombustibleID(form.TipoCombustible)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		if isConnectionError(err) {
			return nil, ErrConnectionFailed
		}
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	clienteID, err := s.upsertCliente(ctx, tx, form.NombreCliente, form.Telefono, form.Direccion)
	if err != nil {
		return nil, err
	}

	var pedidoID int64
	err = tx.QueryRowContext(
		ctx, qInsertPedido,
		clienteID, tipoID, domain.EstadoPendienteID, cantidad, urgencia, form.Observaciones,
	).Scan(&pedidoID)
	if err != nil {
		if isConnectionError(err) {
			return nil, ErrConnectionFailed
		}
		return nil, fmt.Errorf("inserting pedido: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing pedido: %w", err)
	}

	metrics.PedidosCreated.Inc()
	return s.Get(ctx, pedidoID)
}

// Get retrieves a single denormalized order view.
func (s *DBStore) Get(ctx context.Context, id int64) (*domain.Pedido, error) {
	defer observe("get_pedido", time.Now())

	p, err := scanPedido(s.db.QueryRowContext(ctx, qGetPedido, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isConnectionError(err) {
			return nil, ErrConnectionFailed
		}
		return nil, fmt.Errorf("querying pedido %d: %w", id, err)
	}
	return p, nil
}

// List returns denormalized order views, newest first. The estado filter is
// normalized through the display names before matching the stored text.
func (s *DBStore) List(ctx context.Context, filter ListFilter) ([]domain.Pedido, error) {
	defer observe("list_pedidos", time.Now())

	var b strings.Builder
	b.WriteString(qSelectPedido)
	args := make([]any, 0, 3)

	if filter.Estado != "" {
		args = append(args, domain.NormalizarEstado(filter.Estado))
		fmt.Fprintf(&b, " WHERE ep.estado_pedido::text = $%d", len(args))
	}
	b.WriteString(" ORDER BY p.fecha_hora_creacion DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	return s.queryPedidos(ctx, b.String(), args...)
}

// Search filters by a case-insensitive partial match on the client's name or
// address. Order fields are not searched.
func (s *DBStore) Search(ctx context.Context, term string) ([]domain.Pedido, error) {
	defer observe("search_pedidos", time.Now())

	return s.queryPedidos(ctx, qSearchPedidos, "%"+term+"%")
}

// Update re-upserts the client, re-resolves the fuel type and overwrites the
// mutable order fields. State and both timestamps are left alone.
func (s *DBStore) Update(ctx context.Context, id int64, form *domain.PedidoForm) (*domain.Pedido, error) {
	defer observe("update_pedido", time.Now())

	cantidad, err := domain.ParseCantidad(form.Cantidad)
	if err != nil {
		return nil, err
	}
	urgencia := domain.NormalizarUrgencia(form.NivelUrgencia)
	tipoID := domain.TipoCombustibleID(form.TipoCombustible)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		if isConnectionError(err) {
			return nil, ErrConnectionFailed
		}
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	clienteID, err := s.upsertCliente(ctx, tx, form.NombreCliente, form.Telefono, form.Direccion)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, qUpdatePedido, clienteID, tipoID, cantidad, urgencia, form.Observaciones, id)
	if err != nil {
		if isConnectionError(err) {
			return nil, ErrConnectionFailed
		}
		return nil, fmt.Errorf("updating pedido %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete hard-deletes an order. A missing id reports false rather than an
// error.
func (s *DBStore) Delete(ctx context.Context, id int64) (bool, error) {
	defer observe("delete_pedido", time.Now())

	res, err := s.db.ExecContext(ctx, qDeletePedido, id)
	if err != nil {
		if isConnectionError(err) {
			return false, ErrConnectionFailed
		}
		return false, fmt.Errorf("deleting pedido %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting pedido %d: %w", id, err)
	}
	return n > 0, nil
}

// ChangeState moves an order to a new lifecycle state. Transitioning to
// Completado also stamps fecha_entrega with the current time.
func (s *DBStore) ChangeState(ctx context.Context, id int64, estado string) (*domain.Pedido, error) {
	defer observe("change_state", time.Now())

	estadoID := domain.EstadoPedidoID(estado)
	query := qChangeState
	if strings.EqualFold(estado, domain.EstadoCompletado) {
		query = qChangeStateCompletado
	}

	res, err := s.db.ExecContext(ctx, query, estadoID, id)
	if err != nil {
		if isConnectionError(err) {
			return nil, ErrConnectionFailed
		}
		return nil, fmt.Errorf("changing state of pedido %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	metrics.PedidosStateChanges.WithLabelValues(stateChangeLabel(estado)).Inc()
	return s.Get(ctx, id)
}

// stateChangeLabel clamps the metric label to the known display names so
// user-supplied state strings cannot grow the label set.
func stateChangeLabel(estado string) string {
	if !domain.EsEstadoConocido(estado) {
		return "unknown"
	}
	return domain.NormalizarEstado(estado)
}

// Estadisticas runs the four dashboard aggregates. Each query sees its own
// snapshot; there is no cross-query consistency requirement.
func (s *DBStore) Estadisticas(ctx context.Context) (*domain.Estadisticas, error) {
	defer observe("estadisticas", time.Now())

	stats := &domain.Estadisticas{CombustibleTop: []domain.CombustibleUso{}}

	if err := s.db.QueryRowContext(ctx, qCountPendientes).Scan(&stats.Pendientes); err != nil {
		return nil, s.statsErr("pendientes", err)
	}
	if err := s.db.QueryRowContext(ctx, qCountCompletadosHoy).Scan(&stats.CompletadosHoy); err != nil {
		return nil, s.statsErr("completados hoy", err)
	}
	if err := s.db.QueryRowContext(ctx, qCountCompletadosSemana).Scan(&stats.CompletadosSemana); err != nil {
		return nil, s.statsErr("completados semana", err)
	}

	rows, err := s.db.QueryContext(ctx, qTopCombustibles)
	if err != nil {
		return nil, s.statsErr("top combustibles", err)
	}
	defer rows.Close()
	for rows.Next() {
		var uso domain.CombustibleUso
		if err := rows.Scan(&uso.Tipo, &uso.Cantidad); err != nil {
			return nil, s.statsErr("top combustibles", err)
		}
		stats.CombustibleTop = append(stats.CombustibleTop, uso)
	}
	if err := rows.Err(); err != nil {
		return nil, s.statsErr("top combustibles", err)
	}

	return stats, nil
}

func (s *DBStore) statsErr(which string, err error) error {
	if isConnectionError(err) {
		return ErrConnectionFailed
	}
	return fmt.Errorf("aggregating %s: %w", which, err)
}

// GetAdministrador fetches the stored credentials for a username.
func (s *DBStore) GetAdministrador(ctx context.Context, usuario string) (*AdminCredenciales, error) {
	defer observe("get_administrador", time.Now())

	var admin AdminCredenciales
	err := s.db.QueryRowContext(ctx, qGetAdministrador, usuario).Scan(&admin.ID, &admin.Usuario, &admin.Hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isConnectionError(err) {
			return nil, ErrConnectionFailed
		}
		return nil, fmt.Errorf("querying administrador: %w", err)
	}
	return &admin, nil
}

// upsertCliente finds or creates a client keyed by (nombre, direccion). A hit
// still rewrites all three fields so the phone number tracks the latest call.
// Runs inside the caller's transaction.
func (s *DBStore) upsertCliente(ctx context.Context, tx *sql.Tx, nombre, telefono, direccion string) (int64, error) {
	telefonoLimpio := domain.NormalizarTelefono(telefono)

	var clienteID int64
	err := tx.QueryRowContext(ctx, qSelectCliente, nombre, direccion).Scan(&clienteID)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, qUpdateCliente, nombre, telefonoLimpio, direccion, clienteID); err != nil {
			if isConnectionError(err) {
				return 0, ErrConnectionFailed
			}
			return 0, fmt.Errorf("updating cliente %d: %w", clienteID, err)
		}
		return clienteID, nil
	case errors.Is(err, sql.ErrNoRows):
		if err := tx.QueryRowContext(ctx, qInsertCliente, nombre, telefonoLimpio, direccion).Scan(&clienteID); err != nil {
			if isConnectionError(err) {
				return 0, ErrConnectionFailed
			}
			return 0, fmt.Errorf("inserting cliente: %w", err)
		}
		return clienteID, nil
	default:
		if isConnectionError(err) {
			return 0, ErrConnectionFailed
		}
		return 0, fmt.Errorf("looking up cliente: %w", err)
	}
}

func (s *DBStore) queryPedidos(ctx context.Context, query string, args ...any) ([]domain.Pedido, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if isConnectionError(err) {
			return nil, ErrConnectionFailed
		}
		return nil, fmt.Errorf("querying pedidos: %w", err)
	}
	defer rows.Close()

	pedidos := []domain.Pedido{}
	for rows.Next() {
		p, err := scanPedido(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pedido: %w", err)
		}
		pedidos = append(pedidos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pedidos: %w", err)
	}
	return pedidos, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPedido maps one denormalized row. The joins are outer, so every
// cliente/tipo/estado column can be NULL; a NULL estado surfaces as the
// string "pendiente".
func scanPedido(row rowScanner) (*domain.Pedido, error) {
	var (
		p               domain.Pedido
		fechaCompletado sql.NullTime
		observaciones   sql.NullString
		nombreCliente   sql.NullString
		telefono        sql.NullString
		direccion       sql.NullString
		tipoCombustible sql.NullString
		estado          sql.NullString
	)

	err := row.Scan(
		&p.ID, &p.Cantidad, &p.FechaPedido, &fechaCompletado, &observaciones,
		&p.NivelUrgencia, &nombreCliente, &telefono, &direccion, &tipoCombustible, &estado,
	)
	if err != nil {
		return nil, err
	}

	if fechaCompletado.Valid {
		t := fechaCompletado.Time
		p.FechaCompletado = &t
	}
	p.Observaciones = observaciones.String
	p.NombreCliente = nombreCliente.String
	p.Telefono = telefono.String
	p.Direccion = direccion.String
	p.TipoCombustible = tipoCombustible.String
	p.Estado = estado.String
	if p.Estado == "" {
		p.Estado = "pendiente"
	}
	return &p, nil
}
