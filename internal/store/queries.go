package store

// The SQL below is a bit-exact contract with the existing schema: table and
// column names, the join structure and the urgencia_pedido enum values must
// not drift from it.

const (
	// Denormalized order view; every read path composes on top of this.
	qSelectPedido = `
		SELECT
			p.pedidos_id AS id,
			p.cantidad_combustible AS cantidad,
			p.fecha_hora_creacion AS fecha_pedido,
			p.fecha_entrega AS fecha_completado,
			p.observacion AS observaciones,
			p.urgencia::text AS nivel_urgencia,
			c.nombre AS nombre_cliente,
			c.telefono::text AS telefono,
			c.direccion AS direccion,
			tc.tipo_combustible::text AS tipo_combustible,
			ep.estado_pedido::text AS estado
		FROM pedidos p
		LEFT JOIN cliente c ON p.cliente_id = c.cliente_id
		LEFT JOIN tipo_combustible tc ON p.tipo_combustible_id = tc.tipo_combustible_id
		LEFT JOIN estado_pedido ep ON p.estado_pedido_id = ep.estado_pedido_id
	`

	qGetPedido = qSelectPedido + `
		WHERE p.pedidos_id = $1;
	`

	qSearchPedidos = qSelectPedido + `
		WHERE c.nombre ILIKE $1 OR c.direccion ILIKE $1
		ORDER BY p.fecha_hora_creacion DESC;
	`

	qInsertPedido = `
		INSERT INTO pedidos (
			cliente_id, tipo_combustible_id, estado_pedido_id,
			cantidad_combustible, urgencia, observacion, fecha_hora_creacion
		) VALUES (
			$1, $2, $3, $4, $5::urgencia_pedido, $6, CURRENT_TIMESTAMP
		) RETURNING pedidos_id;
	`

	qUpdatePedido = `
		UPDATE pedidos SET
			cliente_id = $1,
			tipo_combustible_id = $2,
			cantidad_combustible = $3,
			urgencia = $4::urgencia_pedido,
			observacion = $5
		WHERE pedidos_id = $6;
	`

	qDeletePedido = `
		DELETE FROM pedidos WHERE pedidos_id = $1;
	`

	qChangeState = `
		UPDATE pedidos SET estado_pedido_id = $1 WHERE pedidos_id = $2;
	`

	// Completion time is stamped by the transition itself.
	qChangeStateCompletado = `
		UPDATE pedidos SET estado_pedido_id = $1, fecha_entrega = CURRENT_TIMESTAMP
		WHERE pedidos_id = $2;
	`

	qSelectCliente = `
		SELECT cliente_id FROM cliente
		WHERE nombre = $1 AND direccion = $2;
	`

	qUpdateCliente = `
		UPDATE cliente
		SET nombre = $1, telefono = $2, direccion = $3
		WHERE cliente_id = $4;
	`

	qInsertCliente = `
		INSERT INTO cliente (nombre, telefono, direccion)
		VALUES ($1, $2, $3)
		RETURNING cliente_id;
	`

	qCountPendientes = `
		SELECT COUNT(*) FROM pedidos p
		JOIN estado_pedido ep ON p.estado_pedido_id = ep.estado_pedido_id
		WHERE ep.estado_pedido::text = 'Pendiente';
	`

	qCountCompletadosHoy = `
		SELECT COUNT(*) FROM pedidos
		WHERE fecha_entrega IS NOT NULL
		AND DATE(fecha_entrega) = CURRENT_DATE;
	`

	qCountCompletadosSemana = `
		SELECT COUNT(*) FROM pedidos
		WHERE fecha_entrega IS NOT NULL
		AND fecha_entrega >= DATE_TRUNC('week', CURRENT_DATE);
	`

	qTopCombustibles = `
		SELECT tc.tipo_combustible::text, COUNT(*) AS cantidad
		FROM pedidos p
		JOIN tipo_combustible tc ON p.tipo_combustible_id = tc.tipo_combustible_id
		GROUP BY tc.tipo_combustible
		ORDER BY cantidad DESC
		LIMIT 5;
	`

	qGetAdministrador = `
		SELECT administrador_id, usuario, contraseña
		FROM administrador
		WHERE usuario = $1;
	`

	qCountAdministrador = `
		SELECT COUNT(*) FROM administrador WHERE usuario = $1;
	`

	qInsertAdministrador = `
		INSERT INTO administrador (usuario, contraseña) VALUES ($1, $2);
	`

	qCheckTipoCombustible = `
		SELECT tipo_combustible::text FROM tipo_combustible
		WHERE tipo_combustible_id = $1;
	`

	qCheckEstadoPedido = `
		SELECT estado_pedido::text FROM estado_pedido
		WHERE estado_pedido_id = $1;
	`
)
